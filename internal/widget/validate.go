package widget

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

// validatorInstance returns the shared validator. Field errors carry the
// configuration key taken from the json tag.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		validateInst = v
	})
	return validateInst
}

// limits holds the numeric and textual bounds checked after conversion.
type limits struct {
	MaxWidth  int    `json:"max_width" validate:"min=10,max=100"`
	Length    int    `json:"length" validate:"min=0"`
	Separator string `json:"separator" validate:"required"`
	Ellipsis  string `json:"ellipsis" validate:"max=16"`
}

func (w *Widget) checkLimits(l limits) error {
	err := validatorInstance().Struct(l)
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		fe := ves[0]
		return &ValidationError{
			Kind:  w.kind,
			Field: fe.Field(),
			Err:   fmt.Errorf("failed %q constraint %s", fe.Tag(), fe.Param()),
		}
	}
	return &ValidationError{Kind: w.kind, Field: "config", Err: err}
}

var errNull = errors.New("null is not a value, omit the field to get the default")

// text converts a string configuration value.
func (w *Widget) text(field string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", &ValidationError{Kind: w.kind, Field: field, Err: fmt.Errorf("expected a string, got %v (%T)", v, v)}
	}
	return s, nil
}

// toInt converts an integral configuration value.
func toInt(v any) (int, error) {
	switch value := v.(type) {
	case int:
		return value, nil
	case int64:
		return int(value), nil
	case uint64:
		if value > math.MaxInt32 {
			return 0, fmt.Errorf("%d is too large", value)
		}
		return int(value), nil
	case float64:
		if value != math.Trunc(value) {
			return 0, fmt.Errorf("%v is not an integer", value)
		}
		return int(value), nil
	case json.Number:
		n, err := value.Int64()
		if err != nil {
			return 0, fmt.Errorf("%q is not an integer", value.String())
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("expected an integer, got %v (%T)", v, v)
	}
}
