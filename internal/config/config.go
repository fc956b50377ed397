// Package config loads prompt descriptions from JSON, TOML or YAML files.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Roles are the prompt variables a configuration may describe, in the order
// they are emitted.
var Roles = []string{"PS1", "PS2", "PS3", "PS4"}

// Config maps a prompt role to its description.
type Config struct {
	Prompts map[string]Prompt
}

// Prompt holds the widgets of both sides of one role.
type Prompt struct {
	Left  []Widget `json:"left,omitempty" toml:"left" yaml:"left"`
	Right []Widget `json:"right,omitempty" toml:"right" yaml:"right"`
}

// Widget is a raw widget descriptor. Values are kept as decoded so the
// widget constructor can report a wrongly typed field together with the
// widget type; an absent field is nil.
type Widget struct {
	Type        string `json:"type" toml:"type" yaml:"type"`
	FG          any    `json:"fg,omitempty" toml:"fg" yaml:"fg"`
	BG          any    `json:"bg,omitempty" toml:"bg" yaml:"bg"`
	Fmt         any    `json:"fmt,omitempty" toml:"fmt" yaml:"fmt"`
	Term        any    `json:"term,omitempty" toml:"term" yaml:"term"`
	Prefix      any    `json:"prefix,omitempty" toml:"prefix" yaml:"prefix"`
	Suffix      any    `json:"suffix,omitempty" toml:"suffix" yaml:"suffix"`
	Sufix       any    `json:"sufix,omitempty" toml:"sufix" yaml:"sufix"`
	Content     any    `json:"content,omitempty" toml:"content" yaml:"content"`
	Length      any    `json:"length,omitempty" toml:"length" yaml:"length"`
	SecondaryFG any    `json:"secondary_fg,omitempty" toml:"secondary_fg" yaml:"secondary_fg"`
	SecondaryBG any    `json:"secondary_bg,omitempty" toml:"secondary_bg" yaml:"secondary_bg"`
	Separator   any    `json:"separator,omitempty" toml:"separator" yaml:"separator"`
	MaxWidth    any    `json:"max_width,omitempty" toml:"max_width" yaml:"max_width"`
	Ellipsis    any    `json:"ellipsis,omitempty" toml:"ellipsis" yaml:"ellipsis"`

	// Nulls lists the keys given with an explicit null value, sorted.
	Nulls []string `json:"-" toml:"-" yaml:"-"`
}

// SuffixText returns the suffix and the key it was read from, accepting the
// historical "sufix" spelling.
func (w Widget) SuffixText() (any, string) {
	if w.Suffix != nil {
		return w.Suffix, "suffix"
	}
	return w.Sufix, "sufix"
}

// Format is the syntax of a configuration document.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from the file extension. Unknown
// extensions are read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &InputError{Path: path, Err: err}
	}

	cfg, err := Parse(data, FormatFromPath(path))
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.Path = path
		}
		return nil, err
	}
	return cfg, nil
}

// Parse decodes a configuration document. Unknown fields and unknown role
// names are rejected.
func Parse(data []byte, format Format) (*Config, error) {
	prompts := map[string]Prompt{}

	var err error
	switch format {
	case FormatTOML:
		err = decodeTOML(data, &prompts)
	case FormatYAML:
		err = decodeYAML(data, &prompts)
		if err == nil {
			err = markNulls(prompts, func(v any) error { return yaml.Unmarshal(data, v) })
		}
	default:
		format = FormatJSON
		err = decodeJSON(data, &prompts)
		if err == nil {
			err = markNulls(prompts, func(v any) error { return json.Unmarshal(StripComments(data), v) })
		}
	}
	if err != nil {
		return nil, &ParseError{Format: format, Err: err}
	}

	for role := range prompts {
		if !slices.Contains(Roles, role) {
			return nil, &ParseError{
				Format: format,
				Err:    fmt.Errorf("unknown prompt role %q, expected one of %s", role, strings.Join(Roles, ", ")),
			}
		}
	}

	return &Config{Prompts: prompts}, nil
}

func decodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(StripComments(data)))
	dec.UseNumber()
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after the top level object")
	}
	return nil
}

func decodeTOML(data []byte, v any) error {
	md, err := toml.Decode(string(data), v)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown field %q", undecoded[0].String())
	}
	return nil
}

func decodeYAML(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
