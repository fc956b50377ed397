package config

import "sort"

// rawPrompt is a prompt decoded without a schema, used to see which keys
// were written as null. TOML has no null value.
type rawPrompt struct {
	Left  []map[string]any `json:"left" yaml:"left"`
	Right []map[string]any `json:"right" yaml:"right"`
}

// markNulls decodes the document a second time into rawPrompt values and
// records the null keys of every widget.
func markNulls(prompts map[string]Prompt, decode func(any) error) error {
	raw := map[string]rawPrompt{}
	if err := decode(&raw); err != nil {
		return err
	}

	for role, p := range prompts {
		r := raw[role]
		p.Left = withNulls(p.Left, r.Left)
		p.Right = withNulls(p.Right, r.Right)
		prompts[role] = p
	}
	return nil
}

func withNulls(widgets []Widget, raw []map[string]any) []Widget {
	for i := range widgets {
		if i >= len(raw) {
			break
		}
		var nulls []string
		for key, value := range raw[i] {
			if value == nil {
				nulls = append(nulls, key)
			}
		}
		sort.Strings(nulls)
		widgets[i].Nulls = nulls
	}
	return widgets
}
