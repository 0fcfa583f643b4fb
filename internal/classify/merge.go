package classify

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Labels maps "PREGUNTA_<id>" to the fields assigned to that question
type Labels map[string]map[string]any

// ParseJSON decodes a model reply, tolerating Markdown code fences around it
func ParseJSON(raw string) (Labels, error) {
	raw = strings.TrimSpace(raw)

	var out Labels
	if err := json.Unmarshal([]byte(raw), &out); err == nil {
		return out, nil
	}

	cleaned := raw
	if strings.HasPrefix(cleaned, "```") {
		lines := strings.Split(cleaned, "\n")
		lines = lines[1:]
		if n := len(lines); n > 0 && strings.HasPrefix(strings.TrimSpace(lines[n-1]), "```") {
			lines = lines[:n-1]
		}
		cleaned = strings.TrimSpace(strings.Join(lines, "\n"))
	}
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, "json\n"))

	out = nil
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return nil, fmt.Errorf("failed to parse model reply as JSON: %w", err)
	}
	return out, nil
}

// MergeShallow copies every question of src into dst, replacing existing ones
func MergeShallow(dst, src Labels) Labels {
	if dst == nil {
		dst = Labels{}
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// DeepMerge merges b into a copy of a; shared keys go through mergeValues
func DeepMerge(a, b map[string]any) map[string]any {
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		if prev, ok := out[k]; ok {
			out[k] = mergeValues(prev, v)
		} else {
			out[k] = v
		}
	}
	return out
}

// mergeValues combines two values found under the same key:
// maps merge recursively, lists concatenate without duplicates, a scalar joins
// a list if absent, and two different scalars become [a, b].
func mergeValues(a, b any) any {
	am, aIsMap := a.(map[string]any)
	bm, bIsMap := b.(map[string]any)
	if aIsMap && bIsMap {
		return DeepMerge(am, bm)
	}

	al, aIsList := a.([]any)
	bl, bIsList := b.([]any)
	switch {
	case aIsList && bIsList:
		var out []any
		for _, x := range append(append([]any{}, al...), bl...) {
			if !contains(out, x) {
				out = append(out, x)
			}
		}
		return out
	case aIsList:
		if contains(al, b) {
			return al
		}
		return append(append([]any{}, al...), b)
	case bIsList:
		if contains(bl, a) {
			return bl
		}
		return append([]any{a}, bl...)
	}

	if reflect.DeepEqual(a, b) {
		return a
	}
	return []any{a, b}
}

func contains(list []any, v any) bool {
	for _, x := range list {
		if reflect.DeepEqual(x, v) {
			return true
		}
	}
	return false
}

// MergeQuestionDicts deep-merges per-task results question by question
func MergeQuestionDicts(dicts ...Labels) Labels {
	result := Labels{}
	for _, d := range dicts {
		for q, payload := range d {
			if prev, ok := result[q]; ok {
				result[q] = DeepMerge(prev, payload)
			} else {
				result[q] = payload
			}
		}
	}
	return result
}
