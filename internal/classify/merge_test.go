package classify

import (
	"reflect"
	"testing"
)

func TestParseJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Labels
		wantErr bool
	}{
		{
			name: "plain",
			raw:  `{"PREGUNTA_1": {"Habilidades": ["Modelar"]}}`,
			want: Labels{"PREGUNTA_1": {"Habilidades": []any{"Modelar"}}},
		},
		{
			name: "json fence",
			raw:  "```json\n{\"PREGUNTA_2\": {\"Habilidades\": [\"Argumentar\"]}}\n```",
			want: Labels{"PREGUNTA_2": {"Habilidades": []any{"Argumentar"}}},
		},
		{
			name: "bare fence with surrounding whitespace",
			raw:  "  ```\n{\"PREGUNTA_3\": {}}\n```  ",
			want: Labels{"PREGUNTA_3": {}},
		},
		{
			name:    "not json",
			raw:     "I cannot see any images",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseJSON(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected an error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestMergeValues(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want any
	}{
		{"equal scalars", "x", "x", "x"},
		{"different scalars", "x", "y", []any{"x", "y"}},
		{"lists deduplicated in order", []any{"a", "b"}, []any{"b", "c"}, []any{"a", "b", "c"}},
		{"list plus present scalar", []any{"a"}, "a", []any{"a"}},
		{"list plus new scalar", []any{"a"}, "b", []any{"a", "b"}},
		{"scalar plus list", "z", []any{"a"}, []any{"z", "a"}},
		{"scalar already in list", "a", []any{"a", "b"}, []any{"a", "b"}},
		{
			"maps merge recursively",
			map[string]any{"k": []any{"a"}, "only": 1.0},
			map[string]any{"k": []any{"b"}},
			map[string]any{"k": []any{"a", "b"}, "only": 1.0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mergeValues(tt.a, tt.b)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestDeepMergeDoesNotMutate(t *testing.T) {
	a := map[string]any{"Habilidades": []any{"Modelar"}}
	b := map[string]any{"Habilidades": []any{"Representar"}}

	got := DeepMerge(a, b)

	if len(a["Habilidades"].([]any)) != 1 {
		t.Errorf("Expected first map untouched, got %v", a)
	}
	want := []any{"Modelar", "Representar"}
	if !reflect.DeepEqual(got["Habilidades"], want) {
		t.Errorf("Expected %v, got %v", want, got["Habilidades"])
	}
}

func TestMergeQuestionDicts(t *testing.T) {
	skills := Labels{
		"PREGUNTA_1": {"Habilidades": []any{"Modelar"}},
		"PREGUNTA_2": {"Habilidades": []any{"Argumentar"}},
	}
	units := Labels{
		"PREGUNTA_1": {"Unidad Temática": []any{"Números"}},
	}
	sub := Labels{
		"PREGUNTA_1": {"Sub-unidad": []any{"Productos notables"}},
	}
	more := Labels{
		"PREGUNTA_1": {"Sub-unidad": []any{"Función cuadrática", "Productos notables"}},
	}

	got := MergeQuestionDicts(skills, nil, units, sub, more)

	want := Labels{
		"PREGUNTA_1": {
			"Habilidades":     []any{"Modelar"},
			"Unidad Temática": []any{"Números"},
			"Sub-unidad":      []any{"Productos notables", "Función cuadrática"},
		},
		"PREGUNTA_2": {"Habilidades": []any{"Argumentar"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestMergeShallowReplaces(t *testing.T) {
	dst := Labels{"PREGUNTA_1": {"a": 1.0}}
	MergeShallow(dst, Labels{"PREGUNTA_1": {"b": 2.0}, "PREGUNTA_2": {}})

	if _, ok := dst["PREGUNTA_1"]["a"]; ok {
		t.Errorf("Expected PREGUNTA_1 to be replaced, got %v", dst["PREGUNTA_1"])
	}
	if len(dst) != 2 {
		t.Errorf("Expected 2 questions, got %d", len(dst))
	}
}
