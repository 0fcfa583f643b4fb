package layout

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		kind   TokenKind
		number int
	}{
		{"single digit", "7", KindNumber, 7},
		{"two digits with period", "12.", KindNumber, 12},
		{"closing parenthesis", "3)", KindNumber, 3},
		{"three digits", "100", KindNumber, 100},
		{"leading zero", "07", KindNumber, 7},
		{"surrounding whitespace", "  45 ", KindNumber, 45},
		{"four digits", "1234", KindOther, 0},
		{"two trailing periods", "1..", KindOther, 0},
		{"bare period", ".", KindOther, 0},
		{"opening parenthesis", "(3", KindOther, 0},
		{"decimal", "1.5", KindOther, 0},
		{"word", "Section", KindLetter, 0},
		{"digit and letter", "3a", KindLetter, 0},
		{"letter prefix", "P1", KindLetter, 0},
		{"accented only", "ñ", KindOther, 0},
		{"bullet", "•", KindOther, 0},
		{"empty", "", KindOther, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text)
			if got.Kind != tt.kind {
				t.Errorf("Classify(%q) kind = %s, expected %s", tt.text, got.Kind, tt.kind)
			}
			if got.Number != tt.number {
				t.Errorf("Classify(%q) number = %d, expected %d", tt.text, got.Number, tt.number)
			}
		})
	}
}
