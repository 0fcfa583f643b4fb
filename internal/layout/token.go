package layout

import (
	"strconv"
	"strings"
)

// TokenKind tags a margin token
type TokenKind int

const (
	// KindOther is neither a question number nor text with Latin letters (e.g. "•", "--")
	KindOther TokenKind = iota
	// KindNumber is a question-number marker such as "7", "12." or "3)"
	KindNumber
	// KindLetter contains at least one ASCII letter
	KindLetter
)

func (k TokenKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindLetter:
		return "letter"
	default:
		return "other"
	}
}

// Classification is the result of classifying one token
type Classification struct {
	Kind   TokenKind
	Number int // set only for KindNumber
}

const maxMarkerDigits = 3

// Classify decides whether a token is a question marker: one to three ASCII digits,
// optionally followed by a single '.' or ')', surrounded by nothing but whitespace.
func Classify(text string) Classification {
	if n, ok := parseMarker(text); ok {
		return Classification{Kind: KindNumber, Number: n}
	}
	if hasLatinLetter(text) {
		return Classification{Kind: KindLetter}
	}
	return Classification{Kind: KindOther}
}

func parseMarker(text string) (int, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, false
	}

	if last := s[len(s)-1]; last == '.' || last == ')' {
		s = s[:len(s)-1]
	}

	if len(s) == 0 || len(s) > maxMarkerDigits {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func hasLatinLetter(text string) bool {
	for i := 0; i < len(text); i++ {
		c := text[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
			return true
		}
	}
	return false
}
