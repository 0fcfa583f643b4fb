package layout

import (
	"errors"
	"fmt"

	"github.com/ledongthuc/pdf"
	"github.com/paes-tools/questioncrop/internal/models"
)

// NumberToken is a margin token classified as a question number
type NumberToken struct {
	Token  models.PageToken
	Number int
}

// PageScan is what one page's margin strip contains
type PageScan struct {
	Page       int
	Geometry   models.PageGeometry
	Tokens     []models.PageToken
	Numbers    []NumberToken
	HasLetters bool
}

// Invalid reports whether the page must be excluded from question boundaries:
// it has no question number but at least one margin token with a Latin letter.
func (s PageScan) Invalid() bool {
	return len(s.Numbers) == 0 && s.HasLetters
}

// ScanTokens classifies the margin tokens of one page
func ScanTokens(page int, geom models.PageGeometry, tokens []models.PageToken) PageScan {
	scan := PageScan{
		Page:     page,
		Geometry: geom,
		Tokens:   tokens,
	}
	for _, tok := range tokens {
		c := Classify(tok.Text)
		switch c.Kind {
		case KindNumber:
			scan.Numbers = append(scan.Numbers, NumberToken{Token: tok, Number: c.Number})
		case KindLetter:
			scan.HasLetters = true
		}
	}
	return scan
}

// ScanPage reads the words inside the left margin strip of a page.
// index is the zero-based page index recorded on every token.
func ScanPage(p pdf.Page, index int, leftRatio float64) (scan PageScan, err error) {
	// The text reader panics on malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to read page text: %v", r)
		}
	}()

	if p.V.IsNull() {
		return PageScan{}, errors.New("page not found")
	}

	geom, err := PageGeometryOf(p)
	if err != nil {
		return PageScan{}, err
	}

	content := p.Content()
	tokens := GroupWords(content.Text, geom, index, leftRatio*geom.Width)

	return ScanTokens(index, geom, tokens), nil
}
