package layout

import (
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/paes-tools/questioncrop/internal/models"
)

const (
	// RowTolerance is the baseline distance, in points, under which glyphs share a row
	RowTolerance = 2.0
	// WordSpaceMultiplier of the font size separates two words on the same row
	WordSpaceMultiplier = 0.3
	fallbackWordGap     = 3.0
)

// row is anchored on the baseline of its first glyph so that rows never widen
type row struct {
	baseline float64
	glyphs   []pdf.Text
}

// GroupWords assembles positioned glyphs into word tokens. Only glyphs whose
// horizontal extent lies inside [0, maxX] (measured from the page's left edge)
// are considered. Words are returned top-to-bottom, then left-to-right.
func GroupWords(glyphs []pdf.Text, geom models.PageGeometry, page int, maxX float64) []models.PageToken {
	var rows []row
	for _, g := range glyphs {
		x := g.X - geom.OriginX
		if x < 0 || x+g.W > maxX {
			continue
		}

		placed := false
		for i := range rows {
			if math.Abs(g.Y-rows[i].baseline) <= RowTolerance {
				rows[i].glyphs = append(rows[i].glyphs, g)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, row{baseline: g.Y, glyphs: []pdf.Text{g}})
		}
	}

	// PDF y grows upwards, so the highest baseline is the top row.
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].baseline > rows[j].baseline
	})

	var tokens []models.PageToken
	for _, r := range rows {
		sort.SliceStable(r.glyphs, func(i, j int) bool {
			return r.glyphs[i].X < r.glyphs[j].X
		})
		tokens = append(tokens, splitRow(r.glyphs, geom, page)...)
	}

	return tokens
}

func splitRow(glyphs []pdf.Text, geom models.PageGeometry, page int) []models.PageToken {
	var tokens []models.PageToken
	var current []pdf.Text

	flush := func() {
		if len(current) > 0 {
			tokens = append(tokens, wordToken(current, geom, page))
			current = nil
		}
	}

	for _, g := range glyphs {
		if strings.TrimSpace(g.S) == "" {
			flush()
			continue
		}

		if len(current) > 0 {
			last := current[len(current)-1]
			gap := g.X - (last.X + last.W)
			threshold := WordSpaceMultiplier * last.FontSize
			if last.FontSize == 0 {
				threshold = fallbackWordGap
			}
			if gap > threshold {
				flush()
			}
		}
		current = append(current, g)
	}
	flush()

	return tokens
}

func wordToken(glyphs []pdf.Text, geom models.PageGeometry, page int) models.PageToken {
	pageTop := geom.OriginY + geom.Height

	var sb strings.Builder
	tok := models.PageToken{
		X0:   math.Inf(1),
		Y0:   math.Inf(1),
		X1:   math.Inf(-1),
		Y1:   math.Inf(-1),
		Page: page,
	}
	for _, g := range glyphs {
		sb.WriteString(g.S)
		tok.X0 = math.Min(tok.X0, g.X-geom.OriginX)
		tok.X1 = math.Max(tok.X1, g.X+g.W-geom.OriginX)
		tok.Y0 = math.Min(tok.Y0, pageTop-(g.Y+g.FontSize))
		tok.Y1 = math.Max(tok.Y1, pageTop-g.Y)
	}
	tok.Text = sb.String()

	return tok
}
