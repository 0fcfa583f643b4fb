package export

import (
	"fmt"
	"image"
	"math"

	"github.com/paes-tools/questioncrop/internal/models"
)

const pointsPerInch = 72.0

// Rect is a page region in points, top-down from the page's top-left corner
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Width returns the rectangle's width in points
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height returns the rectangle's height in points
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// UserSpace converts the rectangle into PDF user space (bottom-up, MediaBox origin)
// and formats it the way pdfcpu parses box arrays.
func (r Rect) UserSpace(geom models.PageGeometry) string {
	top := geom.OriginY + geom.Height
	return fmt.Sprintf("[%.4f %.4f %.4f %.4f]",
		geom.OriginX+r.X0, top-r.Y1,
		geom.OriginX+r.X1, top-r.Y0)
}

// Pixels returns the rectangle scaled to a raster rendered at dpi
func (r Rect) Pixels(dpi float64) image.Rectangle {
	scale := dpi / pointsPerInch
	return image.Rect(
		int(math.Round(r.X0*scale)), int(math.Round(r.Y0*scale)),
		int(math.Round(r.X1*scale)), int(math.Round(r.Y1*scale)),
	)
}

// ClampRect builds the full-width crop rectangle for an interval, clamped to the
// page. Padding can push the top above the page; anything left shorter than
// layout's minimum interval height is invalid geometry.
func ClampRect(iv models.QuestionInterval, geom models.PageGeometry) (Rect, error) {
	r := Rect{
		X0: 0,
		Y0: math.Max(0, iv.YTop),
		X1: geom.Width,
		Y1: math.Min(geom.Height, iv.YBottom),
	}
	if r.Width() <= 0 || r.Height() < 1 {
		return Rect{}, fmt.Errorf("invalid geometry: interval %.2f-%.2f on page of height %.2f", iv.YTop, iv.YBottom, geom.Height)
	}
	return r, nil
}
