package layout

import (
	"errors"
	"math"

	"github.com/ledongthuc/pdf"
	"github.com/paes-tools/questioncrop/internal/models"
)

// maxInheritanceDepth bounds the walk up the page tree
const maxInheritanceDepth = 32

var errNoMediaBox = errors.New("page has no usable MediaBox")

// PageGeometryOf reads the page's MediaBox, following inheritance through the
// page tree when the page does not define one itself.
func PageGeometryOf(p pdf.Page) (models.PageGeometry, error) {
	v := p.V
	for depth := 0; depth < maxInheritanceDepth && !v.IsNull(); depth++ {
		box := v.Key("MediaBox")
		if box.Kind() == pdf.Array && box.Len() == 4 {
			return geometryFromBox(
				box.Index(0).Float64(),
				box.Index(1).Float64(),
				box.Index(2).Float64(),
				box.Index(3).Float64(),
			)
		}
		v = v.Key("Parent")
	}
	return models.PageGeometry{}, errNoMediaBox
}

func geometryFromBox(x0, y0, x1, y1 float64) (models.PageGeometry, error) {
	geom := models.PageGeometry{
		Width:   math.Abs(x1 - x0),
		Height:  math.Abs(y1 - y0),
		OriginX: math.Min(x0, x1),
		OriginY: math.Min(y0, y1),
	}
	if geom.Width == 0 || geom.Height == 0 {
		return models.PageGeometry{}, errNoMediaBox
	}
	return geom, nil
}
