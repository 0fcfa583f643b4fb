package export

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
)

// CropImage cuts r out of a page raster rendered at dpi. The pixel rectangle is
// intersected with the raster's bounds so rounding never reads past the edge.
func CropImage(page image.Image, r Rect, dpi float64) (image.Image, error) {
	bounds := page.Bounds()
	px := r.Pixels(dpi).Add(bounds.Min).Intersect(bounds)
	if px.Empty() {
		return nil, fmt.Errorf("crop %v is outside the rendered page %v", r.Pixels(dpi), bounds)
	}

	out := image.NewRGBA(image.Rect(0, 0, px.Dx(), px.Dy()))
	draw.Draw(out, out.Bounds(), page, px.Min, draw.Src)
	return out, nil
}

// LowQBound returns the largest side, in pixels, of the low-fidelity variant.
// A positive maxWidth wins; otherwise it is half the region's width at lowDPI.
func LowQBound(widthPoints, lowDPI float64, maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	bound := int(widthPoints * lowDPI / pointsPerInch / 2)
	if bound < 1 {
		bound = 1
	}
	return bound
}

// Downsample shrinks img so neither side exceeds bound, keeping the aspect
// ratio. Images already within bound are returned unchanged.
func Downsample(img image.Image, bound int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= bound && h <= bound {
		return img
	}

	scale := math.Min(float64(bound)/float64(w), float64(bound)/float64(h))
	nw := max(1, int(math.Round(float64(w)*scale)))
	nh := max(1, int(math.Round(float64(h)*scale)))

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Flatten composites img over an opaque white background
func Flatten(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

// WritePNG encodes img losslessly
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// WriteLowQ downsamples, flattens and JPEG-encodes img
func WriteLowQ(w io.Writer, img image.Image, bound, quality int) error {
	small := Flatten(Downsample(img, bound))
	if err := jpeg.Encode(w, small, &jpeg.Options{Quality: quality}); err != nil {
		return fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return nil
}
