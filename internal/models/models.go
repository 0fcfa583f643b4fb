package models

// PageToken is a positioned word read from a page's text layer.
// Coordinates are in points, top-down, relative to the page's top-left corner.
type PageToken struct {
	X0   float64
	Y0   float64
	X1   float64
	Y1   float64
	Text string
	Page int
}

// QuestionMarker is a margin token that was classified as a question number
type QuestionMarker struct {
	Page           int
	QuestionNumber int
	YTop           float64 // top of the marker minus the vertical padding
	Document       string
	Text           string
}

// PageGeometry describes a page's MediaBox
type PageGeometry struct {
	Width   float64
	Height  float64
	OriginX float64 // lower-left x of the MediaBox, PDF user space
	OriginY float64 // lower-left y of the MediaBox, PDF user space
}

// QuestionInterval is the vertical page region attributed to one question
type QuestionInterval struct {
	Page           int
	QuestionNumber int
	YTop           float64
	YBottom        float64
}

// Height returns the interval's height in points
func (i QuestionInterval) Height() float64 {
	return i.YBottom - i.YTop
}

// QuestionRecord is one row of the corpus: the exported artifacts for one interval.
// Pointer paths map to optional parquet columns.
// A failed export leaves every path nil.
type QuestionRecord struct {
	Page           int     `json:"page" parquet:"page"`
	QuestionNumber int     `json:"question_number" parquet:"question_number"`
	PDFPath        *string `json:"pdf_path" parquet:"pdf_path"`
	PNGPath        *string `json:"png_path" parquet:"png_path"`
	PDFFile        string  `json:"pdf_file" parquet:"pdf_file"`
	LowQPath       *string `json:"lowq_path" parquet:"lowq_path"`
}

// Exported reports whether the record carries artifact paths
func (r QuestionRecord) Exported() bool {
	return r.PDFPath != nil && r.PNGPath != nil && r.LowQPath != nil
}

// DocumentStats summarizes what the pipeline found in one source document
type DocumentStats struct {
	Document      string `yaml:"document"`
	Pages         int    `yaml:"pages"`
	SkippedPages  []int  `yaml:"skipped_pages,omitempty"`
	InvalidPages  []int  `yaml:"invalid_pages,omitempty"`
	Markers       int    `yaml:"markers"`
	Intervals     int    `yaml:"intervals"`
	FailedExports int    `yaml:"failed_exports"`
}

// DocumentResult is one document's contribution to the corpus
type DocumentResult struct {
	Stats   DocumentStats
	Records []QuestionRecord
}
