// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Field names of an article object in the input JSON files.
const (
	FieldBody  = "isi"
	FieldTitle = "judul"
)

// CSV header columns, in output order.
const (
	ColumnSentence = "kalimat"
	ColumnTitle    = "judul_berita"
)

// Header is the first record of every output CSV file.
var Header = []string{ColumnSentence, ColumnTitle}

// Article is one news record from an input file: a body of raw text and the
// title it was published under.
type Article struct {
	// Body is the raw article text (JSON key "isi").
	Body string `json:"isi" yaml:"isi"`

	// Title is the article headline (JSON key "judul"), copied verbatim
	// into every row produced from the article.
	Title string `json:"judul" yaml:"judul"`
}

// Row is one output record: a single sentence paired with the title of the
// article it came from.
type Row struct {
	Sentence string `json:"kalimat" yaml:"kalimat"`
	Title    string `json:"judul_berita" yaml:"judul_berita"`
}

// Record returns the row as CSV fields in header order.
func (r Row) Record() []string {
	return []string{r.Sentence, r.Title}
}
