// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract reads news-article JSON files and yields one row per
// sentence of each article body, paired with the article title.
//
// A file holds either a JSON array of article objects or a single object.
// Elements that are not objects, or that lack the body or title key, are
// skipped without error.
package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"os"
	"unicode/utf8"

	"github.com/pdiddy/news-sentences/internal/segment"
	"github.com/pdiddy/news-sentences/pkg/types"
)

// ErrorKind classifies a per-file failure.
type ErrorKind string

const (
	KindRead  ErrorKind = "read"
	KindParse ErrorKind = "parse"
)

var errInvalidUTF8 = errors.New("invalid UTF-8 encoding")

// FileError reports an input file that could not be read or parsed. The
// file contributes no rows; other files are unaffected.
type FileError struct {
	Path string
	Kind ErrorKind
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s error in %s: %v", e.Kind, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Document is a parsed input file. Elements stay as raw JSON until Rows
// decodes them one at a time.
type Document struct {
	path     string
	elements []json.RawMessage
}

// Open reads and parses the file at path. The whole file must be valid
// JSON before any row is produced.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileError{Path: path, Kind: KindRead, Err: err}
	}
	return Parse(path, data)
}

// Parse builds a Document from file contents. A top-level value that is not
// an array is treated as a one-element array.
func Parse(path string, data []byte) (*Document, error) {
	if !utf8.Valid(data) {
		return nil, &FileError{Path: path, Kind: KindParse, Err: errInvalidUTF8}
	}

	doc := &Document{path: path}
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(data, &doc.elements); err != nil {
			return nil, &FileError{Path: path, Kind: KindParse, Err: err}
		}
		return doc, nil
	}

	var single json.RawMessage
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, &FileError{Path: path, Kind: KindParse, Err: err}
	}
	doc.elements = []json.RawMessage{single}
	return doc, nil
}

// Path returns the file the document was read from.
func (d *Document) Path() string {
	return d.path
}

// Len returns the number of top-level elements, valid or not.
func (d *Document) Len() int {
	return len(d.elements)
}

// Rows yields (sentence, title) rows in element order, then sentence order.
// Each element is decoded and segmented only when the consumer reaches it.
func (d *Document) Rows() iter.Seq[types.Row] {
	return func(yield func(types.Row) bool) {
		for _, raw := range d.elements {
			article, ok := decodeArticle(raw)
			if !ok {
				continue
			}
			for _, sentence := range segment.Segment(article.Body) {
				if !yield(types.Row{Sentence: sentence, Title: article.Title}) {
					return
				}
			}
		}
	}
}

// decodeArticle returns the article held by raw, or false when raw is not an
// object or is missing the body or title key.
func decodeArticle(raw json.RawMessage) (types.Article, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return types.Article{}, false
	}
	bodyRaw, hasBody := obj[types.FieldBody]
	titleRaw, hasTitle := obj[types.FieldTitle]
	if !hasBody || !hasTitle {
		return types.Article{}, false
	}

	// A body that is not a JSON string has no sentences.
	var body string
	if err := json.Unmarshal(bodyRaw, &body); err != nil {
		body = ""
	}
	return types.Article{Body: body, Title: renderTitle(titleRaw)}, true
}

// renderTitle returns a string title verbatim and any other JSON value as
// its compact JSON text. Unmarshaling null into a string is a no-op, so a
// null title renders empty.
func renderTitle(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
