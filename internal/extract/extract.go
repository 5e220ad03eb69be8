package extract

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrUnsupportedFormat is returned for file types the upload endpoint
// does not handle.
var ErrUnsupportedFormat = errors.New("unsupported file format, expected PDF, TXT or MD")

// Section is one extracted unit of a document's text. PDFs yield one
// section per page; plain-text files yield a single section with
// page 0.
type Section struct {
	Page int
	Text string
}

// FromFile extracts cleaned text from an uploaded file based on its
// extension.
func FromFile(name string, r io.ReaderAt, size int64) ([]Section, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return fromPDF(r, size)
	case ".txt", ".md":
		return fromPlainText(io.NewSectionReader(r, 0, size))
	default:
		return nil, ErrUnsupportedFormat
	}
}

func fromPDF(r io.ReaderAt, size int64) ([]Section, error) {
	doc, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("parse pdf: %w", err)
	}

	var sections []Section
	for i := 1; i <= doc.NumPage(); i++ {
		page := doc.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unextractable pages rather than failing the upload.
			continue
		}
		if cleaned := CleanText(text); cleaned != "" {
			sections = append(sections, Section{Page: i, Text: cleaned})
		}
	}
	return sections, nil
}

func fromPlainText(r io.Reader) ([]Section, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	cleaned := CleanText(string(data))
	if cleaned == "" {
		return nil, nil
	}
	return []Section{{Page: 0, Text: cleaned}}, nil
}

// CleanText collapses all runs of whitespace into single spaces and
// trims the ends.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
