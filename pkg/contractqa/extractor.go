package contractqa

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// BlobReader returns the raw bytes stored under a document's file URL.
type BlobReader interface {
	Download(ctx context.Context, URL string) ([]byte, error)
}

// Extractor turns a stored PDF into linear text.
type Extractor interface {
	Extract(ctx context.Context, doc *Document) (string, error)
	ExtractPages(ctx context.Context, doc *Document) ([]string, error)
}

type pdfExtractor struct {
	blobs BlobReader
}

func NewPDFExtractor(blobs BlobReader) Extractor {
	return &pdfExtractor{blobs: blobs}
}

// Extract joins the text of every page with a newline. Pages without
// extractable text contribute an empty string.
func (e *pdfExtractor) Extract(ctx context.Context, doc *Document) (string, error) {
	pages, err := e.ExtractPages(ctx, doc)
	if err != nil {
		return "", err
	}
	return strings.Join(pages, "\n"), nil
}

func (e *pdfExtractor) ExtractPages(ctx context.Context, doc *Document) ([]string, error) {
	data, err := e.blobs.Download(ctx, doc.FileURL)
	if err != nil {
		return nil, &ExtractionError{DocumentID: doc.ID.String(), Err: fmt.Errorf("download %s: %w", doc.FileURL, err)}
	}
	pages, err := ExtractPDFPages(data)
	if err != nil {
		return nil, &ExtractionError{DocumentID: doc.ID.String(), Err: err}
	}
	return pages, nil
}

// ExtractPDFPages returns the plain text of each page in document order.
func ExtractPDFPages(data []byte) (pages []string, err error) {
	if len(data) == 0 {
		return nil, errors.New("empty document")
	}
	// the pdf package panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("parse pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	total := reader.NumPage()
	pages = make([]string, 0, total)
	for i := 1; i <= total; i++ {
		pages = append(pages, pageText(reader.Page(i)))
	}
	return pages, nil
}

func pageText(page pdf.Page) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()
	if page.V.IsNull() {
		return ""
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}

// EmptyPages lists the 1-based numbers of pages that produced no text.
func EmptyPages(pages []string) []int {
	empty := make([]int, 0)
	for i, p := range pages {
		if strings.TrimSpace(p) == "" {
			empty = append(empty, i+1)
		}
	}
	return empty
}
