// Package pdfprocessor provides the text side of report handling: PDF text
// extraction and token-bounded truncation of the extracted text.
//
// extractor.go implements the Extractor that reads an uploaded PDF held in
// memory. It uses the ledongthuc/pdf library for PDF parsing.
package pdfprocessor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"reportmailer/core"
)

const opExtract = "pdf.extract"

// ErrNoPDFContent is returned (wrapped in an extraction error) when a PDF
// contains no extractable text.
var ErrNoPDFContent = errors.New("no text content found in PDF")

// ErrEmptyDocument is returned when the uploaded resource has no bytes.
var ErrEmptyDocument = errors.New("empty PDF document")

// PageResult represents extracted text from a single PDF page.
type PageResult struct {
	// PageNumber is the 1-indexed page number
	PageNumber int

	// Text is the extracted text content, untrimmed
	Text string

	// EstimatedTokens is a rough token estimate used for logging
	EstimatedTokens int
}

// ExtractionResult contains the complete result of PDF text extraction.
type ExtractionResult struct {
	// Text is the concatenation of every page's text, in page order,
	// with no separator inserted between pages
	Text string

	// TotalPages is the number of pages in the PDF
	TotalPages int

	// EmptyPages is the number of pages that yielded no text
	EmptyPages int

	// EstimatedTokens is a rough token estimate of Text
	EstimatedTokens int

	// Pages contains per-page extraction results
	Pages []PageResult
}

// ExtractorConfig holds configuration for PDF text extraction.
type ExtractorConfig struct {
	// AllowEmptyPages when true tolerates pages without text (cover images,
	// charts). The document as a whole must still yield text.
	AllowEmptyPages bool
}

// DefaultExtractorConfig returns the strict configuration: any page without
// extractable text fails the extraction.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{AllowEmptyPages: false}
}

// Extractor extracts text from PDF documents.
//
// Thread-Safety:
//   - Extractor is safe for concurrent use (stateless)
type Extractor struct {
	config ExtractorConfig
}

// NewExtractor creates a new Extractor with the given configuration.
func NewExtractor(config ExtractorConfig) *Extractor {
	return &Extractor{config: config}
}

// NewDefaultExtractor creates an Extractor with default configuration.
func NewDefaultExtractor() *Extractor {
	return NewExtractor(DefaultExtractorConfig())
}

// ExtractBytes extracts text from a PDF held in memory.
//
// Example:
//
//	data, _ := io.ReadAll(upload)
//	result, err := NewDefaultExtractor().ExtractBytes(data)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Text)
func (e *Extractor) ExtractBytes(data []byte) (*ExtractionResult, error) {
	if len(data) == 0 {
		return nil, core.ExtractionError(opExtract, "", ErrEmptyDocument)
	}
	return e.ExtractReader(bytes.NewReader(data), int64(len(data)))
}

// ExtractReader extracts text from a PDF available through r.
// Every failure is returned as a core extraction error.
func (e *Extractor) ExtractReader(r io.ReaderAt, size int64) (result *ExtractionResult, err error) {
	// ledongthuc/pdf panics on some malformed object graphs instead of
	// returning an error.
	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = core.ExtractionError(opExtract, "malformed PDF", fmt.Errorf("%v", rec))
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, core.ExtractionError(opExtract, "failed to open PDF", err)
	}
	return e.extractFromReader(reader)
}

// extractFromReader performs the actual extraction from a pdf.Reader.
func (e *Extractor) extractFromReader(r *pdf.Reader) (*ExtractionResult, error) {
	totalPages := r.NumPage()

	result := &ExtractionResult{
		TotalPages: totalPages,
		Pages:      make([]PageResult, 0, totalPages),
	}

	var textBuilder strings.Builder

	// Pages are 1-indexed in ledongthuc/pdf
	for pageIndex := 1; pageIndex <= totalPages; pageIndex++ {
		page, err := extractPage(r, pageIndex)
		if err != nil {
			return nil, core.ExtractionError(opExtract, fmt.Sprintf("page %d", pageIndex), err)
		}
		result.Pages = append(result.Pages, page)

		if strings.TrimSpace(page.Text) == "" {
			result.EmptyPages++
			if !e.config.AllowEmptyPages {
				return nil, core.ExtractionError(opExtract, fmt.Sprintf("page %d", pageIndex), ErrNoPDFContent)
			}
			continue
		}

		textBuilder.WriteString(page.Text)
	}

	result.Text = textBuilder.String()
	result.EstimatedTokens = EstimateTokenCount(result.Text)

	if strings.TrimSpace(result.Text) == "" {
		return nil, core.ExtractionError(opExtract, "", ErrNoPDFContent)
	}

	return result, nil
}

// extractPage extracts text from a single page.
func extractPage(r *pdf.Reader, pageIndex int) (PageResult, error) {
	result := PageResult{PageNumber: pageIndex}

	p := r.Page(pageIndex)
	if p.V.IsNull() {
		return result, nil
	}

	text, err := p.GetPlainText(nil)
	if err != nil {
		return result, fmt.Errorf("failed to extract text: %w", err)
	}

	result.Text = text
	result.EstimatedTokens = EstimateTokenCount(text)
	return result, nil
}

// ExtractText is a convenience function that extracts text from an in-memory
// PDF using default configuration and returns just the text content.
func ExtractText(data []byte) (string, error) {
	result, err := NewDefaultExtractor().ExtractBytes(data)
	if err != nil {
		return "", err
	}
	return result.Text, nil
}
