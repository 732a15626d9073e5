package services

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/sahilchouksey/learnhub-api/utils/pdfvalidation"
)

// MaxExtractedChars caps how much handout text is copied into a lesson body
const MaxExtractedChars = 100_000

// ErrNoExtractableText is returned for scanned or image-only PDFs
var ErrNoExtractableText = errors.New("no extractable text in PDF")

// PDFExtractor handles PDF text extraction using ledongthuc/pdf (MIT license)
type PDFExtractor struct{}

// NewPDFExtractor creates a new PDF extractor
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// ExtractText extracts text from PDF bytes row by row, page by page
func (p *PDFExtractor) ExtractText(content []byte) (text string, err error) {
	if len(content) == 0 {
		return "", fmt.Errorf("empty PDF content")
	}

	// ledongthuc/pdf panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to parse PDF: %v", r)
		}
	}()

	content = pdfvalidation.Sanitize(content)

	pdfReader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to parse PDF: %w", err)
	}

	numPages := pdfReader.NumPage()
	if numPages == 0 {
		return "", fmt.Errorf("PDF has no pages")
	}

	var textBuilder strings.Builder

	for i := 1; i <= numPages && textBuilder.Len() < MaxExtractedChars; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}

		// Try to extract text by row for better structure preservation
		rows, err := page.GetTextByRow()
		if err != nil {
			// Fallback to plain text if row extraction fails
			plain, plainErr := page.GetPlainText(nil)
			if plainErr != nil {
				continue
			}
			textBuilder.WriteString(plain)
			textBuilder.WriteString("\n")
			continue
		}

		for _, row := range rows {
			var rowText strings.Builder
			for _, word := range row.Content {
				rowText.WriteString(word.S)
			}
			if line := strings.TrimSpace(rowText.String()); line != "" {
				textBuilder.WriteString(line)
				textBuilder.WriteString("\n")
			}
		}
		textBuilder.WriteString("\n") // Separate pages
	}

	extracted := strings.TrimSpace(textBuilder.String())
	if extracted == "" {
		return "", ErrNoExtractableText
	}
	if len(extracted) > MaxExtractedChars {
		extracted = strings.ToValidUTF8(extracted[:MaxExtractedChars], "")
	}
	return extracted, nil
}
