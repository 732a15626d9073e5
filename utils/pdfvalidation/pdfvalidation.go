package pdfvalidation

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFLimits defines the validation limits for PDF uploads
type PDFLimits struct {
	MaxFileSizeMB    int    // Maximum file size in MB
	MaxPages         int    // Maximum number of pages
	DocumentTypeName string // For error messages (e.g., "lesson handout")
}

// HandoutLimits apply to PDF documents attached to lessons
var HandoutLimits = PDFLimits{
	MaxFileSizeMB:    25,
	MaxPages:         200,
	DocumentTypeName: "lesson handout",
}

// ValidationResult contains the result of PDF validation
type ValidationResult struct {
	Valid     bool
	PageCount int
	FileSize  int64
	Error     string
	Content   []byte // raw bytes, only set when Valid
}

// ValidatePDFFile validates an uploaded PDF against the given limits.
// A non-nil error means the upload could not be read; rule violations are reported in Error.
func ValidatePDFFile(file *multipart.FileHeader, limits PDFLimits) (*ValidationResult, error) {
	// 1. Validate file extension
	if !strings.EqualFold(filepath.Ext(file.Filename), ".pdf") {
		return &ValidationResult{FileSize: file.Size, Error: "Only PDF files are supported"}, nil
	}

	// 2. Validate file size before reading it into memory
	if file.Size > maxBytes(limits) {
		return &ValidationResult{
			FileSize: file.Size,
			Error:    fmt.Sprintf("File size exceeds maximum allowed size of %dMB", limits.MaxFileSizeMB),
		}, nil
	}

	// 3. Open file and read content
	fileContent, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer fileContent.Close()

	content, err := io.ReadAll(fileContent)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return ValidatePDFBytes(content, limits), nil
}

// ValidatePDFBytes validates PDF content bytes against the given limits
func ValidatePDFBytes(content []byte, limits PDFLimits) *ValidationResult {
	result := &ValidationResult{
		FileSize: int64(len(content)),
	}

	if result.FileSize > maxBytes(limits) {
		result.Error = fmt.Sprintf("File size exceeds maximum allowed size of %dMB", limits.MaxFileSizeMB)
		return result
	}

	if !bytes.HasPrefix(content, []byte("%PDF-")) {
		result.Error = "Invalid PDF file: missing PDF header"
		return result
	}

	pageCount, err := PageCount(content)
	if err != nil {
		result.Error = fmt.Sprintf("Failed to read PDF: %v", err)
		return result
	}
	result.PageCount = pageCount

	switch {
	case pageCount == 0:
		result.Error = "PDF has no pages"
	case pageCount > limits.MaxPages:
		result.Error = fmt.Sprintf("PDF has %d pages, which exceeds the maximum of %d pages for %s",
			pageCount, limits.MaxPages, limits.DocumentTypeName)
	default:
		result.Valid = true
		result.Content = content
	}
	return result
}

// PageCount returns the number of pages in a PDF
func PageCount(content []byte) (n int, err error) {
	// ledongthuc/pdf panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	content = Sanitize(content)
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return 0, err
	}
	return reader.NumPage(), nil
}

// Sanitize truncates trailing garbage after the last %%EOF marker,
// which is common for PDFs saved from web pages.
func Sanitize(content []byte) []byte {
	if !bytes.HasPrefix(content, []byte("%PDF-")) {
		return content
	}

	eofMarker := []byte("%%EOF")
	lastEOF := bytes.LastIndex(content, eofMarker)
	if lastEOF == -1 {
		return content
	}

	pdfEnd := lastEOF + len(eofMarker)
	for pdfEnd < len(content) && (content[pdfEnd] == '\n' || content[pdfEnd] == '\r') {
		pdfEnd++
	}
	return content[:pdfEnd]
}

func maxBytes(limits PDFLimits) int64 {
	return int64(limits.MaxFileSizeMB) * 1024 * 1024
}
