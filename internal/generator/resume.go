package generator

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFParser extracts text from PDF resumes.
type PDFParser struct{}

// NewPDFParser constructs the parser.
func NewPDFParser() *PDFParser {
	return &PDFParser{}
}

// ExtractText returns the document's plain text.
func (p *PDFParser) ExtractText(_ context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty resume file")
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
