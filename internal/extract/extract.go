package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Format tags accepted by Text. MIME aliases are normalized to these.
const (
	FormatPDF  = "pdf"
	FormatDOCX = "docx"
	FormatTXT  = "txt"
)

var (
	// ErrUnsupportedFormat is returned when the declared format is not one of
	// pdf, docx or txt.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrExtractionFailed is returned when the document bytes cannot be
	// parsed as the declared format.
	ErrExtractionFailed = errors.New("document extraction failed")
)

// Text extracts plain text from raw document bytes. The format tag declares
// how to parse the payload; extraction is a pure transformation with no side
// effects. Corrupt documents fail with ErrExtractionFailed rather than
// producing garbage text.
func Text(data []byte, format string) (string, error) {
	switch NormalizeFormat(format) {
	case FormatPDF:
		return extractPDF(data)
	case FormatDOCX:
		return extractDOCX(data)
	case FormatTXT:
		return extractTXT(data), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// NormalizeFormat maps a format tag or MIME type onto a canonical tag.
// Unknown values pass through lowercased so the error names what arrived.
func NormalizeFormat(raw string) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(raw, ";")[0]))
	switch clean {
	case FormatPDF, "application/pdf":
		return FormatPDF
	case FormatDOCX, "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return FormatDOCX
	case FormatTXT, "text/plain":
		return FormatTXT
	default:
		return clean
	}
}

func extractPDF(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty pdf payload", ErrExtractionFailed)
	}
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty docx payload", ErrExtractionFailed)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	var docFile *zip.File
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", fmt.Errorf("%w: word/document.xml not found", ErrExtractionFailed)
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	text, err := stripDocxXML(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	return text, nil
}

// stripDocxXML walks the WordprocessingML token stream, keeping character
// data and emitting a newline at each paragraph or line break. Paragraphs
// come out in document order.
func stripDocxXML(raw []byte) (string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String()), nil
}

// extractTXT decodes bytes as UTF-8, replacing undecodable sequences instead
// of failing. Plain text extraction is best effort and never errors.
func extractTXT(data []byte) string {
	return strings.ToValidUTF8(string(data), "�")
}
