package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestTextPlainTextPassthrough(t *testing.T) {
	got, err := Text([]byte("Experienced Go developer\nBased in Toronto"), "txt")
	if err != nil {
		t.Fatalf("txt extraction: %v", err)
	}
	if !strings.Contains(got, "Go developer") {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestTextReplacesInvalidUTF8(t *testing.T) {
	data := []byte{'h', 'i', 0xff, 0xfe, '!'}
	got, err := Text(data, "text/plain")
	if err != nil {
		t.Fatalf("txt extraction must not fail on invalid utf-8: %v", err)
	}
	if !strings.Contains(got, "hi") || !strings.Contains(got, "�") {
		t.Fatalf("expected replacement characters, got %q", got)
	}
}

func TestTextUnsupportedFormat(t *testing.T) {
	_, err := Text([]byte("data"), "xlsx")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestTextCorruptPDF(t *testing.T) {
	_, err := Text([]byte("definitely not a pdf"), "pdf")
	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
}

func TestTextDocxParagraphOrder(t *testing.T) {
	doc := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
    <w:p><w:r><w:t>Senior Python Developer</w:t></w:r></w:p>
  </w:body>
</w:document>`
	data := buildDocx(t, doc)

	got, err := Text(data, "docx")
	if err != nil {
		t.Fatalf("docx extraction: %v", err)
	}
	first := strings.Index(got, "Jane Doe")
	second := strings.Index(got, "Senior Python Developer")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("paragraphs out of order: %q", got)
	}
}

func TestTextDocxMissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("notes.txt")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	_, err = Text(buf.Bytes(), "docx")
	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
}

func TestNormalizeFormatMimeAliases(t *testing.T) {
	if got := NormalizeFormat("application/pdf; charset=binary"); got != FormatPDF {
		t.Fatalf("pdf mime: got %q", got)
	}
	if got := NormalizeFormat("application/vnd.openxmlformats-officedocument.wordprocessingml.document"); got != FormatDOCX {
		t.Fatalf("docx mime: got %q", got)
	}
	if got := NormalizeFormat("TXT"); got != FormatTXT {
		t.Fatalf("txt tag: got %q", got)
	}
}

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create document.xml: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write document.xml: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}
