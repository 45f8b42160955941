package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestJoinPagesSkipsBlankPreservesOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		pages []string
		want  string
	}{
		{name: "blank middle page", pages: []string{"Hello", "", "World"}, want: "Hello\nWorld"},
		{name: "all blank", pages: []string{"", "   ", "\n"}, want: ""},
		{name: "single page", pages: []string{"Hello"}, want: "Hello"},
		{name: "whitespace trimmed", pages: []string{"  Hello  ", "World\n"}, want: "Hello\nWorld"},
		{name: "no pages", pages: nil, want: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := joinPages(tt.pages); got != tt.want {
				t.Fatalf("joinPages(%q) = %q, want %q", tt.pages, got, tt.want)
			}
		})
	}
}

func TestTextRejectsUnsupportedType(t *testing.T) {
	_, err := Text(context.Background(), []byte{0x89, 0x50, 0x4e, 0x47}, "image/png", "photo.png")
	if err == nil {
		t.Fatal("expected unsupported type error")
	}
	if !strings.Contains(err.Error(), "unsupported file type") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTextPlainTextPassthrough(t *testing.T) {
	got, err := Text(context.Background(), []byte("  Hello\nWorld \n"), "text/plain", "notes.txt")
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if got != "Hello\nWorld" {
		t.Fatalf("got %q", got)
	}
}

func TestTextMalformedPDFReturnsError(t *testing.T) {
	_, err := Text(context.Background(), []byte("not a pdf at all"), "application/pdf", "resume.pdf")
	if err == nil {
		t.Fatal("expected error for malformed pdf")
	}
}

func TestTextEmptyPDFReturnsError(t *testing.T) {
	_, err := Text(context.Background(), nil, "application/pdf", "resume.pdf")
	if err == nil {
		t.Fatal("expected error for empty payload")
	}
}

func TestTextMalformedDocxReturnsError(t *testing.T) {
	// A real zip that is not a DOCX must fail cleanly.
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

	if _, err := Text(context.Background(), buf.Bytes(), "application/zip", "resume.docx"); err == nil {
		t.Fatal("expected error for zip without document.xml")
	}
}

func TestNormalizeMimeType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mime     string
		fileName string
		want     string
	}{
		{name: "pdf", mime: "application/pdf", fileName: "a.pdf", want: mimePDF},
		{name: "pdf with charset", mime: "application/pdf; charset=binary", fileName: "a.pdf", want: mimePDF},
		{name: "octet-stream pdf ext", mime: "application/octet-stream", fileName: "a.PDF", want: mimePDF},
		{name: "zip docx ext", mime: "application/zip", fileName: "a.docx", want: mimeDOCX},
		{name: "octet-stream txt ext", mime: "application/octet-stream", fileName: "a.txt", want: mimeText},
		{name: "unknown stays", mime: "image/png", fileName: "a.png", want: "image/png"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := normalizeMimeType(tt.mime, tt.fileName); got != tt.want {
				t.Fatalf("normalizeMimeType(%q, %q) = %q, want %q", tt.mime, tt.fileName, got, tt.want)
			}
		})
	}
}
