// Package extract pulls plain text out of resume documents.
package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrUnsupported marks resume files whose extension has no extractor.
var ErrUnsupported = errors.New("unsupported resume format")

// Text extracts the plain text of a resume file. PDF and DOCX are supported;
// any other extension returns ErrUnsupported.
func Text(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		return pdfText(path)
	case ".docx":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return docxText(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, ext)
	}
}

// pdfText extracts the text of every page in order, joined by newlines.
// Unreadable pages are skipped; the document still counts as extracted as
// long as the reader itself opens.
func pdfText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening pdf %s: %w", path, err)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages = append(pages, text)
	}

	return strings.Join(pages, "\n"), nil
}

var xmlTags = regexp.MustCompile(`<[^>]+>`)

// docxText extracts word/document.xml from the DOCX archive, converts
// paragraph boundaries to newlines and strips the remaining tags.
func docxText(data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var docXML []byte
	for _, f := range archive.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		docXML, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", err
		}
		break
	}

	if len(docXML) == 0 {
		return "", errors.New("no document.xml found in docx")
	}

	text := string(docXML)
	text = strings.ReplaceAll(text, "</w:p>", "\n")
	text = strings.ReplaceAll(text, "<w:tab/>", "\t")
	text = xmlTags.ReplaceAllString(text, " ")

	return normalizeWhitespace(text), nil
}

var (
	blanks   = regexp.MustCompile(`[ \t\r\f\v]+`)
	newlines = regexp.MustCompile(`\s*\n\s*`)
)

func normalizeWhitespace(s string) string {
	s = blanks.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = newlines.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}
