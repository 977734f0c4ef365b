package resume

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupportedExt(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"cv.pdf", true},
		{"cv.PDF", true},
		{"cv.docx", true},
		{"cv.txt", true},
		{"cv.doc", false},
		{"cv.rtf", false},
		{"cv", false},
	}
	for _, tt := range tests {
		if got := SupportedExt(tt.name); got != tt.want {
			t.Errorf("SupportedExt(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestParseDocumentTextPlain(t *testing.T) {
	text, err := ParseDocumentText("cv.txt", []byte("Go разработчик.\n\n\nОпыт:   5 лет.\t"))
	require.NoError(t, err)
	assert.Equal(t, "Go разработчик.\nОпыт: 5 лет.", text)
}

func TestParseDocumentTextPlainInvalidUTF8(t *testing.T) {
	_, err := ParseDocumentText("cv.txt", []byte{0xff, 0xfe, 0x00})
	assert.Error(t, err)
}

func TestParseDocumentTextUnsupported(t *testing.T) {
	_, err := ParseDocumentText("cv.doc", []byte("whatever"))
	assert.Error(t, err)
}

func TestParseDocumentTextDocx(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<w:document><w:body>` +
		`<w:p><w:r><w:t>Go developer</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>PostgreSQL experience</w:t></w:r></w:p>` +
		`</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	text, err := ParseDocumentText("cv.docx", buf.Bytes())
	require.NoError(t, err)
	assert.Contains(t, text, "Go developer")
	assert.Contains(t, text, "PostgreSQL experience")
}

func TestParseDocumentTextDocxWithoutDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err := zw.Create("word/other.xml")
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = ParseDocumentText("cv.docx", buf.Bytes())
	assert.Error(t, err)
}

func TestNormalizeWhitespace(t *testing.T) {
	got := normalizeWhitespace("a b   c\n\n\nd")
	assert.Equal(t, "a b c\nd", got)
}
