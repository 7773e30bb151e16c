package ingest

import (
	"bytes"
	"compress/zlib"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
)

// pdfReader pulls the visible text out of a PDF and wraps it as a one-row
// JSON array under a single "content" column, so downstream filtering and
// analysis see a (degenerate) table rather than a special case.
//
// The extraction is deliberately basic: FlateDecode content streams are
// inflated and text-showing operators (Tj, TJ) are harvested with regular
// expressions. Scanned or exotically encoded PDFs yield nothing and fail
// with a descriptive error rather than producing garbage.
type pdfReader struct{}

func (pdfReader) CanRead(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".pdf")
}

var (
	pdfStreamRe  = regexp.MustCompile(`(?s)<<(.*?)>>\s*stream\r?\n(.*?)\r?\nendstream`)
	pdfTjRe      = regexp.MustCompile(`\(((?:[^()\\]|\\.)*)\)\s*Tj`)
	pdfTJArrayRe = regexp.MustCompile(`\[(.*?)\]\s*TJ`)
	pdfLiteralRe = regexp.MustCompile(`\(((?:[^()\\]|\\.)*)\)`)
)

func (pdfReader) Read(data []byte) (string, error) {
	if len(data) < 5 || !bytes.HasPrefix(data, []byte("%PDF-")) {
		return "", fmt.Errorf("not a PDF: missing %%PDF header")
	}

	var text strings.Builder
	for _, m := range pdfStreamRe.FindAllSubmatch(data, -1) {
		dict, stream := m[1], m[2]
		if bytes.Contains(dict, []byte("FlateDecode")) {
			r, err := zlib.NewReader(bytes.NewReader(stream))
			if err != nil {
				continue
			}
			inflated, err := io.ReadAll(r)
			r.Close()
			if err != nil {
				continue
			}
			stream = inflated
		}
		harvestTextOps(string(stream), &text)
	}

	content := strings.Join(strings.Fields(text.String()), " ")
	if content == "" {
		return "", fmt.Errorf("no text content extracted (scanned or image-based PDF?)")
	}

	row, err := json.Marshal([]map[string]string{{"content": content}})
	if err != nil {
		return "", err
	}
	return string(row), nil
}

func harvestTextOps(stream string, out *strings.Builder) {
	for _, m := range pdfTjRe.FindAllStringSubmatch(stream, -1) {
		out.WriteString(decodePDFString(m[1]))
		out.WriteByte(' ')
	}
	for _, m := range pdfTJArrayRe.FindAllStringSubmatch(stream, -1) {
		for _, lit := range pdfLiteralRe.FindAllStringSubmatch(m[1], -1) {
			out.WriteString(decodePDFString(lit[1]))
		}
		out.WriteByte(' ')
	}
}

func decodePDFString(s string) string {
	r := strings.NewReplacer(
		`\n`, "\n", `\r`, "\r", `\t`, "\t",
		`\(`, "(", `\)`, ")", `\\`, `\`,
	)
	return r.Replace(s)
}
