package ingest

import (
	"fmt"
	"os"
	"path/filepath"
)

// Reader turns one on-disk file format into tabular text the dataset parser
// understands: delimited lines or a JSON array.
type Reader interface {
	CanRead(filename string) bool
	Read(data []byte) (string, error)
}

var registry []Reader

// Register adds a reader implementation to the registry.
func Register(r Reader) {
	registry = append(registry, r)
}

func init() {
	Register(textReader{})
	Register(xlsxReader{})
	Register(pdfReader{})
}

// Read selects a reader by filename and returns the extracted text.
func Read(filename string, data []byte) (string, error) {
	for _, r := range registry {
		if r.CanRead(filename) {
			return r.Read(data)
		}
	}
	return "", fmt.Errorf("unsupported file type %q (accepted: .csv, .txt, .json, .xlsx, .xls, .pdf)", filepath.Ext(filename))
}

// ReadFile reads a file from disk and extracts its tabular text.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return Read(path, data)
}
