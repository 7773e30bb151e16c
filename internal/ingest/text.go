package ingest

import (
	"path/filepath"
	"strings"
)

// textReader passes text formats straight through; the dataset parser decides
// whether the content is JSON or delimited.
type textReader struct{}

func (textReader) CanRead(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt", ".json":
		return true
	}
	return false
}

func (textReader) Read(data []byte) (string, error) {
	return string(data), nil
}
