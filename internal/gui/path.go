package gui

import (
	"path/filepath"
	"strings"
)

// defaultOutput derives the default transcript path from an input file:
// same directory, same stem, .txt extension.
func defaultOutput(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".txt"
}

func baseName(path string) string {
	return filepath.Base(path)
}
