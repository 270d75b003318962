// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package clippings

import (
	"fmt"
	"os"
	"strings"
)

// ReadFile reads a clippings export from disk and returns its text with a
// leading UTF-8 byte order mark stripped and line endings normalized to
// "\n". Kindle exports carry both the BOM and CRLF endings. A read failure
// is fatal for the run; the caller should not proceed to parsing.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading clippings file %s: %w", path, err)
	}

	text := strings.TrimPrefix(string(data), "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return text, nil
}
