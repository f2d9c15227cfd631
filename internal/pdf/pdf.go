// Package pdf extracts plain text from uploaded PDF documents.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	pdfreader "github.com/ledongthuc/pdf"
)

var ErrNoText = errors.New("no text found in pdf")

// Extract returns the text of every page in order.
func Extract(r io.ReaderAt, size int64) (text string, err error) {
	// The reader panics on some malformed documents.
	defer func() {
		if p := recover(); p != nil {
			text = ""
			err = fmt.Errorf("read pdf: %v", p)
		}
	}()

	reader, err := pdfreader.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("read text: %w", err)
	}

	text = strings.TrimSpace(buf.String())
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

// ExtractBytes is Extract for an in-memory document.
func ExtractBytes(data []byte) (string, error) {
	return Extract(bytes.NewReader(data), int64(len(data)))
}
