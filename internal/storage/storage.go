// Package storage keeps generated media somewhere the publishing platforms can
// fetch it from.
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
)

// Uploader stores data under name and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, name, contentType string, data []byte) (string, error)
}

func cleanName(prefix, name string) (string, error) {
	name = strings.TrimLeft(path.Clean("/"+name), "/")
	if name == "" || name == "." {
		return "", fmt.Errorf("invalid object name")
	}
	if prefix != "" {
		name = path.Join(strings.Trim(prefix, "/"), name)
	}
	return name, nil
}
