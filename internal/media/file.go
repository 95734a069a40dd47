// Package media validates and shrinks images before they are uploaded.
package media

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// File is an in-memory file as picked by the user.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

func (f File) Size() int64 {
	return int64(len(f.Data))
}

// Load reads path and guesses its content type from its first bytes, falling
// back to the extension.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return File{}, fmt.Errorf("unable to read %s: %w", path, err)
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		if byExt := mime.TypeByExtension(filepath.Ext(path)); byExt != "" {
			contentType = byExt
		}
	}
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediaType
	}

	return File{Name: filepath.Base(path), ContentType: contentType, Data: data}, nil
}
