package repository

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// PhotoRepository stores customer photos as files under a photos
// directory. Files are never overwritten or garbage collected; replacing
// a ticket's photo leaves the old file behind.
type PhotoRepository struct {
	Dir string
}

// Save writes the image bytes under a sanitized customer-name prefix with
// a timestamp suffix and returns the stored path.
func (r PhotoRepository) Save(data []byte, customerName string) (string, error) {
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create photo dir: %w", err)
	}

	name := sanitizeName(customerName)
	if name == "" {
		name = "customer"
	}
	filename := fmt.Sprintf("%s_%s.jpg", name, time.Now().Format("20060102_150405"))
	path := filepath.Join(r.Dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write photo: %w", err)
	}
	return path, nil
}

// LoadBase64 returns the photo encoded for inline transport. An empty
// path or a missing file yields an empty string without an error.
func (r PhotoRepository) LoadBase64(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read photo: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// sanitizeName keeps alphanumeric characters only.
func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return -1
		}
	}, name)
}
