// Package storage writes uploaded lesson media and course thumbnails.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Uploader stores objects and returns the URL clients should use to fetch them
type Uploader interface {
	Upload(ctx context.Context, key string, data io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

var (
	videoExtensions = map[string]bool{".mp4": true, ".mov": true, ".avi": true, ".mkv": true}
	imageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}
)

// IsVideoFile reports whether filename has one of the accepted video extensions
func IsVideoFile(filename string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(filename))]
}

// IsImageFile reports whether filename has one of the accepted image extensions
func IsImageFile(filename string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(filename))]
}

// GenerateKey generates a unique key for file storage, e.g. "videos/intro_1700000000_1a2b3c4d.mp4"
func GenerateKey(prefix, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = strings.Join(strings.Fields(base), "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		}
		return -1
	}, base)
	if base == "" {
		base = "file"
	}

	return fmt.Sprintf("%s/%s_%d_%s%s", prefix, base, time.Now().Unix(), uuid.NewString()[:8], ext)
}

// GetContentType returns the content type for a filename
func GetContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".mp4":
		return "video/mp4"
	case ".mov":
		return "video/quicktime"
	case ".avi":
		return "video/x-msvideo"
	case ".mkv":
		return "video/x-matroska"
	case ".pdf":
		return "application/pdf"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
