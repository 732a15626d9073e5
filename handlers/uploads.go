package handlers

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/learnhub-api/utils"
	"github.com/sahilchouksey/learnhub-api/utils/storage"
)

// IsMultipart reports whether the request body is multipart/form-data
func IsMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm)
}

// UploadFile stores fh under prefix and returns its public URL and storage key
func UploadFile(ctx context.Context, uploader storage.Uploader, prefix string, fh *multipart.FileHeader) (string, string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	return UploadReader(ctx, uploader, prefix, fh.Filename, f)
}

// UploadReader stores r under a key generated from prefix and filename
func UploadReader(ctx context.Context, uploader storage.Uploader, prefix, filename string, r io.Reader) (string, string, error) {
	key := storage.GenerateKey(prefix, filename)
	url, err := uploader.Upload(ctx, key, r, storage.GetContentType(filename))
	if err != nil {
		return "", "", fmt.Errorf("upload %s: %w", prefix, err)
	}
	return url, key, nil
}

// DiscardUploads removes uploads whose owning record was never created
func DiscardUploads(ctx context.Context, uploader storage.Uploader, log *utils.Logger, keys ...string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := uploader.Delete(ctx, key); err != nil {
			log.Warn("failed to remove orphaned upload", "key", key, "error", err)
		}
	}
}
