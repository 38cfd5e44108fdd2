// Package storage accepts uploaded images and persists them to local disk or
// an S3 bucket.
package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rpupo63/portfolio-api/errs"
)

const (
	// ImageField is the multipart field carrying a project image.
	ImageField = "img"
	// MaxImageSize is the upload ceiling for a single image.
	MaxImageSize int64 = 5 << 20
	// PublicPrefix is the URL prefix under which local uploads are served.
	PublicPrefix = "/uploads"
	// ProjectsDir is the subdirectory holding project images.
	ProjectsDir = "projects"
)

// AllowedImageTypes is the content type allow-list for image uploads.
var AllowedImageTypes = []string{"image/jpeg", "image/png", "image/gif"}

// Store persists uploaded files and returns the path clients use to fetch them.
type Store interface {
	Save(ctx context.Context, dir, name string, body io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, publicPath string) error
}

// CheckImage rejects files whose declared content type is not allowed or whose
// size exceeds MaxImageSize. It never touches the store.
func CheckImage(fh *multipart.FileHeader) error {
	contentType := declaredType(fh)
	if !isAllowed(contentType) {
		return errs.NewUnsupportedMediaTypeError(ImageField, contentType, AllowedImageTypes)
	}
	if fh.Size > MaxImageSize {
		return errs.NewFileTooLargeError(ImageField, MaxImageSize)
	}
	return nil
}

// SaveImage checks fh and writes it under dir with a timestamped name.
func SaveImage(ctx context.Context, store Store, dir string, fh *multipart.FileHeader, now time.Time) (string, error) {
	if err := CheckImage(fh); err != nil {
		return "", err
	}

	f, err := fh.Open()
	if err != nil {
		return "", errs.NewStorageError("open uploaded file", err)
	}
	defer f.Close()

	// f is seekable, which S3 needs to sign or retry the upload.
	path, err := store.Save(ctx, dir, BuildFileName(fh.Filename, now), f, fh.Size, declaredType(fh))
	if err != nil {
		return "", errs.NewStorageError("store uploaded file", err)
	}
	return path, nil
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// BuildFileName prefixes the original name with the upload time in
// milliseconds. Path elements and unsafe characters are stripped.
func BuildFileName(original string, now time.Time) string {
	base := filepath.Base(strings.ReplaceAll(strings.TrimSpace(original), `\`, "/"))
	base = unsafeChars.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-.")
	if base == "" {
		base = "image"
	}
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + base
}

func declaredType(fh *multipart.FileHeader) string {
	ct := fh.Header.Get("Content-Type")
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

func isAllowed(contentType string) bool {
	for _, allowed := range AllowedImageTypes {
		if contentType == allowed {
			return true
		}
	}
	return false
}

func joinPublic(base, dir, name string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(base, "/"), dir, name)
}
