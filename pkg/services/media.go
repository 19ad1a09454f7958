package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"newsdesk/pkg/models"

	"github.com/gabriel-vasile/mimetype"
)

type Uploader interface {
	Upload(ctx context.Context, filename, contentType string, r io.Reader) (*models.UploadResult, error)
}

// ImageFile is an upload that passed sniffing and the size limit.
type ImageFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// PrepareImage reads at most maxBytes from r and accepts it only when the
// content sniffs as an image.
func PrepareImage(filename string, r io.Reader, maxBytes int64, now time.Time) (*ImageFile, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%s is larger than %d bytes: %w", filename, maxBytes, models.ErrFileTooLarge)
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, fmt.Errorf("%s is %s: %w", filename, mtype.String(), models.ErrNotImage)
	}

	return &ImageFile{
		Name:        SanitizeFilename(filename, mtype.Extension(), now),
		ContentType: mtype.String(),
		Data:        data,
	}, nil
}

// SanitizeFilename strips directories, replaces spaces and stamps the name
// with the upload time: "My Photo.png" -> "My_Photo_1700000000.png".
func SanitizeFilename(filename, fallbackExt string, now time.Time) string {
	filename = filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	filename = strings.ReplaceAll(filename, " ", "_")
	if filename == "." || filename == "/" {
		filename = ""
	}

	ext := filepath.Ext(filename)
	name := strings.TrimSuffix(filename, ext)
	if ext == "" {
		ext = fallbackExt
	}
	if name == "" {
		name = "image"
	}
	return fmt.Sprintf("%s_%d%s", name, now.Unix(), ext)
}

func UploadImage(ctx context.Context, up Uploader, img *ImageFile) (*models.UploadResult, error) {
	res, err := up.Upload(ctx, img.Name, img.ContentType, bytes.NewReader(img.Data))
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", img.Name, err)
	}
	return res, nil
}
