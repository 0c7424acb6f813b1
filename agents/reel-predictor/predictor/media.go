package predictor

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"reel-predictor/internal/models"
)

// LoadMedia prepares a video file on disk for submission. Files whose content is not
// video/* are rejected with ErrNotVideo.
func LoadMedia(path string) (*models.Media, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat media %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("media %s is a directory", path)
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to detect media type of %s: %w", path, err)
	}
	if !strings.HasPrefix(mtype.String(), "video/") {
		return nil, fmt.Errorf("%s (%s): %w", filepath.Base(path), mtype.String(), ErrNotVideo)
	}

	return &models.Media{
		Name:        filepath.Base(path),
		ContentType: mtype.String(),
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// MediaFromBytes wraps an in-memory blob, e.g. an upload already read by a caller
func MediaFromBytes(name, contentType string, data []byte) *models.Media {
	if contentType == "" {
		contentType = mimetype.Detect(data).String()
	}
	return &models.Media{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}
