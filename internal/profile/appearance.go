package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mirastory/mira/internal/logger"
)

// AppearanceExtractor turns a photo of a child into a short appearance description.
type AppearanceExtractor interface {
	ExtractAppearance(ctx context.Context, photoPath string) (string, error)
}

// ErrUnsupportedPhoto is returned for files that are not JPEG, PNG, GIF or WebP images.
var ErrUnsupportedPhoto = errors.New("unsupported photo format")

// ErrExtractionUnavailable is returned when no extraction endpoint is configured.
var ErrExtractionUnavailable = errors.New("appearance extraction is not configured")

// maxPhotoBytes bounds the upload size.
const maxPhotoBytes = 10 << 20

var photoContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// HTTPExtractor posts the photo to the story backend's appearance endpoint.
// The endpoint answers with {"description": "..."}.
type HTTPExtractor struct {
	Endpoint string
	Client   *http.Client
}

// NewHTTPExtractor creates an extractor for endpoint. An empty endpoint yields
// an extractor that always fails with ErrExtractionUnavailable.
func NewHTTPExtractor(endpoint string) *HTTPExtractor {
	return &HTTPExtractor{
		Endpoint: strings.TrimSpace(endpoint),
		Client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// ExtractAppearance implements AppearanceExtractor.
func (e *HTTPExtractor) ExtractAppearance(ctx context.Context, photoPath string) (string, error) {
	if e.Endpoint == "" {
		return "", ErrExtractionUnavailable
	}

	data, err := os.ReadFile(photoPath)
	if err != nil {
		return "", fmt.Errorf("reading photo: %w", err)
	}
	if len(data) > maxPhotoBytes {
		return "", fmt.Errorf("%w: photo larger than %d bytes", ErrUnsupportedPhoto, maxPhotoBytes)
	}
	contentType := http.DetectContentType(data)
	if !photoContentTypes[contentType] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedPhoto, contentType)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.Endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("building appearance request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	logger.Debug("Posting %d byte photo to %s", len(data), e.Endpoint)
	resp, err := e.Client.Do(req)
	if err != nil {
		return "", &Error{Kind: KindNetwork, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", &Error{Kind: KindNetwork, Err: fmt.Errorf("reading response: %w", err)}
	}

	switch {
	case resp.StatusCode == http.StatusUnsupportedMediaType:
		return "", fmt.Errorf("%w: rejected by server", ErrUnsupportedPhoto)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", &Error{Kind: KindAuth, Err: fmt.Errorf("appearance endpoint returned %s", resp.Status)}
	case resp.StatusCode >= 500:
		return "", &Error{Kind: KindNetwork, Err: fmt.Errorf("appearance endpoint returned %s", resp.Status)}
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("appearance endpoint returned %s", resp.Status)
	}

	var out struct {
		Description string `json:"description"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decoding appearance response: %w", err)
	}
	desc := strings.TrimSpace(out.Description)
	if desc == "" {
		return "", errors.New("appearance endpoint returned an empty description")
	}
	return desc, nil
}
