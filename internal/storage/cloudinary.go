package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// ErrStorage marks asset-storage failures. Callers treat the cause as
// opaque; only the returned URL ever enters the domain model.
var ErrStorage = errors.New("storage error")

// Uploader accepts a file and returns a durable public URL.
type Uploader interface {
	Upload(ctx context.Context, filename string, file io.Reader) (string, error)
}

// Cloudinary uploads images through Cloudinary's unsigned upload API.
type Cloudinary struct {
	cloudName    string
	uploadPreset string
	client       *http.Client
}

func NewCloudinary(cloudName, uploadPreset string) *Cloudinary {
	return &Cloudinary{
		cloudName:    cloudName,
		uploadPreset: uploadPreset,
		client:       &http.Client{Timeout: 30 * time.Second},
	}
}

// Upload sends the file and returns its secure URL.
func (c *Cloudinary) Upload(ctx context.Context, filename string, file io.Reader) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}
	_ = writer.WriteField("upload_preset", c.uploadPreset)
	_ = writer.WriteField("public_id", uuid.NewString())
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}

	url := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/upload", c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: upload rejected with status %d", ErrStorage, resp.StatusCode)
	}

	var result struct {
		SecureURL string `json:"secure_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("%w: response missing secure_url", ErrStorage)
	}
	return result.SecureURL, nil
}
