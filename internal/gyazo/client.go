package gyazo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"go.uber.org/zap"

	"rx-line/internal/domain"
)

const DefaultUploadURL = "https://upload.gyazo.com/api/upload"

// UploadResponse es la respuesta de la API de subida.
type UploadResponse struct {
	ImageID      string `json:"image_id"`
	PermalinkURL string `json:"permalink_url"`
	ThumbURL     string `json:"thumb_url"`
	URL          string `json:"url"`
	Type         string `json:"type"`
}

// Client sube imágenes a Gyazo con un access token fijo.
type Client struct {
	uploadURL   string
	accessToken string
	client      *http.Client
	logger      *zap.Logger
}

func NewClient(uploadURL, accessToken string, logger *zap.Logger) *Client {
	if uploadURL == "" {
		uploadURL = DefaultUploadURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		uploadURL:   uploadURL,
		accessToken: accessToken,
		client:      &http.Client{Timeout: 30 * time.Second},
		logger:      logger,
	}
}

// Upload envía la imagen como multipart y devuelve la url pública.
func (c *Client) Upload(ctx context.Context, filename string, data []byte, contentType string) (string, error) {
	body, formContentType, err := buildUploadForm(c.accessToken, filename, data, contentType)
	if err != nil {
		return "", fmt.Errorf("build form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", formContentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: gyazo upload: %v", domain.ErrGateway, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("gyazo upload error", zap.Int("status", resp.StatusCode), zap.String("body", string(respBody)))
		return "", fmt.Errorf("%w: gyazo upload status=%d", domain.ErrGateway, resp.StatusCode)
	}

	var ur UploadResponse
	if err := json.Unmarshal(respBody, &ur); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if strings.TrimSpace(ur.URL) == "" {
		return "", fmt.Errorf("%w: gyazo upload returned empty url", domain.ErrGateway)
	}
	return ur.URL, nil
}

func buildUploadForm(accessToken, filename string, data []byte, contentType string) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("access_token", accessToken); err != nil {
		return nil, "", err
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="imagedata"; filename="%s"`, escapeQuotes(filename)))
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", err
	}

	if err := w.WriteField("access_policy", "anyone"); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("metadata_is_public", "true"); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
