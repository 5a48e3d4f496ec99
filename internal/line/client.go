package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"rx-line/internal/domain"
)

const (
	DefaultAPIBaseURL     = "https://api.line.me"
	DefaultDataAPIBaseURL = "https://api-data.line.me"

	maxContentBytes = 10 << 20 // 10 MiB
)

// Content es el binario de un mensaje de imagen descargado de LINE.
type Content struct {
	Data        []byte
	ContentType string
}

// Profile es la respuesta de /v2/bot/profile/{userId}.
type Profile struct {
	UserID        string `json:"userId"`
	DisplayName   string `json:"displayName"`
	PictureURL    string `json:"pictureUrl,omitempty"`
	StatusMessage string `json:"statusMessage,omitempty"`
}

// Client habla con la Messaging API usando el channel access token.
type Client struct {
	apiBaseURL  string
	dataBaseURL string
	accessToken string
	client      *http.Client
	logger      *zap.Logger
}

// NewClient construye el cliente de la Messaging API.
func NewClient(apiBaseURL, dataBaseURL, accessToken string, logger *zap.Logger) *Client {
	if apiBaseURL == "" {
		apiBaseURL = DefaultAPIBaseURL
	}
	if dataBaseURL == "" {
		dataBaseURL = DefaultDataAPIBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		apiBaseURL:  strings.TrimRight(apiBaseURL, "/"),
		dataBaseURL: strings.TrimRight(dataBaseURL, "/"),
		accessToken: accessToken,
		client:      &http.Client{Timeout: 30 * time.Second},
		logger:      logger,
	}
}

type replyRequest struct {
	ReplyToken string    `json:"replyToken"`
	Messages   []Message `json:"messages"`
}

// Reply responde al reply token del evento con hasta cinco mensajes.
func (c *Client) Reply(ctx context.Context, replyToken string, messages ...Message) error {
	if strings.TrimSpace(replyToken) == "" {
		return fmt.Errorf("reply token is required")
	}
	if len(messages) == 0 {
		return fmt.Errorf("at least one message is required")
	}
	_, err := c.postJSON(ctx, "reply", c.apiBaseURL+"/v2/bot/message/reply", replyRequest{
		ReplyToken: replyToken,
		Messages:   messages,
	})
	return err
}

// StartLoading muestra el indicador de "escribiendo" en el chat del usuario.
func (c *Client) StartLoading(ctx context.Context, chatID string, seconds int) error {
	body := map[string]any{"chatId": chatID}
	if seconds > 0 {
		body["loadingSeconds"] = seconds
	}
	_, err := c.postJSON(ctx, "loading", c.apiBaseURL+"/v2/bot/chat/loading/start", body)
	return err
}

// GetContent descarga el binario asociado a un mensaje.
func (c *Client) GetContent(ctx context.Context, messageID string) (Content, error) {
	endpoint := c.dataBaseURL + "/v2/bot/message/" + url.PathEscape(messageID) + "/content"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Content{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return Content{}, fmt.Errorf("%w: line content: %v", domain.ErrGateway, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxContentBytes+1))
	if err != nil {
		return Content{}, fmt.Errorf("read content: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("line content error", zap.Int("status", resp.StatusCode), zap.String("message_id", messageID))
		return Content{}, fmt.Errorf("%w: line content status=%d", domain.ErrGateway, resp.StatusCode)
	}
	if len(data) > maxContentBytes {
		c.logger.Warn("line content too large", zap.String("message_id", messageID))
		return Content{}, fmt.Errorf("%w: line content too large (> %d bytes)", domain.ErrGateway, maxContentBytes)
	}

	return Content{Data: data, ContentType: resp.Header.Get("Content-Type")}, nil
}

// GetProfile obtiene el displayName del usuario.
func (c *Client) GetProfile(ctx context.Context, userID string) (Profile, error) {
	endpoint := c.apiBaseURL + "/v2/bot/profile/" + url.PathEscape(userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Profile{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: line profile: %v", domain.ErrGateway, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Profile{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("line profile error", zap.Int("status", resp.StatusCode), zap.String("body", string(respBody)))
		return Profile{}, fmt.Errorf("%w: line profile status=%d", domain.ErrGateway, resp.StatusCode)
	}

	var p Profile
	if err := json.Unmarshal(respBody, &p); err != nil {
		return Profile{}, fmt.Errorf("unmarshal profile: %w", err)
	}
	return p, nil
}

func (c *Client) postJSON(ctx context.Context, op, endpoint string, payload any) ([]byte, error) {
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: line %s: %v", domain.ErrGateway, op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("line api error", zap.String("op", op), zap.Int("status", resp.StatusCode), zap.String("body", string(respBody)))
		return nil, fmt.Errorf("%w: line %s status=%d", domain.ErrGateway, op, resp.StatusCode)
	}
	return respBody, nil
}
