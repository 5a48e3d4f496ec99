package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"rx-line/internal/domain"
	"rx-line/internal/line"
	"rx-line/internal/service"
)

// webhook_sim firma y envía lotes de eventos al servidor local, y emite
// tokens de operador para la API de administración.
func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "webhook_sim",
		Short:         "Simulador de webhooks de LINE para rx-line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSendCommand(), newTokenCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newSendCommand() *cobra.Command {
	var (
		target string
		secret string
		userID string
		kind   string
		text   string
		data   string
	)
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Envía un evento firmado (text, image o postback)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if secret == "" {
				return fmt.Errorf("channel secret is required (flag --secret or LINE_CHANNEL_SECRET)")
			}
			ev, err := buildEvent(kind, userID, text, data)
			if err != nil {
				return err
			}
			body, err := json.Marshal(map[string]any{
				"destination": "Usimulator",
				"events":      []domain.WebhookEvent{ev},
			})
			if err != nil {
				return err
			}

			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPost, target, bytes.NewReader(body))
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set(line.SignatureHeader, line.Sign(secret, body))

			client := &http.Client{Timeout: 10 * time.Second}
			resp, err := client.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			respBody, _ := io.ReadAll(resp.Body)
			fmt.Fprintf(cmd.OutOrStdout(), "%d %s\n", resp.StatusCode, string(respBody))
			return nil
		},
	}
	cmd.Flags().StringVar(&target, "url", "http://localhost:8080/webhook", "webhook endpoint")
	cmd.Flags().StringVar(&secret, "secret", os.Getenv("LINE_CHANNEL_SECRET"), "LINE channel secret")
	cmd.Flags().StringVar(&userID, "user", "Usimulated", "source userId")
	cmd.Flags().StringVar(&kind, "kind", "text", "event kind: text, image or postback")
	cmd.Flags().StringVar(&text, "text", "こんにちは", "text for text events")
	cmd.Flags().StringVar(&data, "data", service.PostbackData(service.GuidanceSlots[0]), "payload for postback events")
	return cmd
}

func newTokenCommand() *cobra.Command {
	var (
		secret   string
		operator string
		ttl      time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Emite un token de operador para /admin",
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, err := service.NewJWTService(secret, ttl).IssueAdminToken(operator)
			if err != nil {
				return fmt.Errorf("issue token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", os.Getenv("ADMIN_JWT_SECRET"), "admin jwt secret")
	cmd.Flags().StringVar(&operator, "operator", "pharmacist", "operator name")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "token lifetime")
	return cmd
}

func buildEvent(kind, userID, text, data string) (domain.WebhookEvent, error) {
	now := time.Now().UnixMilli()
	ev := domain.WebhookEvent{
		Mode:            "active",
		Timestamp:       now,
		WebhookEventID:  uuid.NewString(),
		DeliveryContext: &domain.DeliveryContext{IsRedelivery: false},
		ReplyToken:      uuid.NewString(),
		Source:          &domain.EventSource{Type: "user", UserID: userID},
	}
	switch kind {
	case "text":
		ev.Type = domain.EventTypeMessage
		ev.Message = &domain.EventMessage{ID: strconv.FormatInt(now, 10), Type: domain.MessageTypeText, Text: text}
	case "image":
		ev.Type = domain.EventTypeMessage
		ev.Message = &domain.EventMessage{ID: strconv.FormatInt(now, 10), Type: domain.MessageTypeImage}
	case "postback":
		ev.Type = domain.EventTypePostback
		ev.Postback = &domain.EventPostback{Data: data}
	default:
		return domain.WebhookEvent{}, fmt.Errorf("unknown event kind %q", kind)
	}
	return ev, nil
}
