package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rx-line/internal/line"
)

const (
	rawBodyKey      = "raw_body"
	maxWebhookBytes = 1 << 20 // 1 MiB
)

// LineSignatureMiddleware verifica x-line-signature sobre el cuerpo crudo
// y deja el cuerpo en el contexto para el handler.
func LineSignatureMiddleware(channelSecret string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		signature := c.GetHeader(line.SignatureHeader)
		if signature == "" {
			c.String(http.StatusBadRequest, "Missing signature")
			c.Abort()
			return
		}

		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes+1))
		if err != nil {
			logger.Warn("read webhook body failed", zap.Error(err))
			c.String(http.StatusBadRequest, "Bad request")
			c.Abort()
			return
		}
		if len(body) > maxWebhookBytes {
			c.String(http.StatusRequestEntityTooLarge, "Payload too large")
			c.Abort()
			return
		}

		if err := line.VerifySignature(channelSecret, body, signature); err != nil {
			logger.Warn("invalid webhook signature", zap.String("client_ip", c.ClientIP()))
			c.String(http.StatusForbidden, "Invalid signature")
			c.Abort()
			return
		}

		c.Set(rawBodyKey, body)
		c.Next()
	}
}

// RawBody devuelve el cuerpo verificado por LineSignatureMiddleware.
func RawBody(c *gin.Context) ([]byte, bool) {
	val, ok := c.Get(rawBodyKey)
	if !ok {
		return nil, false
	}
	body, ok := val.([]byte)
	return body, ok
}
