package line

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
)

// SignatureHeader es el header con la firma del webhook.
const SignatureHeader = "x-line-signature"

var (
	ErrMissingSignature = errors.New("missing signature")
	ErrInvalidSignature = errors.New("invalid signature")
)

// Sign calcula base64(HMAC-SHA256(secret, body)) sobre los bytes exactos recibidos.
func Sign(channelSecret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifySignature compara la firma recibida con la calculada sobre body.
func VerifySignature(channelSecret string, body []byte, signature string) error {
	if signature == "" {
		return ErrMissingSignature
	}
	expected := Sign(channelSecret, body)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}
