package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	adminTokenType = "admin"
	tokenIssuer    = "rx-line"
)

// JWTService emite y valida tokens de operador para la API de administración.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

type AdminClaims struct {
	Operator  string `json:"op"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

var (
	ErrJWTInvalid = errors.New("jwt invalid")
	ErrJWTExpired = errors.New("jwt expired")
)

func NewJWTService(secret string, ttl time.Duration) *JWTService {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &JWTService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: tokenIssuer,
	}
}

// Enabled es false cuando no hay secreto configurado.
func (s *JWTService) Enabled() bool {
	return s != nil && len(s.secret) > 0
}

func (s *JWTService) IssueAdminToken(operator string) (string, error) {
	if !s.Enabled() {
		return "", ErrJWTInvalid
	}
	operator = strings.TrimSpace(operator)
	if operator == "" {
		return "", ErrJWTInvalid
	}
	now := time.Now().UTC()
	claims := AdminClaims{
		Operator:  operator,
		TokenType: adminTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   operator,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *JWTService) ParseAdminToken(tokenString string) (AdminClaims, error) {
	if !s.Enabled() {
		return AdminClaims{}, ErrJWTInvalid
	}
	if strings.TrimSpace(tokenString) == "" {
		return AdminClaims{}, ErrJWTInvalid
	}
	var claims AdminClaims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return AdminClaims{}, ErrJWTExpired
		}
		return AdminClaims{}, ErrJWTInvalid
	}
	if !s.isValidClaims(claims) {
		return AdminClaims{}, ErrJWTInvalid
	}
	return claims, nil
}

func (s *JWTService) isValidClaims(claims AdminClaims) bool {
	if claims.TokenType != adminTokenType {
		return false
	}
	if strings.TrimSpace(claims.Operator) == "" || claims.Subject != claims.Operator {
		return false
	}
	return strings.TrimSpace(claims.Issuer) == s.issuer
}
