package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rx-line/internal/service"
)

const (
	adminClaimsKey   = "admin_claims"
	adminOperatorKey = "admin_operator"
)

// JWTAuthMiddleware deja pasar solo a operadores con token de admin vigente.
// Sin ADMIN_JWT_SECRET la API de administración queda apagada (503).
func JWTAuthMiddleware(jwtSvc *service.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !jwtSvc.Enabled() {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "admin api disabled"})
			return
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Header("WWW-Authenticate", `Bearer realm="rx-line-admin"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		claims, err := jwtSvc.ParseAdminToken(token)
		switch {
		case errors.Is(err, service.ErrJWTExpired):
			c.Header("WWW-Authenticate", `Bearer error="invalid_token", error_description="expired"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token expired"})
			return
		case err != nil:
			c.Header("WWW-Authenticate", `Bearer error="invalid_token"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(adminClaimsKey, claims)
		c.Set(adminOperatorKey, claims.Operator)
		c.Next()
	}
}

// bearerToken extrae el token de "Bearer <token>"; el esquema no distingue mayúsculas.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// GetAdminClaims obtiene los claims del operador autenticado.
func GetAdminClaims(c *gin.Context) (service.AdminClaims, bool) {
	val, ok := c.Get(adminClaimsKey)
	if !ok {
		return service.AdminClaims{}, false
	}
	claims, ok := val.(service.AdminClaims)
	return claims, ok
}

// AdminOperator devuelve el operador autenticado o vacío.
func AdminOperator(c *gin.Context) string {
	return c.GetString(adminOperatorKey)
}
