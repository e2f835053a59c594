package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/2beens/adherence/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

const MCPSecretHeader = "X-MCP-Secret"

// AuthMiddlewareHandler guards the secret protected path prefixes; every other path is open.
type AuthMiddlewareHandler struct {
	mcpSecret         string
	protectedPrefixes []string
}

func NewAuthMiddlewareHandler(mcpSecret string) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		mcpSecret: mcpSecret,
		protectedPrefixes: []string{
			"/mcp",
		},
	}
}

func (h *AuthMiddlewareHandler) isProtected(path string) bool {
	for _, prefix := range h.protectedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, DELETE, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if !h.isProtected(r.URL.Path) {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			if h.mcpSecret == "" {
				log.Errorf("[auth middleware] no mcp secret configured, refusing %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "secret-not-configured")
				return
			}

			secret := r.Header.Get(MCPSecretHeader)
			if secret == "" {
				log.Tracef("[missing secret] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "missing-secret")
				return
			}
			if subtle.ConstantTimeCompare([]byte(secret), []byte(h.mcpSecret)) != 1 {
				log.Tracef("[invalid secret] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "invalid-secret")
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r)
		})
	}
}
