package middleware

import (
	"context"
	"crypto/rsa"
	"log"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/roktoapp/donation-service/internal/core/domain"
)

type AuthMiddleware struct {
	publicKey *rsa.PublicKey
}

func NewAuthMiddleware(publicKey *rsa.PublicKey) *AuthMiddleware {
	return &AuthMiddleware{
		publicKey: publicKey,
	}
}

type contextKey string

const (
	EmailKey contextKey = "email"
	RoleKey  contextKey = "role"
)

// ActorFromContext reconstructs the acting identity injected by
// Authenticate. The second return is false on unauthenticated requests.
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	email, ok := ctx.Value(EmailKey).(string)
	if !ok || email == "" {
		return domain.Actor{}, false
	}
	role, _ := ctx.Value(RoleKey).(string)
	return domain.Actor{Email: email, Role: domain.Role(role)}, true
}

// Authenticate validates the bearer token and injects the caller's email
// and role into the request context.
func (m *AuthMiddleware) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := m.verify(w, r)
		if !ok {
			return
		}
		ctx := context.WithValue(r.Context(), EmailKey, actor.Email)
		ctx = context.WithValue(ctx, RoleKey, string(actor.Role))
		next(w, r.WithContext(ctx))
	}
}

// RequireRole is Authenticate plus a role gate.
func (m *AuthMiddleware) RequireRole(roles []string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := m.verify(w, r)
		if !ok {
			return
		}

		allowed := false
		for _, role := range roles {
			if string(actor.Role) == role {
				allowed = true
				break
			}
		}
		if !allowed {
			log.Printf("auth: role %q not in %v for %s %s", actor.Role, roles, r.Method, r.URL.Path)
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), EmailKey, actor.Email)
		ctx = context.WithValue(ctx, RoleKey, string(actor.Role))
		next(w, r.WithContext(ctx))
	}
}

func (m *AuthMiddleware) verify(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		http.Error(w, "missing authorization header", http.StatusUnauthorized)
		return domain.Actor{}, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		http.Error(w, "invalid authorization header", http.StatusUnauthorized)
		return domain.Actor{}, false
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.publicKey, nil
	})
	if err != nil || !token.Valid {
		log.Printf("auth: token rejected: %v", err)
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return domain.Actor{}, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		http.Error(w, "invalid token claims", http.StatusUnauthorized)
		return domain.Actor{}, false
	}

	email, ok := claims["sub"].(string)
	if !ok || email == "" {
		http.Error(w, "invalid token: missing subject", http.StatusUnauthorized)
		return domain.Actor{}, false
	}
	role, ok := claims["role"].(string)
	if !ok || role == "" {
		http.Error(w, "invalid token: missing role", http.StatusUnauthorized)
		return domain.Actor{}, false
	}

	return domain.Actor{Email: email, Role: domain.Role(role)}, true
}
