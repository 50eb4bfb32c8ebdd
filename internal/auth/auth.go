package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go-chi-calculators/internal/handlers"
	"go-chi-calculators/internal/observability"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

// RoleAdmin is the role claim required by the admin API.
const RoleAdmin = "admin"

var (
	ErrUnauthorized = errors.New("missing or invalid credentials")
	ErrForbidden    = errors.New("admin role required")
)

// Claims are the JWT claims the site issues and accepts.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type ctxKey struct{}

// Verifier checks HS256 bearer tokens signed with a shared secret.
type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}
}

// Verify parses and validates token. Expired, malformed or wrongly signed
// tokens yield ErrUnauthorized.
func (v *Verifier) Verify(token string) (*Claims, error) {
	if len(v.secret) == 0 {
		return nil, fmt.Errorf("%w: admin secret not configured", ErrUnauthorized)
	}
	claims := &Claims{}
	parsed, err := v.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if !parsed.Valid {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

// IssueToken signs an HS256 token for subject with role, valid for ttl.
func IssueToken(secret, subject, role string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("secret is required")
	}
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// RequireAdmin rejects requests without a valid admin bearer token: 401 for
// missing or invalid tokens and 403 for a valid token without the admin role.
func RequireAdmin(v *Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := observability.LoggerWithTrace(r.Context())

			token, ok := bearerToken(r)
			if !ok {
				w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
				handlers.WriteError(w, http.StatusUnauthorized, ErrUnauthorized.Error())
				return
			}

			claims, err := v.Verify(token)
			if err != nil {
				logger.Warn("admin token rejected",
					zap.Error(err),
					zap.String("request_id", observability.RequestIDFromContext(r.Context())),
				)
				w.Header().Set("WWW-Authenticate", `Bearer realm="admin", error="invalid_token"`)
				handlers.WriteError(w, http.StatusUnauthorized, ErrUnauthorized.Error())
				return
			}

			if claims.Role != RoleAdmin {
				logger.Warn("admin role missing",
					zap.String("subject", claims.Subject),
					zap.String("role", claims.Role),
				)
				handlers.WriteError(w, http.StatusForbidden, ErrForbidden.Error())
				return
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the verified claims stored by RequireAdmin.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(ctxKey{}).(*Claims)
	return c, ok
}

func bearerToken(r *http.Request) (string, bool) {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(h[len(prefix):])
	return token, token != ""
}
