package middleware

import (
	"context"
	"net/http"
	"strconv"

	"stock-control/internal/domain"

	"go.uber.org/zap"
)

type contextKey string

const credentialKey contextKey = "credential"

// Identity headers. Both must be present and parse as positive integers on
// every endpoint; there is no anonymous surface.
const (
	HeaderAccountID = "X-Account-Id"
	HeaderUserID    = "X-User-Id"
)

// IdentityMiddleware resolves the caller's credential from the identity
// headers. It rejects with 401 before any parameter validation runs.
func IdentityMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			idAccount, errA := parseIdentityHeader(r, HeaderAccountID)
			idUser, errU := parseIdentityHeader(r, HeaderUserID)
			if errA != nil || errU != nil {
				logger.Debug("Missing or invalid identity headers",
					zap.String("path", r.URL.Path),
					zap.String("method", r.Method),
				)
				RespondError(w, ErrUnauthorized)
				return
			}

			credential := domain.Credential{IDAccount: idAccount, IDUser: idUser}
			ctx := context.WithValue(r.Context(), credentialKey, credential)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func parseIdentityHeader(r *http.Request, name string) (int64, error) {
	value, err := strconv.ParseInt(r.Header.Get(name), 10, 64)
	if err != nil {
		return 0, err
	}
	if value <= 0 {
		return 0, strconv.ErrRange
	}
	return value, nil
}

// GetCredential extracts the resolved caller credential from the request
// context.
func GetCredential(ctx context.Context) (domain.Credential, bool) {
	credential, ok := ctx.Value(credentialKey).(domain.Credential)
	return credential, ok
}

// WithCredential returns a context carrying the given credential. Intended
// for tests and internal calls that bypass the HTTP layer.
func WithCredential(ctx context.Context, credential domain.Credential) context.Context {
	return context.WithValue(ctx, credentialKey, credential)
}
