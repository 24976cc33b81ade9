package middleware

import (
	"context"
	"net/http"

	"stock-control/internal/domain"

	"go.uber.org/zap"
)

// PermissionChecker reports whether a credential holds a permission on a
// securable. Implemented by the permission service.
type PermissionChecker interface {
	Check(ctx context.Context, credential domain.Credential, securable domain.Securable, permission domain.Permission) (bool, error)
}

// RequirePermission gates a route on the caller holding the given permission.
// It must run after IdentityMiddleware.
func RequirePermission(checker PermissionChecker, securable domain.Securable, permission domain.Permission, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			credential, ok := GetCredential(r.Context())
			if !ok {
				RespondError(w, ErrUnauthorized)
				return
			}

			allowed, err := checker.Check(r.Context(), credential, securable, permission)
			if err != nil {
				logger.Error("Permission check failed",
					zap.Int64("idAccount", credential.IDAccount),
					zap.Int64("idUser", credential.IDUser),
					zap.String("securable", string(securable)),
					zap.String("permission", string(permission)),
					zap.Error(err),
				)
				RespondError(w, ErrGeneral)
				return
			}
			if !allowed {
				logger.Warn("Permission denied",
					zap.Int64("idAccount", credential.IDAccount),
					zap.Int64("idUser", credential.IDUser),
					zap.String("securable", string(securable)),
					zap.String("permission", string(permission)),
				)
				RespondError(w, ErrForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
