package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"memberportal/pkg/domain"
	dErrors "memberportal/pkg/domain-errors"
	"memberportal/pkg/platform/httputil"
	request "memberportal/pkg/platform/middleware/request"
	"memberportal/pkg/requestcontext"
)

//go:generate mockgen -source=auth.go -destination=mocks/auth_mocks.go -package=mocks JWTValidator SessionChecker

// JWTValidator defines the interface for validating JWT tokens
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// SessionChecker reports whether the auth session behind a token is still live.
// Logout removes the session, so tokens issued before it stop working.
type SessionChecker interface {
	IsActive(ctx context.Context, sessionID domain.SessionID) (bool, error)
}

// JWTClaims represents the claims we expect from the JWT validator
type JWTClaims struct {
	UserID    string
	SessionID string
	JTI       string
}

func unauthorized(w http.ResponseWriter, desc string) {
	httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, desc))
}

func RequireAuth(validator JWTValidator, sessions SessionChecker, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := request.GetRequestID(ctx)

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				unauthorized(w, "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				unauthorized(w, "Invalid or expired token")
				return
			}

			userID, err := domain.ParseUserID(claims.UserID)
			if err != nil {
				unauthorized(w, "Invalid or expired token")
				return
			}
			sessionID, err := domain.ParseSessionID(claims.SessionID)
			if err != nil {
				unauthorized(w, "Invalid or expired token")
				return
			}

			if sessions != nil {
				active, err := sessions.IsActive(ctx, sessionID)
				if err != nil {
					logger.ErrorContext(ctx, "failed to check session",
						"error", err,
						"request_id", requestID,
					)
					httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to validate token"))
					return
				}
				if !active {
					logger.WarnContext(ctx, "unauthorized access - session ended",
						"session_id", sessionID.String(),
						"request_id", requestID,
					)
					unauthorized(w, "Session has ended")
					return
				}
			}

			ctx = requestcontext.WithUserID(ctx, userID)
			ctx = requestcontext.WithSessionID(ctx, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
