package appMiddleware

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const UserIDKey contextKey = "userID"
const CredentialKey contextKey = "credential"

// Claims are the bearer-token claims issued by the identity service.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}

// GetCredentialFromContext returns the Authorization header value, kept verbatim so it can be
// forwarded to the preferences service.
func GetCredentialFromContext(ctx context.Context) (string, bool) {
	credential, ok := ctx.Value(CredentialKey).(string)
	return credential, ok && credential != ""
}

// WithIdentity stores the owner id and credential the way Authenticate does.
func WithIdentity(ctx context.Context, userID, credential string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, CredentialKey, credential)
}
