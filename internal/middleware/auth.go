package middleware

import (
	"encoding/json"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskvault/backend/api/transport"
	"github.com/taskvault/backend/domain"
	"github.com/taskvault/backend/pkg/token"
)

const identityKey = "auth_identity"

// Identity is the authenticated caller attached to every request that
// passes the guard. Claims are trusted for the token's lifetime; the user
// record is never re-fetched here.
type Identity struct {
	UserID string
	Email  string
}

// TokenAuth returns a middleware that rejects requests without a valid
// bearer token and attaches the decoded identity to the request.
func TokenAuth(verifier *token.Issuer, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			tokenString := extractToken(ctx)
			if tokenString == "" {
				reject(ctx)
				return
			}

			claims, err := verifier.Verify(tokenString)
			if err != nil {
				logger.Warn("invalid bearer token", zap.Error(err))
				reject(ctx)
				return
			}

			ctx.SetUserValue(identityKey, Identity{
				UserID: claims.UserID,
				Email:  claims.Email,
			})
			next(ctx)
		}
	}
}

// IdentityFromRequest returns the identity stored by TokenAuth, if any.
func IdentityFromRequest(ctx *fasthttp.RequestCtx) (Identity, bool) {
	identity, ok := ctx.UserValue(identityKey).(Identity)
	return identity, ok
}

func reject(ctx *fasthttp.RequestCtx) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(fasthttp.StatusUnauthorized)
	body, _ := json.Marshal(transport.NewError(
		string(domain.ErrCodeUnauthenticated),
		domain.ErrUnauthenticated.Message,
	))
	ctx.SetBody(body)
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
