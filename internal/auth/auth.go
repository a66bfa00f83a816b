package auth

import (
	"context"
	"strings"
)

// HeaderUserID carries the caller's user id, set by the gateway that authenticated it.
const HeaderUserID = "X-User-Id"

type Provider interface {
	CurrentUserID(ctx context.Context) (string, bool)
}

type ctxKey struct{}

func WithUserID(ctx context.Context, userId string) context.Context {
	return context.WithValue(ctx, ctxKey{}, strings.TrimSpace(userId))
}

// HeaderProvider reads the user id that the HTTP layer stored in the context.
type HeaderProvider struct{}

func (HeaderProvider) CurrentUserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
