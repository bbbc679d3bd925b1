package domain

import "context"

type adminKey struct{}

// WithAdmin marks ctx as carrying a verified admin caller. The auth boundary
// sets it; the core only reads it.
func WithAdmin(ctx context.Context) context.Context {
	return context.WithValue(ctx, adminKey{}, true)
}

// IsAdmin reports whether ctx was marked by WithAdmin.
func IsAdmin(ctx context.Context) bool {
	v, _ := ctx.Value(adminKey{}).(bool)
	return v
}

// RequireAdmin returns ErrUnauthorized unless ctx carries the admin flag.
func RequireAdmin(ctx context.Context) error {
	if !IsAdmin(ctx) {
		return ErrUnauthorized
	}
	return nil
}
