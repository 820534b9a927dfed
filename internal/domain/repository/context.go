package repository

import "context"

type accessTokenKey struct{}

// WithAccessToken adjunta el token de la sesión del usuario para que el gateway
// ejecute las mutaciones en su nombre.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey{}, token)
}

// AccessToken devuelve el token adjunto o "".
func AccessToken(ctx context.Context) string {
	s, _ := ctx.Value(accessTokenKey{}).(string)
	return s
}
