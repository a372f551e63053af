package provisioning

import "context"

// HeaderCSRF cabecera reenviada al servicio remoto.
const HeaderCSRF = "X-CSRF-TOKEN"

type csrfKey struct{}

// WithCSRFToken adjunta al contexto el token CSRF de la petición entrante.
func WithCSRFToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, csrfKey{}, token)
}

// CSRFTokenFrom devuelve el token CSRF del contexto, si existe.
func CSRFTokenFrom(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(csrfKey{}).(string)
	return token, ok && token != ""
}
