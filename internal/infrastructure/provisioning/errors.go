package provisioning

import (
	"errors"
	"fmt"
)

// ErrTokenNotSet la llamada requiere bearer token y el cliente no tiene uno instalado.
var ErrTokenNotSet = errors.New("authorization token not set")

// APIError respuesta no 2xx del servicio de aprovisionamiento.
type APIError struct {
	Verb       string
	StatusCode int
	StatusText string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s failed: %d %s - %s", e.Verb, e.StatusCode, e.StatusText, e.Body)
}

// AsAPIError extrae un *APIError de la cadena de errores.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
