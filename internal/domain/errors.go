package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
	ErrInvalidRow           = errors.New("fila del gateway sin id o nombre")
	ErrLoadFailed           = errors.New("No se pudieron cargar los productos.")
	ErrInvalidProduct       = errors.New("Producto no válido.")
	ErrProductNotFound      = errors.New("No se pudo cargar el producto.")
	ErrSessionRevoked       = errors.New("sesión cerrada")
	ErrGatewayNotConfigured = errors.New("gateway de datos no configurado")
)

// GatewayError error devuelto por el servicio externo (PostgREST, GoTrue o Postgres).
// Message conserva el texto del proveedor para mostrarlo al usuario cuando aplica.
type GatewayError struct {
	Op      string // operación: products.insert, auth.sign_in, ...
	Status  int    // código HTTP del gateway; 0 si no aplica
	Code    string // código del proveedor (PGRST116, 23505, invalid_grant, ...)
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("gateway %s (%d): %s", e.Op, e.Status, msg)
	}
	return fmt.Sprintf("gateway %s: %s", e.Op, msg)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// AsGatewayError envuelve err en *GatewayError si no lo es ya.
func AsGatewayError(op string, err error) *GatewayError {
	if err == nil {
		return nil
	}
	var ge *GatewayError
	if errors.As(err, &ge) {
		return ge
	}
	return &GatewayError{Op: op, Err: err}
}
