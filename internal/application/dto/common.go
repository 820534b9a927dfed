package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MutationErrorResponse error de una mutación de administración; Input devuelve lo enviado
// para que el formulario conserve los valores.
type MutationErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Input   interface{} `json:"input,omitempty"`
}
