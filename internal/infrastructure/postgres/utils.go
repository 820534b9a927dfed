package postgres

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/aura-storefront/internal/domain"
)

// gatewayError traduce errores de pgx al error de gateway del dominio, conservando
// el código SQLSTATE y el mensaje de Postgres.
func gatewayError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return &domain.GatewayError{Op: op, Status: http.StatusNotFound, Code: "PGRST116",
			Message: "El producto no existe.", Err: domain.ErrNotFound}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &domain.GatewayError{Op: op, Status: statusForSQLState(pgErr.Code), Code: pgErr.Code, Message: pgErr.Message, Err: err}
	}
	return &domain.GatewayError{Op: op, Err: err}
}

// statusForSQLState equivalencias que usa PostgREST para los códigos más comunes.
func statusForSQLState(code string) int {
	switch code {
	case "23505": // unique_violation
		return http.StatusConflict
	case "23503", "23502", "23514", "22P02": // fk, not null, check, invalid text
		return http.StatusBadRequest
	case "42501": // insufficient_privilege
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
