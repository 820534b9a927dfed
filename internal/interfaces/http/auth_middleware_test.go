package http_test

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/aura-storefront/internal/application/dto"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests SessionMiddleware + RequireAdmin
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: sesión con rol admin → pasa a la ruta de administración.
func TestRequireAdmin_AdminAccedeRutaAdmin(t *testing.T) {
	env := buildTestApp(t)
	resp := doRequest(t, env.app, http.MethodDelete, "/api/admin/products/3", tokenFor(t, "s1", "admin"), nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode,
		"admin debe poder borrar productos")
}

// Caso 2: sesión válida sin rol admin → 403 FORBIDDEN.
func TestRequireAdmin_SinRolAdminRetorna403(t *testing.T) {
	env := buildTestApp(t)
	resp := doRequest(t, env.app, http.MethodDelete, "/api/admin/products/3", tokenFor(t, "s1", "editor"), nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

// Caso 3: comportamiento heredado, cualquier sesión es admin.
func TestRequireAdmin_PoliticaHeredadaCualquierSesion(t *testing.T) {
	env := buildTestApp(t, withAnySessionAdmin())
	resp := doRequest(t, env.app, http.MethodDelete, "/api/admin/products/3", tokenFor(t, "s1"), nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

// Caso 4: sin header Authorization → 401 MISSING_TOKEN.
func TestSessionMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	env := buildTestApp(t)
	resp := doRequest(t, env.app, http.MethodGet, "/api/auth/session", "", nil)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	var body dto.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "MISSING_TOKEN", body.Code)
}

// Caso 5: formato distinto de Bearer → 401 INVALID_TOKEN.
func TestSessionMiddleware_FormatoInvalido_Retorna401(t *testing.T) {
	env := buildTestApp(t)
	resp := doRequest(t, env.app, http.MethodGet, "/api/auth/session", "Basic abc", nil)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	var body dto.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "INVALID_TOKEN", body.Code)
}

// Caso 6: token malformado → 401 UNAUTHORIZED.
func TestSessionMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	env := buildTestApp(t)
	resp := doRequest(t, env.app, http.MethodGet, "/api/auth/session", "Bearer token.invalido.aqui", nil)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	var body dto.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "UNAUTHORIZED", body.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de sesión: claims y revocación
// ──────────────────────────────────────────────────────────────────────────────

func TestSession_DevuelveUsuarioYCapacidad(t *testing.T) {
	env := buildTestApp(t)
	resp := doRequest(t, env.app, http.MethodGet, "/api/auth/session", tokenFor(t, "s1", "admin"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.SessionResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, testUserID, body.User.ID)
	assert.Equal(t, "admin@aura.test", body.User.Email)
	assert.Equal(t, []string{"admin"}, body.User.Roles)
	assert.True(t, body.User.IsAdmin)
	assert.False(t, body.ExpiresAt.IsZero())
}

func TestLogout_RevocaLaSesion(t *testing.T) {
	env := buildTestApp(t)
	token := tokenFor(t, "sess-logout", "admin")

	resp := doRequest(t, env.app, http.MethodPost, "/api/auth/logout", token, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doRequest(t, env.app, http.MethodGet, "/api/auth/session", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	var body dto.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "SESSION_REVOKED", body.Code)

	// otra sesión del mismo usuario sigue activa
	resp = doRequest(t, env.app, http.MethodGet, "/api/auth/session", tokenFor(t, "sess-otra", "admin"), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
