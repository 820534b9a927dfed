package auth

import "github.com/jhoicas/aura-storefront/internal/domain/entity"

// AdminPolicy decide si una sesión tiene capacidades de administración.
type AdminPolicy struct {
	// Role rol de aplicación requerido (app_metadata.role o app_metadata.roles).
	Role string
	// AnySession trata cualquier sesión válida como admin. Solo para instalaciones heredadas.
	AnySession bool
}

// IsAdmin aplica la política a un usuario autenticado.
func (p AdminPolicy) IsAdmin(u entity.SessionUser) bool {
	if u.ID == "" {
		return false
	}
	if p.AnySession {
		return true
	}
	return p.Role != "" && u.HasRole(p.Role)
}
