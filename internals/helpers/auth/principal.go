package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"condominio_backend/internals/constants"
	helper "condominio_backend/internals/helpers"
)

// Nama locals yang diisi middleware AuthJWT
const (
	LocUserID      = "user_id"
	LocPrincipal   = "principal"
	LocAccessToken = "access_token"
)

// Principal adalah identitas pemanggil + role + keanggotaan kondominium.
type Principal struct {
	UserID         uuid.UUID        `json:"user_id"`
	Email          string           `json:"email"`
	FullName       string           `json:"full_name"`
	Roles          []constants.Role `json:"roles"`
	CondominiumIDs []uuid.UUID      `json:"condominium_ids"`
}

func (p *Principal) HasRole(roles ...constants.Role) bool {
	if p == nil {
		return false
	}
	for _, have := range p.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

func (p *Principal) IsSuperAdmin() bool {
	return p.HasRole(constants.RoleSuperAdmin)
}

// IsAdmin: admin kondominium atau super admin.
func (p *Principal) IsAdmin() bool {
	return p.HasRole(constants.RoleAdmin, constants.RoleSuperAdmin)
}

func (p *Principal) CanAccessAccounting() bool {
	return p.HasRole(constants.RoleSuperAdmin, constants.RoleAdmin, constants.RoleAccountant, constants.RoleAccountingAssistant)
}

func (p *Principal) CanManageBilling() bool {
	return p.CanAccessAccounting()
}

// CanManageBudgets juga dipakai untuk hapus transaksi akuntansi.
func (p *Principal) CanManageBudgets() bool {
	return p.HasRole(constants.RoleSuperAdmin, constants.RoleAdmin, constants.RoleAccountant)
}

func (p *Principal) HasCondominiumAccess(condominiumID uuid.UUID) bool {
	if p == nil {
		return false
	}
	if p.IsSuperAdmin() {
		return true
	}
	for _, id := range p.CondominiumIDs {
		if id == condominiumID {
			return true
		}
	}
	return false
}

func (p *Principal) RoleNames() []string {
	out := make([]string, 0, len(p.Roles))
	for _, r := range p.Roles {
		out = append(out, r.String())
	}
	return out
}

/* =========================================================
   Guards (dipanggil controller sebelum memanggil service)
========================================================= */

func EnsureCondominiumAccess(p *Principal, condominiumID uuid.UUID) error {
	if !p.HasCondominiumAccess(condominiumID) {
		return helper.Forbidden(constants.ErrNoCondominiumAccess)
	}
	return nil
}

func EnsureAccounting(p *Principal, condominiumID uuid.UUID, feature string) error {
	if err := EnsureCondominiumAccess(p, condominiumID); err != nil {
		return err
	}
	if !p.CanAccessAccounting() {
		return helper.Forbidden("%s", constants.RoleErrorAccounting(feature))
	}
	return nil
}

func EnsureAdmin(p *Principal, condominiumID uuid.UUID, feature string) error {
	if err := EnsureCondominiumAccess(p, condominiumID); err != nil {
		return err
	}
	if !p.IsAdmin() {
		return helper.Forbidden("%s", constants.RoleErrorAdmin(feature))
	}
	return nil
}

func EnsureSuperAdmin(p *Principal, feature string) error {
	if !p.IsSuperAdmin() {
		return helper.Forbidden("%s", constants.RoleErrorSuperAdmin(feature))
	}
	return nil
}

// FromCtx mengambil Principal yang dipasang middleware.
func FromCtx(c *fiber.Ctx) (*Principal, error) {
	if p, ok := c.Locals(LocPrincipal).(*Principal); ok && p != nil {
		return p, nil
	}
	return nil, helper.Unauthorized("unauthorized")
}

// BearerToken mengambil token dari Authorization: Bearer ... atau cookie access_token.
func BearerToken(c *fiber.Ctx) string {
	authHeader := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return strings.TrimSpace(c.Cookies("access_token"))
}
