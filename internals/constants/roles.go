package constants

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleSuperAdmin          Role = "super_admin"
	RoleAdmin               Role = "admin"
	RoleAccountant          Role = "accountant"
	RoleAccountingAssistant Role = "accounting_assistant"
	RoleUser                Role = "user"
)

// Template pesan error role
const (
	ErrOnlyAdminsCanAccess      = "only administrators can access %s"
	ErrOnlySuperAdminsCanAccess = "only super administrators can access %s"
	ErrOnlyAccountingCanAccess  = "access denied to accounting module (%s)"
	ErrNoCondominiumAccess      = "access denied to this condominium"
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorSuperAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlySuperAdminsCanAccess, feature)
}

func RoleErrorAccounting(feature string) string {
	return fmt.Sprintf(ErrOnlyAccountingCanAccess, feature)
}

var AllRoles = []Role{
	RoleSuperAdmin,
	RoleAdmin,
	RoleAccountant,
	RoleAccountingAssistant,
	RoleUser,
}

// ParseRole menolak nama role di luar himpunan tertutup.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllRoles {
		if r == known {
			return r, true
		}
	}
	return "", false
}

func (r Role) String() string { return string(r) }

func (r Role) Description() string {
	switch r {
	case RoleSuperAdmin:
		return "Full access to every condominium and user"
	case RoleAdmin:
		return "Manages the condominiums they belong to"
	case RoleAccountant:
		return "Accounting, billing and budget approval"
	case RoleAccountingAssistant:
		return "Accounting and billing without budget approval"
	case RoleUser:
		return "Resident access"
	}
	return ""
}
