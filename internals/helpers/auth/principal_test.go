package helper

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"condominio_backend/internals/constants"
	helper "condominio_backend/internals/helpers"
)

func TestPrincipalCapabilities(t *testing.T) {
	tests := []struct {
		name       string
		roles      []constants.Role
		accounting bool
		budgets    bool
		admin      bool
	}{
		{"super admin", []constants.Role{constants.RoleSuperAdmin}, true, true, true},
		{"admin", []constants.Role{constants.RoleAdmin}, true, true, true},
		{"accountant", []constants.Role{constants.RoleAccountant}, true, true, false},
		{"assistant", []constants.Role{constants.RoleAccountingAssistant}, true, false, false},
		{"user", []constants.Role{constants.RoleUser}, false, false, false},
		{"none", nil, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Principal{Roles: tt.roles}
			if got := p.CanAccessAccounting(); got != tt.accounting {
				t.Errorf("CanAccessAccounting = %v, want %v", got, tt.accounting)
			}
			if got := p.CanManageBilling(); got != tt.accounting {
				t.Errorf("CanManageBilling = %v, want %v", got, tt.accounting)
			}
			if got := p.CanManageBudgets(); got != tt.budgets {
				t.Errorf("CanManageBudgets = %v, want %v", got, tt.budgets)
			}
			if got := p.IsAdmin(); got != tt.admin {
				t.Errorf("IsAdmin = %v, want %v", got, tt.admin)
			}
		})
	}
}

func TestCondominiumAccess(t *testing.T) {
	member := uuid.New()
	other := uuid.New()

	p := &Principal{Roles: []constants.Role{constants.RoleAdmin}, CondominiumIDs: []uuid.UUID{member}}
	if !p.HasCondominiumAccess(member) {
		t.Fatal("member condominium should be accessible")
	}
	if p.HasCondominiumAccess(other) {
		t.Fatal("non-member condominium should be denied")
	}
	if err := EnsureCondominiumAccess(p, other); !helper.IsKind(err, helper.KindForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	super := &Principal{Roles: []constants.Role{constants.RoleSuperAdmin}}
	if !super.HasCondominiumAccess(other) {
		t.Fatal("super admin should access every condominium")
	}

	var nilP *Principal
	if nilP.HasCondominiumAccess(member) {
		t.Fatal("nil principal must be denied")
	}
}

func TestEnsureAccountingRequiresRole(t *testing.T) {
	condo := uuid.New()
	p := &Principal{Roles: []constants.Role{constants.RoleUser}, CondominiumIDs: []uuid.UUID{condo}}
	if err := EnsureAccounting(p, condo, "invoices"); !helper.IsKind(err, helper.KindForbidden) {
		t.Fatalf("expected forbidden for plain user, got %v", err)
	}
	p.Roles = append(p.Roles, constants.RoleAccountant)
	if err := EnsureAccounting(p, condo, "invoices"); err != nil {
		t.Fatalf("accountant should pass, got %v", err)
	}
}

func TestForbiddenMessageKeepsFeatureVerbatim(t *testing.T) {
	condo := uuid.New()
	p := &Principal{Roles: []constants.Role{constants.RoleUser}, CondominiumIDs: []uuid.UUID{condo}}
	feature := "reports 100%d"

	cases := []struct {
		name string
		err  error
	}{
		{"accounting", EnsureAccounting(p, condo, feature)},
		{"admin", EnsureAdmin(p, condo, feature)},
		{"super admin", EnsureSuperAdmin(p, feature)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !helper.IsKind(tc.err, helper.KindForbidden) {
				t.Fatalf("expected forbidden, got %v", tc.err)
			}
			if !strings.Contains(tc.err.Error(), feature) {
				t.Fatalf("message %q lost feature name %q", tc.err.Error(), feature)
			}
		})
	}
}
