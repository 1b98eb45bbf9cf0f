package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	condoModel "condominio_backend/internals/features/condominiums/model"
)

func CreateCondominium(t *testing.T, db *gorm.DB, name string) condoModel.Condominium {
	t.Helper()
	c := condoModel.Condominium{CondominiumName: name, CondominiumIsActive: true}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("create condominium: %v", err)
	}
	return c
}

func CreateBlock(t *testing.T, db *gorm.DB, condoID uuid.UUID, name string) condoModel.Block {
	t.Helper()
	b := condoModel.Block{BlockCondominiumID: condoID, BlockName: name}
	if err := db.Create(&b).Error; err != nil {
		t.Fatalf("create block: %v", err)
	}
	return b
}

// CreateProperties membuat n properti dengan kode {prefix}-01.. di blok (opsional).
func CreateProperties(t *testing.T, db *gorm.DB, condoID uuid.UUID, blockID *uuid.UUID, prefix string, n int) []condoModel.Property {
	t.Helper()
	out := make([]condoModel.Property, 0, n)
	for i := 1; i <= n; i++ {
		p := condoModel.Property{
			PropertyCondominiumID: condoID,
			PropertyBlockID:       blockID,
			PropertyCode:          fmt.Sprintf("%s-%02d", prefix, i),
			PropertyType:          condoModel.PropertyTypeApartment,
		}
		if err := db.Create(&p).Error; err != nil {
			t.Fatalf("create property: %v", err)
		}
		out = append(out, p)
	}
	return out
}

func CreateResidents(t *testing.T, db *gorm.DB, condoID uuid.UUID, n int) []condoModel.Resident {
	t.Helper()
	out := make([]condoModel.Resident, 0, n)
	for i := 1; i <= n; i++ {
		r := condoModel.Resident{
			ResidentCondominiumID: condoID,
			ResidentFullName:      fmt.Sprintf("Resident %d", i),
			ResidentIsActive:      true,
		}
		if err := db.Create(&r).Error; err != nil {
			t.Fatalf("create resident: %v", err)
		}
		out = append(out, r)
	}
	return out
}
