// file: internals/features/condominiums/service/condominium_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"condominio_backend/internals/configs"
	"condominio_backend/internals/features/condominiums/dto"
	"condominio_backend/internals/features/condominiums/model"
	accountingModel "condominio_backend/internals/features/finance/accounting/model"
	invoiceModel "condominio_backend/internals/features/finance/invoices/model"
	userModel "condominio_backend/internals/features/users/user/model"
	helper "condominio_backend/internals/helpers"
	"condominio_backend/internals/helpers/oss"
)

const dashboardTTL = 60 * time.Second

type CondominiumService struct {
	DB        *gorm.DB
	Store     oss.ObjectStore
	Cache     *redis.Client // nil → dashboard tidak di-cache
	Clock     helper.Clock
	MaxUpload int64
	log       zerolog.Logger
}

func NewCondominiumService(db *gorm.DB, store oss.ObjectStore, cache *redis.Client, clock helper.Clock, maxUpload int64) *CondominiumService {
	if clock == nil {
		clock = helper.SystemClock{}
	}
	return &CondominiumService{
		DB:        db,
		Store:     store,
		Cache:     cache,
		Clock:     clock,
		MaxUpload: maxUpload,
		log:       configs.WithComponent("condominiums"),
	}
}

// =======================================================
// CONDOMINIUM CRUD
// =======================================================

// CreateCondominium sekaligus mendaftarkan pembuat sebagai anggota condominium.
func (s *CondominiumService) CreateCondominium(ctx context.Context, req dto.CreateCondominiumRequest, actor uuid.UUID) (*model.Condominium, error) {
	row := model.Condominium{
		CondominiumName:        strings.TrimSpace(req.Name),
		CondominiumShortName:   trimPtr(req.ShortName),
		CondominiumAddress:     trimPtr(req.Address),
		CondominiumCity:        trimPtr(req.City),
		CondominiumState:       trimPtr(req.State),
		CondominiumCountry:     trimPtr(req.Country),
		CondominiumPostalCode:  trimPtr(req.PostalCode),
		CondominiumPhone:       trimPtr(req.Phone),
		CondominiumEmail:       lowerPtr(req.Email),
		CondominiumTaxID:       trimPtr(req.TaxID),
		CondominiumAdminName:   trimPtr(req.AdminName),
		CondominiumAdminPhone:  trimPtr(req.AdminPhone),
		CondominiumAdminEmail:  lowerPtr(req.AdminEmail),
		CondominiumDescription: trimPtr(req.Description),
		CondominiumIsActive:    true,
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		return tx.Create(&userModel.UserCondominium{UserID: actor, CondominiumID: row.CondominiumID}).Error
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListCondominiums: all=true untuk super admin, selain itu dibatasi ids keanggotaan.
func (s *CondominiumService) ListCondominiums(ctx context.Context, ids []uuid.UUID, all bool) ([]model.Condominium, error) {
	var rows []model.Condominium
	tx := s.DB.WithContext(ctx).Order("condominium_name ASC")
	if !all {
		if len(ids) == 0 {
			return []model.Condominium{}, nil
		}
		tx = tx.Where("condominium_id IN ?", ids)
	}
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *CondominiumService) GetCondominium(ctx context.Context, id uuid.UUID) (*model.Condominium, error) {
	var row model.Condominium
	if err := s.DB.WithContext(ctx).First(&row, "condominium_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("condominium not found")
		}
		return nil, err
	}
	return &row, nil
}

func (s *CondominiumService) UpdateCondominium(ctx context.Context, id uuid.UUID, req dto.UpdateCondominiumRequest) (*model.Condominium, error) {
	row, err := s.GetCondominium(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		row.CondominiumName = strings.TrimSpace(*req.Name)
	}
	setPtr(&row.CondominiumShortName, req.ShortName)
	setPtr(&row.CondominiumAddress, req.Address)
	setPtr(&row.CondominiumCity, req.City)
	setPtr(&row.CondominiumState, req.State)
	setPtr(&row.CondominiumCountry, req.Country)
	setPtr(&row.CondominiumPostalCode, req.PostalCode)
	setPtr(&row.CondominiumPhone, req.Phone)
	if req.Email != nil {
		row.CondominiumEmail = lowerPtr(req.Email)
	}
	setPtr(&row.CondominiumTaxID, req.TaxID)
	setPtr(&row.CondominiumAdminName, req.AdminName)
	setPtr(&row.CondominiumAdminPhone, req.AdminPhone)
	if req.AdminEmail != nil {
		row.CondominiumAdminEmail = lowerPtr(req.AdminEmail)
	}
	setPtr(&row.CondominiumDescription, req.Description)
	if req.IsActive != nil {
		row.CondominiumIsActive = *req.IsActive
	}

	if err := s.DB.WithContext(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	s.invalidateDashboard(ctx, id)
	return row, nil
}

// DeleteCondominium: soft delete (deleted_at); data turunan tetap utuh.
func (s *CondominiumService) DeleteCondominium(ctx context.Context, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).Where("condominium_id = ?", id).Delete(&model.Condominium{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return helper.NotFound("condominium not found")
	}
	s.invalidateDashboard(ctx, id)
	return nil
}

// UploadLogo: gambar dikonversi ke webp; logo lama dihapus best-effort.
func (s *CondominiumService) UploadLogo(ctx context.Context, id uuid.UUID, fh *multipart.FileHeader) (*model.Condominium, error) {
	if s.Store == nil {
		return nil, helper.Validation("object storage is not configured")
	}
	row, err := s.GetCondominium(ctx, id)
	if err != nil {
		return nil, err
	}
	up, err := oss.UploadImageAsWebP(ctx, s.Store, fmt.Sprintf("condominiums/%s/logo", id), fh, s.MaxUpload)
	if err != nil {
		return nil, err
	}
	// salin nilainya: Update menulis ulang field milik row
	var oldKey string
	if row.CondominiumLogoKey != nil {
		oldKey = *row.CondominiumLogoKey
	}
	if err := s.DB.WithContext(ctx).Model(row).Update("condominium_logo_key", up.Key).Error; err != nil {
		s.removeObject(ctx, up.Key)
		return nil, err
	}
	newKey := up.Key
	row.CondominiumLogoKey = &newKey
	if oldKey != "" && oldKey != newKey {
		s.removeObject(ctx, oldKey)
	}
	return row, nil
}

// =======================================================
// DASHBOARD
// =======================================================

func dashboardKey(id uuid.UUID) string { return "condominium:dashboard:" + id.String() }

// Dashboard menghitung ringkasan; hasil di-cache 60 detik bila redis tersedia.
func (s *CondominiumService) Dashboard(ctx context.Context, id uuid.UUID) (*dto.Dashboard, error) {
	if s.Cache != nil {
		if raw, err := s.Cache.Get(ctx, dashboardKey(id)).Bytes(); err == nil {
			var cached dto.Dashboard
			if err := sonic.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Msg("dashboard cache read failed")
		}
	}

	if _, err := s.GetCondominium(ctx, id); err != nil {
		return nil, err
	}
	out, err := s.computeDashboard(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if raw, err := sonic.Marshal(out); err == nil {
			if err := s.Cache.Set(ctx, dashboardKey(id), raw, dashboardTTL).Err(); err != nil {
				s.log.Warn().Err(err).Msg("dashboard cache write failed")
			}
		}
	}
	return out, nil
}

func (s *CondominiumService) computeDashboard(ctx context.Context, id uuid.UUID) (*dto.Dashboard, error) {
	db := s.DB.WithContext(ctx)
	now := s.Clock.Now()
	today := helper.DateOnly(now)
	out := &dto.Dashboard{CondominiumID: id, GeneratedAt: now}

	if err := db.Model(&model.Property{}).Where("property_condominium_id = ?", id).Count(&out.Properties).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Resident{}).
		Where("resident_condominium_id = ? AND resident_is_active = ?", id, true).
		Count(&out.Residents).Error; err != nil {
		return nil, err
	}

	// invoice aktif yang belum lunas; overdue dihitung dari due_date, bukan status tersimpan
	var open []invoiceModel.Invoice
	if err := db.Select("invoice_id, invoice_due_date, invoice_pending_amount, invoice_status").
		Where("invoice_condominium_id = ? AND invoice_is_active = ? AND invoice_status IN ?", id, true,
			[]invoiceModel.InvoiceStatus{invoiceModel.InvoiceStatusPending, invoiceModel.InvoiceStatusPartial, invoiceModel.InvoiceStatusOverdue}).
		Find(&open).Error; err != nil {
		return nil, err
	}
	out.PendingAmount, out.OverdueAmount = decimal.Zero, decimal.Zero
	for _, inv := range open {
		if today.After(helper.DateOnly(inv.InvoiceDueDate)) {
			out.OverdueInvoices++
			out.OverdueAmount = out.OverdueAmount.Add(inv.InvoicePendingAmount)
		} else {
			out.PendingInvoices++
			out.PendingAmount = out.PendingAmount.Add(inv.InvoicePendingAmount)
		}
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	var txs []accountingModel.AccountingTransaction
	if err := db.Select("transaction_type, transaction_amount").
		Where("transaction_condominium_id = ? AND transaction_status <> ?", id, accountingModel.TransactionStatusCancelled).
		Where("transaction_date >= ? AND transaction_date < ?", monthStart, monthStart.AddDate(0, 1, 0)).
		Find(&txs).Error; err != nil {
		return nil, err
	}
	out.MonthIncome, out.MonthExpense = decimal.Zero, decimal.Zero
	for _, t := range txs {
		switch t.TransactionType {
		case accountingModel.TransactionTypeIncome:
			out.MonthIncome = out.MonthIncome.Add(t.TransactionAmount)
		case accountingModel.TransactionTypeExpense:
			out.MonthExpense = out.MonthExpense.Add(t.TransactionAmount)
		}
	}
	return out, nil
}

func (s *CondominiumService) invalidateDashboard(ctx context.Context, id uuid.UUID) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Del(ctx, dashboardKey(id)).Err(); err != nil {
		s.log.Warn().Err(err).Msg("dashboard cache invalidate failed")
	}
}

// removeObject: best-effort, error hanya di-log.
func (s *CondominiumService) removeObject(ctx context.Context, key string) {
	if s.Store == nil || key == "" {
		return
	}
	if err := s.Store.Remove(ctx, key); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("object cleanup failed")
	}
}

/* ===================== helpers ===================== */

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func lowerPtr(s *string) *string {
	t := trimPtr(s)
	if t == nil {
		return nil
	}
	l := strings.ToLower(*t)
	return &l
}

// setPtr: hanya mengubah bila field dikirim; string kosong menghapus nilai.
func setPtr(dst **string, v *string) {
	if v == nil {
		return
	}
	*dst = trimPtr(v)
}
