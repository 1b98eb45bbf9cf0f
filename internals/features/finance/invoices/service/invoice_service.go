// file: internals/features/finance/invoices/service/invoice_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"condominio_backend/internals/configs"
	condoModel "condominio_backend/internals/features/condominiums/model"
	"condominio_backend/internals/features/finance/invoices/dto"
	"condominio_backend/internals/features/finance/invoices/model"
	helper "condominio_backend/internals/helpers"
	"condominio_backend/internals/metrics"
)

type InvoiceService struct {
	DB    *gorm.DB
	Clock helper.Clock
	log   zerolog.Logger
}

func NewInvoiceService(db *gorm.DB, clock helper.Clock) *InvoiceService {
	if clock == nil {
		clock = helper.SystemClock{}
	}
	return &InvoiceService{DB: db, Clock: clock, log: configs.WithComponent("invoices")}
}

// =======================================================
// READ (lazy overdue promotion)
// =======================================================

func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*dto.InvoiceDetail, error) {
	var inv model.Invoice
	if err := s.DB.WithContext(ctx).First(&inv, "invoice_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("invoice not found")
		}
		return nil, err
	}

	refreshed, err := s.refreshStatuses(ctx, []model.Invoice{inv})
	if err != nil {
		return nil, err
	}

	var payments []model.Payment
	if err := s.DB.WithContext(ctx).
		Where("payment_invoice_id = ?", id).
		Order("payment_date ASC, payment_created_at ASC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return &dto.InvoiceDetail{Invoice: refreshed[0], Payments: payments}, nil
}

func (s *InvoiceService) ListInvoices(ctx context.Context, q dto.ListInvoiceQuery) ([]model.Invoice, int64, error) {
	tx := s.DB.WithContext(ctx).Model(&model.Invoice{}).
		Where("invoice_condominium_id = ?", q.CondominiumID)

	if q.PropertyID != nil {
		tx = tx.Where("invoice_property_id = ?", *q.PropertyID)
	}
	if q.Month != nil {
		tx = tx.Where("invoice_month = ?", *q.Month)
	}
	if q.Year != nil {
		tx = tx.Where("invoice_year = ?", *q.Year)
	}
	if q.IsActive != nil {
		tx = tx.Where("invoice_is_active = ?", *q.IsActive)
	}

	// Filter status "overdue" harus melihat status turunan, jadi refresh dulu
	// baris yang masih pending/partial di periode ini sebelum difilter.
	if q.Status != nil && *q.Status == model.InvoiceStatusOverdue {
		if err := s.promoteOverdue(ctx, q.CondominiumID); err != nil {
			return nil, 0, err
		}
	}
	if q.Status != nil {
		tx = tx.Where("invoice_status = ?", *q.Status)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.Invoice
	list := tx.Order("invoice_year DESC, invoice_month DESC, invoice_number ASC")
	if q.Limit > 0 {
		list = list.Offset(q.Offset).Limit(q.Limit)
	}
	if err := list.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	rows, err := s.refreshStatuses(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// refreshStatuses menjalankan DeriveStatus dan hanya menyimpan baris yang berubah.
func (s *InvoiceService) refreshStatuses(ctx context.Context, rows []model.Invoice) ([]model.Invoice, error) {
	now := s.Clock.Now()
	out := make([]model.Invoice, 0, len(rows))
	for _, inv := range rows {
		derived := DeriveStatus(inv, now)
		if statusChanged(inv, derived) {
			if err := persistDerived(s.DB.WithContext(ctx), derived); err != nil {
				return nil, err
			}
		}
		out = append(out, derived)
	}
	return out, nil
}

func (s *InvoiceService) promoteOverdue(ctx context.Context, condominiumID uuid.UUID) error {
	var stale []model.Invoice
	today := helper.DateOnly(s.Clock.Now())
	if err := s.DB.WithContext(ctx).
		Where("invoice_condominium_id = ? AND invoice_is_active = ?", condominiumID, true).
		Where("invoice_status IN ?", []model.InvoiceStatus{model.InvoiceStatusPending, model.InvoiceStatusPartial}).
		Where("invoice_due_date < ?", today).
		Find(&stale).Error; err != nil {
		return err
	}
	_, err := s.refreshStatuses(ctx, stale)
	return err
}

func persistDerived(tx *gorm.DB, inv model.Invoice) error {
	return tx.Model(&model.Invoice{}).
		Where("invoice_id = ?", inv.InvoiceID).
		Updates(map[string]any{
			"invoice_paid_amount":    inv.InvoicePaidAmount,
			"invoice_pending_amount": inv.InvoicePendingAmount,
			"invoice_status":         inv.InvoiceStatus,
		}).Error
}

// =======================================================
// CREATE (single)
// =======================================================

func (s *InvoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, actor *uuid.UUID) (*model.Invoice, error) {
	if req.Month < 1 || req.Month > 12 {
		return nil, helper.Validation("month must be between 1 and 12")
	}
	// base_amount negatif di-clamp ke 0, sama dengan bulk generation
	if req.BaseAmount.IsNegative() {
		req.BaseAmount = decimal.Zero
	}
	additional := decimalOrZero(req.AdditionalCharges)
	discounts := decimalOrZero(req.Discounts)
	if additional.IsNegative() || discounts.IsNegative() {
		return nil, helper.Validation("additional charges and discounts must not be negative")
	}

	var created model.Invoice
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prop condoModel.Property
		if err := tx.Where("property_id = ? AND property_condominium_id = ?", req.PropertyID, req.CondominiumID).
			First(&prop).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.NotFound("property not found in this condominium")
			}
			return err
		}

		var dup int64
		if err := tx.Model(&model.Invoice{}).
			Where("invoice_property_id = ? AND invoice_month = ? AND invoice_year = ? AND invoice_is_active = ?",
				req.PropertyID, req.Month, req.Year, true).
			Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return helper.Validation("an active invoice already exists for this property in %02d/%d", req.Month, req.Year)
		}

		issue := helper.DateOnly(s.Clock.Now())
		if req.IssueDate != nil {
			issue = helper.DateOnly(*req.IssueDate)
		}
		total := ComputeTotal(req.BaseAmount, additional, discounts)

		inv := model.Invoice{
			InvoiceCondominiumID:     req.CondominiumID,
			InvoicePropertyID:        req.PropertyID,
			InvoiceMonth:             req.Month,
			InvoiceYear:              req.Year,
			InvoiceIssueDate:         issue,
			InvoiceDueDate:           helper.DateOnly(req.DueDate),
			InvoiceBaseAmount:        req.BaseAmount,
			InvoiceAdditionalCharges: additional,
			InvoiceDiscounts:         discounts,
			InvoiceTotalAmount:       total,
			InvoicePaidAmount:        decimal.Zero,
			InvoicePendingAmount:     total,
			InvoiceStatus:            model.InvoiceStatusPending,
			InvoiceIsActive:          true,
			InvoiceNotes:             trimPtr(req.Notes),
			InvoiceCreatedBy:         actor,
		}
		numbers, err := assignInvoiceNumbers(tx, req.CondominiumID, req.Month, req.Year, []string{prop.PropertyCode})
		if err != nil {
			return err
		}
		inv.InvoiceNumber = numbers[0]
		inv = DeriveStatus(inv, s.Clock.Now())

		if err := tx.Create(&inv).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return helper.Validation("an active invoice already exists for this property in %02d/%d", req.Month, req.Year)
			}
			return err
		}
		created = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.InvoicesCreated.WithLabelValues("single").Inc()
	return &created, nil
}

// assignInvoiceNumbers membuat nomor invoice; bila nomor dasar sudah dipakai
// (mis. invoice lama yang sudah dinonaktifkan) ditambah akhiran -R{n}.
func assignInvoiceNumbers(tx *gorm.DB, condominiumID uuid.UUID, month, year int, codes []string) ([]string, error) {
	prefix := GenerateInvoiceNumber(condominiumID, month, year, "")
	var used []string
	if err := tx.Model(&model.Invoice{}).
		Where("invoice_number LIKE ?", prefix+"%").
		Pluck("invoice_number", &used).Error; err != nil {
		return nil, err
	}
	taken := make(map[string]struct{}, len(used))
	for _, n := range used {
		taken[n] = struct{}{}
	}

	out := make([]string, 0, len(codes))
	for _, code := range codes {
		base := GenerateInvoiceNumber(condominiumID, month, year, code)
		candidate := base
		for i := 2; ; i++ {
			if _, dup := taken[candidate]; !dup {
				break
			}
			candidate = fmt.Sprintf("%s-R%d", base, i)
		}
		taken[candidate] = struct{}{}
		out = append(out, candidate)
	}
	return out, nil
}

// =======================================================
// UPDATE / CANCEL / DELETE
// =======================================================

func (s *InvoiceService) UpdateInvoice(ctx context.Context, id uuid.UUID, req dto.UpdateInvoiceRequest) (*model.Invoice, error) {
	var out model.Invoice
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv, err := lockInvoice(tx, id)
		if err != nil {
			return err
		}
		switch inv.InvoiceStatus {
		case model.InvoiceStatusPaid:
			return helper.Validation("a paid invoice cannot be modified")
		case model.InvoiceStatusCancelled:
			return helper.Validation("a cancelled invoice cannot be modified")
		}
		if !inv.InvoiceIsActive {
			return helper.Validation("an inactive invoice cannot be modified")
		}

		if req.BaseAmount != nil {
			inv.InvoiceBaseAmount = *req.BaseAmount
			if inv.InvoiceBaseAmount.IsNegative() {
				inv.InvoiceBaseAmount = decimal.Zero
			}
		}
		if req.AdditionalCharges != nil {
			inv.InvoiceAdditionalCharges = *req.AdditionalCharges
		}
		if req.Discounts != nil {
			inv.InvoiceDiscounts = *req.Discounts
		}
		if inv.InvoiceAdditionalCharges.IsNegative() || inv.InvoiceDiscounts.IsNegative() {
			return helper.Validation("additional charges and discounts must not be negative")
		}
		if req.DueDate != nil {
			inv.InvoiceDueDate = helper.DateOnly(*req.DueDate)
		}
		if req.Notes != nil {
			inv.InvoiceNotes = trimPtr(req.Notes)
		}

		total := ComputeTotal(inv.InvoiceBaseAmount, inv.InvoiceAdditionalCharges, inv.InvoiceDiscounts)
		if inv.InvoicePaidAmount.GreaterThan(total) {
			return helper.Validation("new total %s is below the amount already paid (%s)", total.StringFixed(2), inv.InvoicePaidAmount.StringFixed(2))
		}
		inv.InvoiceTotalAmount = total
		inv = DeriveStatus(inv, s.Clock.Now())

		if err := tx.Model(&model.Invoice{}).Where("invoice_id = ?", inv.InvoiceID).Updates(map[string]any{
			"invoice_base_amount":        inv.InvoiceBaseAmount,
			"invoice_additional_charges": inv.InvoiceAdditionalCharges,
			"invoice_discounts":          inv.InvoiceDiscounts,
			"invoice_total_amount":       inv.InvoiceTotalAmount,
			"invoice_pending_amount":     inv.InvoicePendingAmount,
			"invoice_status":             inv.InvoiceStatus,
			"invoice_due_date":           inv.InvoiceDueDate,
			"invoice_notes":              inv.InvoiceNotes,
		}).Error; err != nil {
			return err
		}
		out = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelInvoice: status manual CANCELLED; invoice lunas tidak bisa dibatalkan.
func (s *InvoiceService) CancelInvoice(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var out model.Invoice
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv, err := lockInvoice(tx, id)
		if err != nil {
			return err
		}
		if inv.InvoiceStatus == model.InvoiceStatusCancelled {
			out = inv
			return nil
		}
		if inv.InvoiceStatus == model.InvoiceStatusPaid {
			return helper.Validation("a paid invoice cannot be cancelled")
		}
		inv.InvoiceStatus = model.InvoiceStatusCancelled
		inv.InvoiceIsActive = false
		if err := tx.Model(&model.Invoice{}).Where("invoice_id = ?", id).Updates(map[string]any{
			"invoice_status":    inv.InvoiceStatus,
			"invoice_is_active": false,
		}).Error; err != nil {
			return err
		}
		out = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteInvoice menonaktifkan invoice tanpa pembayaran.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv, err := lockInvoice(tx, id)
		if err != nil {
			return err
		}
		if inv.InvoicePaidAmount.GreaterThan(decimal.Zero) {
			return helper.Conflict("cannot delete an invoice with payments; cancel it instead")
		}
		return tx.Model(&model.Invoice{}).Where("invoice_id = ?", id).
			Update("invoice_is_active", false).Error
	})
}

func lockInvoice(tx *gorm.DB, id uuid.UUID) (model.Invoice, error) {
	var inv model.Invoice
	if err := helper.ForUpdate(tx).First(&inv, "invoice_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return inv, helper.NotFound("invoice not found")
		}
		return inv, err
	}
	return inv, nil
}

func decimalOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

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
