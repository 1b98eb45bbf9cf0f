package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	condoModel "condominio_backend/internals/features/condominiums/model"
	"condominio_backend/internals/features/finance/invoices/dto"
	"condominio_backend/internals/features/finance/invoices/model"
	helper "condominio_backend/internals/helpers"
	"condominio_backend/internals/metrics"
)

const billingInsertBatch = 200

// =======================================================
// GENERATE BILLING (bulk, all-or-nothing)
// =======================================================

func (s *InvoiceService) GenerateBilling(ctx context.Context, condominiumID uuid.UUID, req dto.GenerateBillingRequest, actor *uuid.UUID) (*dto.BillingResult, error) {
	if req.Month < 1 || req.Month > 12 {
		return nil, helper.Validation("month must be between 1 and 12")
	}
	switch req.Method {
	case BillingMethodGlobal, BillingMethodBlock, BillingMethodUnit:
	default:
		return nil, helper.Validation("method must be 'global', 'block', or 'unit'")
	}
	if req.Method == BillingMethodBlock && (req.BlockID == nil || *req.BlockID == uuid.Nil) {
		return nil, helper.Validation("block_id is required when method is 'block'")
	}
	if req.Method == BillingMethodUnit && len(req.PropertyIDs) == 0 {
		return nil, helper.Validation("property_ids is required when method is 'unit'")
	}

	base := req.BaseAmount
	if base.IsNegative() {
		base = decimal.Zero
	}
	dueDays := DefaultDueDays
	if req.DueDays != nil {
		dueDays = *req.DueDays
	}

	result := &dto.BillingResult{Created: []model.Invoice{}, SkippedPropertyIDs: []uuid.UUID{}}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		targets, err := s.resolveTargets(tx, condominiumID, req)
		if err != nil {
			return err
		}
		if len(targets) == 0 {
			result.Message = "no properties to bill for the selected criteria"
			return nil
		}

		var existing []uuid.UUID
		if err := tx.Model(&model.Invoice{}).
			Where("invoice_condominium_id = ? AND invoice_month = ? AND invoice_year = ? AND invoice_is_active = ?",
				condominiumID, req.Month, req.Year, true).
			Pluck("invoice_property_id", &existing).Error; err != nil {
			return err
		}

		plan := PlanBilling(targets, existing)
		result.SkippedPropertyIDs = plan.Skipped
		if len(plan.ToCreate) == 0 {
			result.Message = billingMessage(0, len(plan.Skipped))
			return nil
		}

		numbers, err := assignInvoiceNumbers(tx, condominiumID, req.Month, req.Year,
			lo.Map(plan.ToCreate, func(t BillingTarget, _ int) string { return t.PropertyCode }))
		if err != nil {
			return err
		}

		issue, due := BillingDates(req.Month, req.Year, dueDays)
		invoices := make([]model.Invoice, 0, len(plan.ToCreate))
		for i, t := range plan.ToCreate {
			invoices = append(invoices, model.Invoice{
				InvoiceCondominiumID:     condominiumID,
				InvoicePropertyID:        t.PropertyID,
				InvoiceNumber:            numbers[i],
				InvoiceMonth:             req.Month,
				InvoiceYear:              req.Year,
				InvoiceIssueDate:         issue,
				InvoiceDueDate:           due,
				InvoiceBaseAmount:        base,
				InvoiceAdditionalCharges: decimal.Zero,
				InvoiceDiscounts:         decimal.Zero,
				InvoiceTotalAmount:       base,
				InvoicePaidAmount:        decimal.Zero,
				InvoicePendingAmount:     base,
				InvoiceStatus:            model.InvoiceStatusPending,
				InvoiceIsActive:          true,
				InvoiceCreatedBy:         actor,
			})
		}
		if err := tx.CreateInBatches(&invoices, billingInsertBatch).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return helper.Conflict("billing for %02d/%d changed concurrently, retry the request", req.Month, req.Year)
			}
			return err
		}

		result.Created = invoices
		result.Message = billingMessage(len(invoices), len(plan.Skipped))
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.InvoicesCreated.WithLabelValues(req.Method).Add(float64(len(result.Created)))
	s.log.Info().
		Str("condominium_id", condominiumID.String()).
		Str("method", req.Method).
		Int("created", len(result.Created)).
		Int("skipped", len(result.SkippedPropertyIDs)).
		Msgf("billing generated for %02d/%d", req.Month, req.Year)
	return result, nil
}

func (s *InvoiceService) resolveTargets(tx *gorm.DB, condominiumID uuid.UUID, req dto.GenerateBillingRequest) ([]BillingTarget, error) {
	q := tx.Model(&condoModel.Property{}).
		Select("property_id, property_code").
		Where("property_condominium_id = ?", condominiumID).
		Order("property_code ASC")

	switch req.Method {
	case BillingMethodBlock:
		var block condoModel.Block
		if err := tx.Where("block_id = ? AND block_condominium_id = ?", *req.BlockID, condominiumID).
			First(&block).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, helper.NotFound("block not found in this condominium")
			}
			return nil, err
		}
		q = q.Where("property_block_id = ?", block.BlockID)

	case BillingMethodUnit:
		ids := lo.Uniq(req.PropertyIDs)
		var found []BillingTarget
		if err := q.Where("property_id IN ?", ids).Scan(&found).Error; err != nil {
			return nil, err
		}
		foundIDs := lo.Map(found, func(t BillingTarget, _ int) uuid.UUID { return t.PropertyID })
		if missing := lo.Without(ids, foundIDs...); len(missing) > 0 {
			return nil, helper.Validation("some property_ids do not belong to this condominium").
				WithDetails(map[string]any{"property_ids": missing})
		}
		return found, nil
	}

	var targets []BillingTarget
	if err := q.Scan(&targets).Error; err != nil {
		return nil, err
	}
	return targets, nil
}

func billingMessage(created, skipped int) string {
	msg := fmt.Sprintf("%d invoice(s) generated.", created)
	if skipped > 0 {
		msg += fmt.Sprintf(" %d unit(s) skipped because they already had an invoice for this period.", skipped)
	}
	return msg
}
