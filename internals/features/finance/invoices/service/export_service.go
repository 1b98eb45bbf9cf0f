package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	condoModel "condominio_backend/internals/features/condominiums/model"
	"condominio_backend/internals/features/finance/invoices/dto"
	"condominio_backend/internals/features/finance/invoices/model"
	helper "condominio_backend/internals/helpers"
)

var invoiceExportHeaders = []string{
	"Invoice", "Property", "Month", "Year", "Issue date", "Due date",
	"Base", "Additional", "Discounts", "Total", "Paid", "Pending", "Status", "Active",
}

// ExportInvoices menyusun workbook XLSX dari hasil filter list (tanpa paging).
func (s *InvoiceService) ExportInvoices(ctx context.Context, q dto.ListInvoiceQuery) (*excelize.File, error) {
	q.Offset, q.Limit = 0, 0
	rows, _, err := s.ListInvoices(ctx, q)
	if err != nil {
		return nil, err
	}

	propIDs := lo.Uniq(lo.Map(rows, func(inv model.Invoice, _ int) uuid.UUID { return inv.InvoicePropertyID }))
	var props []condoModel.Property
	if len(propIDs) > 0 {
		if err := s.DB.WithContext(ctx).
			Select("property_id, property_code").
			Where("property_id IN ?", propIDs).
			Find(&props).Error; err != nil {
			return nil, err
		}
	}
	codes := lo.SliceToMap(props, func(p condoModel.Property) (uuid.UUID, string) { return p.PropertyID, p.PropertyCode })

	data := make([][]any, 0, len(rows))
	for _, inv := range rows {
		data = append(data, []any{
			inv.InvoiceNumber,
			codes[inv.InvoicePropertyID],
			inv.InvoiceMonth,
			inv.InvoiceYear,
			inv.InvoiceIssueDate.Format("2006-01-02"),
			inv.InvoiceDueDate.Format("2006-01-02"),
			inv.InvoiceBaseAmount.InexactFloat64(),
			inv.InvoiceAdditionalCharges.InexactFloat64(),
			inv.InvoiceDiscounts.InexactFloat64(),
			inv.InvoiceTotalAmount.InexactFloat64(),
			inv.InvoicePaidAmount.InexactFloat64(),
			inv.InvoicePendingAmount.InexactFloat64(),
			string(inv.InvoiceStatus),
			inv.InvoiceIsActive,
		})
	}
	return helper.BuildSheet("Invoices", invoiceExportHeaders, data)
}

// FindInvoice: lookup ringan untuk guard akses di controller.
func (s *InvoiceService) FindInvoice(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var inv model.Invoice
	if err := s.DB.WithContext(ctx).First(&inv, "invoice_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("invoice not found")
		}
		return nil, err
	}
	return &inv, nil
}
