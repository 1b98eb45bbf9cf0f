package details

import (
	"github.com/gofiber/fiber/v2"

	accountingRoute "condominio_backend/internals/features/finance/accounting/route"
	invoiceRoute "condominio_backend/internals/features/finance/invoices/route"
)

func midtransOpts(d Deps) invoiceRoute.MidtransOpts {
	return invoiceRoute.MidtransOpts{
		ServerKey:  d.Cfg.MidtransServerKey,
		Production: d.Cfg.MidtransProduction,
	}
}

// FinancePublicRoutes: webhook gateway pembayaran.
func FinancePublicRoutes(api fiber.Router, d Deps) {
	invoiceRoute.InvoicePublicRoutes(api, d.DB, d.Clock, midtransOpts(d))
}

func FinanceRoutes(private fiber.Router, d Deps) {
	invoiceRoute.InvoiceRoutes(private, d.DB, d.Clock, midtransOpts(d))
	accountingRoute.AccountingRoutes(private, d.DB, d.Clock)
}
