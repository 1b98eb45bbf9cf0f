package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	invoiceController "condominio_backend/internals/features/finance/invoices/controller"
	invoiceService "condominio_backend/internals/features/finance/invoices/service"
	helper "condominio_backend/internals/helpers"
)

// MidtransOpts: serverKey kosong → checkout online dimatikan.
type MidtransOpts struct {
	ServerKey  string
	Production bool
}

func newController(db *gorm.DB, clock helper.Clock, mt MidtransOpts) *invoiceController.InvoiceController {
	svc := invoiceService.NewInvoiceService(db, clock)
	var gw invoiceService.SnapGateway
	if mt.ServerKey != "" {
		gw = invoiceService.NewSnapClient(mt.ServerKey, mt.Production)
	}
	return invoiceController.NewInvoiceController(svc, invoiceService.NewCheckoutService(svc, gw, mt.ServerKey))
}

/*
Private routes (JWT). Contoh mount: InvoiceRoutes(app.Group("/api", authMw), db, clock, mt)
- /api/condominiums/:condominium_id/invoices ...
- /api/invoices/:id ...
- /api/payments/:id ...
*/
func InvoiceRoutes(r fiber.Router, db *gorm.DB, clock helper.Clock, mt MidtransOpts) {
	ctl := newController(db, clock, mt)

	// ====== per condominium ======
	byCondo := r.Group("/condominiums/:condominium_id/invoices")
	byCondo.Get("/", ctl.List)
	byCondo.Post("/", ctl.Create)
	byCondo.Post("/generate", ctl.Generate)
	byCondo.Get("/export", ctl.Export)

	// ====== per invoice ======
	inv := r.Group("/invoices")
	inv.Get("/:id", ctl.Get)
	inv.Patch("/:id", ctl.Update)
	inv.Delete("/:id", ctl.Delete)
	inv.Post("/:id/cancel", ctl.Cancel)
	inv.Post("/:id/payments", ctl.RecordPayment)
	inv.Post("/:id/checkout", ctl.StartCheckout)

	pay := r.Group("/payments")
	pay.Patch("/:id", ctl.UpdatePayment)
	pay.Delete("/:id", ctl.DeletePayment)
}

// InvoicePublicRoutes: webhook Midtrans (tanpa JWT, diverifikasi lewat signature).
func InvoicePublicRoutes(r fiber.Router, db *gorm.DB, clock helper.Clock, mt MidtransOpts) {
	ctl := newController(db, clock, mt)
	r.Post("/payments/midtrans/notification", ctl.MidtransWebhook)
}
