package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	accountingController "condominio_backend/internals/features/finance/accounting/controller"
	accountingService "condominio_backend/internals/features/finance/accounting/service"
	helper "condominio_backend/internals/helpers"
)

// AccountingRoutes: semua endpoint butuh CanAccessAccounting (dicek di handler).
func AccountingRoutes(r fiber.Router, db *gorm.DB, clock helper.Clock) {
	ctl := accountingController.NewAccountingController(accountingService.NewAccountingService(db, clock))

	byCondo := r.Group("/condominiums/:condominium_id/accounting")
	byCondo.Get("/transactions", ctl.ListTransactions)
	byCondo.Post("/transactions", ctl.CreateTransaction)
	byCondo.Get("/transactions/export", ctl.ExportTransactions)
	byCondo.Get("/summary", ctl.Summary)
	byCondo.Get("/budgets", ctl.ListBudgets)
	byCondo.Post("/budgets", ctl.CreateBudget)
	byCondo.Get("/budgets/execution", ctl.BudgetExecution)

	acc := r.Group("/accounting")
	acc.Patch("/transactions/:id", ctl.UpdateTransaction)
	acc.Delete("/transactions/:id", ctl.DeleteTransaction)
	acc.Patch("/budgets/:id", ctl.UpdateBudget)
	acc.Delete("/budgets/:id", ctl.DeleteBudget)
}
