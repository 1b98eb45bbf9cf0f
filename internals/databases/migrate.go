package database

import (
	"fmt"

	"gorm.io/gorm"

	assemblyModel "condominio_backend/internals/features/assemblies/model"
	condoModel "condominio_backend/internals/features/condominiums/model"
	documentModel "condominio_backend/internals/features/documents/model"
	accountingModel "condominio_backend/internals/features/finance/accounting/model"
	invoiceModel "condominio_backend/internals/features/finance/invoices/model"
	meetingModel "condominio_backend/internals/features/meetings/model"
	notificationModel "condominio_backend/internals/features/notifications/model"
	spaceRequestModel "condominio_backend/internals/features/space_requests/model"
	authModel "condominio_backend/internals/features/users/auth/model"
	userModel "condominio_backend/internals/features/users/user/model"
)

// Models: urutan mengikuti dependensi (leaf dulu).
func Models() []any {
	return []any{
		&userModel.UserModel{},
		&userModel.RoleModel{},
		&userModel.UserRole{},
		&userModel.UserCondominium{},
		&authModel.TokenBlacklist{},

		&condoModel.Condominium{},
		&condoModel.Block{},
		&condoModel.Property{},
		&condoModel.Resident{},
		&condoModel.PropertyResident{},

		&invoiceModel.Invoice{},
		&invoiceModel.Payment{},
		&invoiceModel.InvoiceCheckout{},

		&accountingModel.AccountingTransaction{},
		&accountingModel.Budget{},

		&assemblyModel.Assembly{},
		&assemblyModel.AssemblyAttendance{},
		&assemblyModel.Vote{},
		&assemblyModel.VoteRecord{},

		&meetingModel.Meeting{},
		&meetingModel.MeetingAttendance{},

		&documentModel.Document{},
		&documentModel.DocumentAttachment{},
		&notificationModel.Notification{},
		&notificationModel.NotificationRead{},

		&spaceRequestModel.SpaceRequest{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
