package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	BillingMethodGlobal = "global"
	BillingMethodBlock  = "block"
	BillingMethodUnit   = "unit"

	DefaultDueDays = 15
)

type BillingTarget struct {
	PropertyID   uuid.UUID `gorm:"column:property_id"`
	PropertyCode string    `gorm:"column:property_code"`
}

type BillingPlan struct {
	ToCreate []BillingTarget
	Skipped  []uuid.UUID
}

// PlanBilling memisahkan target menjadi yang harus dibuat dan yang dilewati
// karena sudah punya invoice aktif di periode yang sama. Urutan target dipertahankan.
func PlanBilling(targets []BillingTarget, alreadyInvoiced []uuid.UUID) BillingPlan {
	existing := lo.SliceToMap(alreadyInvoiced, func(id uuid.UUID) (uuid.UUID, struct{}) {
		return id, struct{}{}
	})
	targets = lo.UniqBy(targets, func(t BillingTarget) uuid.UUID { return t.PropertyID })

	toCreate, skipped := lo.FilterReject(targets, func(t BillingTarget, _ int) bool {
		_, found := existing[t.PropertyID]
		return !found
	})
	return BillingPlan{
		ToCreate: toCreate,
		Skipped:  lo.Map(skipped, func(t BillingTarget, _ int) uuid.UUID { return t.PropertyID }),
	}
}

// BillingDates: issue = tanggal 1 bulan tsb, due = issue + dueDays.
func BillingDates(month, year, dueDays int) (issue, due time.Time) {
	issue = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return issue, issue.AddDate(0, 0, dueDays)
}
