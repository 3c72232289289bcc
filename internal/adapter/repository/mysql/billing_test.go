package mysql

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	billingDomain "github.com/jhonidlcb/softwarepar/internal/domain/billing"
)

func TestCompanyReplace_SoftSwitchKeepsHistory(t *testing.T) {
	db := openTestDB(t)
	repo := NewCompanyInfoRepository(db)
	ctx := context.Background()

	if err := repo.Replace(ctx, &billingDomain.CompanyBillingInfo{CompanyName: "SoftwarePar S.R.L.", RUC: "En proceso"}); err != nil {
		t.Fatalf("first Replace: %v", err)
	}
	if err := repo.Replace(ctx, &billingDomain.CompanyBillingInfo{CompanyName: "SoftwarePar S.R.L.", RUC: "80012345-6"}); err != nil {
		t.Fatalf("second Replace: %v", err)
	}

	got, err := repo.GetActive(ctx)
	if err != nil {
		t.Fatalf("GetActive: %v", err)
	}
	if got.RUC != "80012345-6" {
		t.Errorf("active row: %+v", got)
	}

	var total, active int64
	db.Model(&billingDomain.CompanyBillingInfo{}).Count(&total)
	db.Model(&billingDomain.CompanyBillingInfo{}).Where("is_active = ?", true).Count(&active)
	if total != 2 || active != 1 {
		t.Fatalf("total=%d active=%d (history must survive, one active)", total, active)
	}
}

func TestCompanyGetActive_Empty(t *testing.T) {
	repo := NewCompanyInfoRepository(openTestDB(t))
	_, err := repo.GetActive(context.Background())
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("err=%v", err)
	}
}

func TestClientInfoUpdate_OwnershipGuard(t *testing.T) {
	repo := NewClientInfoRepository(openTestDB(t))
	ctx := context.Background()

	info := &billingDomain.ClientBillingInfo{UserID: 42, LegalName: "Cliente Uno"}
	if err := repo.Create(ctx, info); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Another user must not be able to edit the row.
	_, err := repo.Update(ctx, info.ID, 43, map[string]any{"legal_name": "Impostor"})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("foreign update err=%v", err)
	}

	got, err := repo.Update(ctx, info.ID, 42, map[string]any{"legal_name": "Cliente Actualizado"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.LegalName != "Cliente Actualizado" {
		t.Errorf("row=%+v", got)
	}
}
