package invoice

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhonidlcb/softwarepar/internal/domain/billing"
)

func sampleData() Data {
	paidAt := time.Date(2026, time.June, 9, 12, 0, 0, 0, time.UTC)
	return Data{
		InvoiceNumber: "260007",
		IssueDate:     "9/6/2026",
		ProjectName:   "Tienda Online",
		StageName:     "Anticipo",
		StageNumber:   1,
		TotalStages:   4,
		AmountUSD:     decimal.RequireFromString("500.00"),
		Rate:          decimal.RequireFromString("7300.00"),
		AmountPYG:     3650000,
		PaymentMethod: "Transferencia Bancaria",
		PaidAt:        &paidAt,
		Client:        Party{ID: 42, FullName: "Cliente Uno", Email: "cliente@example.com"},
	}
}

func TestRenderStandard(t *testing.T) {
	pdf, err := Render(BuildStandard(sampleData()))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("not a PDF (%d bytes)", len(pdf))
	}
}

func TestRenderResimple_MinimalData(t *testing.T) {
	// No client tax data, no company row, no logo: every fallback path.
	d := sampleData()
	d.InvoiceNumber = "202600701"
	pdf, err := Render(BuildResimple(d))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("not a PDF")
	}
}

func TestRenderResimple_CompanyAndClientInfo(t *testing.T) {
	d := sampleData()
	d.InvoiceNumber = "202600701"
	d.LogoPath = "testdata/missing-logo.png" // must fall back, not fail
	d.Company = &billing.CompanyBillingInfo{
		CompanyName: "SoftwarePar S.R.L.", RUC: "80012345-6",
		City: "Encarnación", Country: "Paraguay",
	}
	d.ClientInfo = &billing.ClientBillingInfo{
		ClientType: billing.ClientTypeEmpresa, LegalName: "ACME S.A.",
		DocumentType: "RUC", DocumentNumber: "80099999-1",
		Address: "Av. Irrazábal 123", City: "Encarnación", Country: "Paraguay",
	}
	pdf, err := Render(BuildResimple(d))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("not a PDF")
	}
}

func TestRenderStandard_AccentsSurviveEncoding(t *testing.T) {
	d := sampleData()
	d.StageName = "Diseño y Arquitectura"
	d.Client.FullName = "José Ávalos Núñez"
	if _, err := Render(BuildStandard(d)); err != nil {
		t.Fatalf("Render with accents: %v", err)
	}
}
