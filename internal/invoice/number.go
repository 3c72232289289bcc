package invoice

import (
	"fmt"
	"time"
)

// StandardNumber builds the invoice number printed on standard stage
// invoices: two-digit year plus the zero-padded project id. Repeated
// downloads of the same stage in the same year yield the same number.
func StandardNumber(now time.Time, projectID uint64) string {
	return fmt.Sprintf("%02d%04d", now.Year()%100, projectID)
}

// ResimpleNumber builds the RESIMPLE receipt number: full year,
// three-digit project id, two-digit stage ordinal.
func ResimpleNumber(now time.Time, projectID uint64, stageNumber int) string {
	return fmt.Sprintf("%d%03d%02d", now.Year(), projectID, stageNumber)
}

// StandardFilename is the attachment name for standard invoices.
func StandardFilename(number string, stageNumber int) string {
	return fmt.Sprintf("SoftwarePar_Factura_%s_Etapa_%d.pdf", number, stageNumber)
}

// ResimpleFilename is the attachment name for RESIMPLE receipts.
func ResimpleFilename(projectID uint64, stageNumber int) string {
	return fmt.Sprintf("SoftwarePar_Boleta_RESIMPLE_INV-STAGE-%d-%d.pdf", projectID, stageNumber)
}

// IssueDate formats a date the way es-PY locales render short dates
// (day/month/year without zero padding).
func IssueDate(now time.Time) string {
	return fmt.Sprintf("%d/%d/%d", now.Day(), int(now.Month()), now.Year())
}
