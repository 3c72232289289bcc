package invoice

import (
	"fmt"

	"github.com/jhonidlcb/softwarepar/internal/domain/billing"
	"github.com/jhonidlcb/softwarepar/pkg/money"
)

// BuildResimple assembles the simplified tax receipt (Boleta RESIMPLE,
// SET Paraguay): denser single page with logo header, two-column
// company/client blocks, one service line, totals box, payment summary
// and a verification-code footer.
func BuildResimple(d Data) []Block {
	const (
		left         = 35.0
		right        = pageWidth - 35.0
		contentWidth = right - left
	)

	usd := money.FormatUSD(d.AmountUSD)
	pyg := money.FormatGs(d.AmountPYG)
	rateGs := money.FormatGs(d.Rate.Round(0).IntPart())
	colWidth := (contentWidth - 20) / 2

	blocks := []Block{
		Image{
			Path: d.LogoPath, X: left, Y: 35, W: 150,
			Fallback: Label{X: left, Y: 35, Size: 18, Color: RGB{30, 58, 138}, Bold: true, Text: "SoftwarePar"},
		},
		Label{X: pageWidth - 220, Y: 35, Size: 11, Color: colorSlate, Bold: true, Width: 185, Align: "R", Text: "BOLETA RESIMPLE"},
		Label{X: pageWidth - 220, Y: 49, Size: 8, Color: colorMuted, Width: 185, Align: "R", Text: "Régimen RESIMPLE - SET Paraguay"},
		Label{X: pageWidth - 220, Y: 61, Size: 9, Color: colorDim, Bold: true, Width: 185, Align: "R", Text: d.ProjectName},

		Rule{X1: left, Y1: 85, X2: right, Y2: 85, Color: colorLineHard},

		Label{X: left, Y: 100, Size: 9, Color: colorSlate, Text: "N° Boleta: " + d.InvoiceNumber},
		Label{X: left + 180, Y: 100, Size: 9, Color: colorSlate, Text: "Fecha: " + d.IssueDate},
		Label{X: left + 350, Y: 100, Size: 9, Color: colorSlate, Text: fmt.Sprintf("Etapa: %d de %d", d.StageNumber, d.TotalStages)},

		Rule{X1: left, Y1: 120, X2: right, Y2: 120, Color: colorLineSoft},
	}

	// Company column.
	y := 135.0
	blocks = append(blocks, Label{X: left, Y: y, Size: 10, Color: colorSlate, Bold: true, Text: "DATOS DE LA EMPRESA:"})
	companyLines := []string{
		"Titular: " + d.company(func(c companyInfo) string {
			if c.TitularName != "" {
				return c.TitularName
			}
			return c.CompanyName
		}, defaultTitular),
		"RUC: " + d.company(func(c companyInfo) string { return c.RUC }, defaultRUC),
		"Tel: " + d.company(func(c companyInfo) string { return c.Phone }, defaultPhone),
		"Email: " + d.company(func(c companyInfo) string { return c.Email }, defaultEmail),
		"Dirección: " + d.company(func(c companyInfo) string { return c.Address }, defaultAddress),
		fmt.Sprintf("Ciudad: %s, %s",
			d.company(func(c companyInfo) string { return c.City }, defaultCity),
			d.company(func(c companyInfo) string { return c.Country }, defaultCountry)),
		"Actividad: " + d.company(func(c companyInfo) string { return c.EconomicActivity }, defaultActivity),
	}
	ly := y + 14
	for _, line := range companyLines {
		blocks = append(blocks, Label{X: left, Y: ly, Size: 8, Color: colorDim, Width: colWidth - 5, Text: line})
		ly += 12
	}

	// Client column: field labels vary by client type.
	colX := left + colWidth + 20
	blocks = append(blocks, Label{X: colX, Y: y, Size: 10, Color: colorSlate, Bold: true, Text: "DATOS DEL CLIENTE:"})
	cy := y + 14
	for _, line := range clientLines(d) {
		blocks = append(blocks, Label{X: colX, Y: cy, Size: 8, Color: colorDim, Width: colWidth - 5, Text: line})
		cy += 12
	}

	y += 95
	blocks = append(blocks, Rule{X1: left, Y1: y, X2: right, Y2: y, Color: colorLineSoft})
	y += 15

	// Service line table: header row plus one multi-line body row.
	blocks = append(blocks,
		Box{X: left, Y: y, W: contentWidth, H: 22, Fill: &colorHeadFill, Stroke: &colorLineHard},
		Label{X: left + 10, Y: y + 7, Size: 9, Color: colorSlate, Text: "CANT."},
		Label{X: left + 70, Y: y + 7, Size: 9, Color: colorSlate, Text: "DESCRIPCIÓN DEL SERVICIO"},
		Label{X: left + 370, Y: y + 7, Size: 9, Color: colorSlate, Text: "PRECIO UNIT."},
		Label{X: left + 465, Y: y + 7, Size: 9, Color: colorSlate, Text: "TOTAL"},
	)
	y += 22
	blocks = append(blocks,
		Box{X: left, Y: y, W: contentWidth, H: 40, Stroke: &colorLineHard},
		Label{X: left + 15, Y: y + 8, Size: 8, Color: colorBody, Text: "1"},
		Label{X: left + 70, Y: y + 5, Size: 8, Color: colorBody, Width: 280, Text: d.StageName},
		Label{X: left + 70, Y: y + 16, Size: 8, Color: colorBody, Width: 280, Text: "Proyecto: " + d.ProjectName},
		Label{X: left + 70, Y: y + 27, Size: 8, Color: colorBody, Text: fmt.Sprintf("Tipo de cambio: 1 USD = PYG %s", rateGs)},
		Label{X: left + 370, Y: y + 8, Size: 8, Color: colorBody, Text: usd + " USD"},
		Label{X: left + 370, Y: y + 20, Size: 8, Color: colorBody, Text: "PYG " + pyg},
		Label{X: left + 465, Y: y + 8, Size: 8, Color: colorBody, Text: usd + " USD"},
		Label{X: left + 465, Y: y + 20, Size: 8, Color: colorBody, Text: "PYG " + pyg},
	)
	y += 50

	// Totals, dark total band.
	const totalsW = 200.0
	totalsX := right - totalsW
	blocks = append(blocks,
		Box{X: totalsX, Y: y, W: totalsW, H: 85, Fill: &colorPanel, Stroke: &colorLineHard},
		Label{X: totalsX + 12, Y: y + 8, Size: 8, Color: colorDim, Text: "Subtotal USD:"},
		Label{X: totalsX + 130, Y: y + 8, Size: 8, Color: colorDim, Text: usd},
		Label{X: totalsX + 12, Y: y + 20, Size: 8, Color: colorDim, Text: "Subtotal PYG:"},
		Label{X: totalsX + 110, Y: y + 20, Size: 8, Color: colorDim, Text: "PYG " + pyg},
		Label{X: totalsX + 12, Y: y + 32, Size: 8, Color: colorDim, Text: "IVA (Exento):"},
		Label{X: totalsX + 130, Y: y + 32, Size: 8, Color: colorDim, Text: "0.00%"},
		Band{X: totalsX, Y: y + 44, W: totalsW, H: 41, Fill: colorSlate},
		Label{X: totalsX + 12, Y: y + 50, Size: 10, Color: colorWhite, Text: "TOTAL USD:"},
		Label{X: totalsX + 130, Y: y + 50, Size: 10, Color: colorWhite, Text: usd},
		Label{X: totalsX + 12, Y: y + 65, Size: 10, Color: colorWhite, Text: "TOTAL PYG:"},
		Label{X: totalsX + 110, Y: y + 65, Size: 10, Color: colorWhite, Text: "PYG " + pyg},
	)
	y += 95

	// Payment summary.
	blocks = append(blocks, Label{X: left, Y: y, Size: 10, Color: colorSlate, Bold: true, Text: "INFORMACIÓN DE PAGO:"})
	y += 14
	for _, line := range []string{
		"Método de pago: " + d.method(),
		"Estado: PAGADO",
		"Fecha de pago: " + d.paidDate(),
		fmt.Sprintf("Tipo de cambio: 1 USD = PYG %s", rateGs),
		"Monto en guaraníes: PYG " + pyg,
	} {
		blocks = append(blocks, Label{X: left, Y: y, Size: 8, Color: colorDim, Text: line})
		y += 12
	}
	y += 13
	blocks = append(blocks, Rule{X1: left, Y1: y, X2: right, Y2: y, Color: colorLineHard})
	y += 15

	// Footer: regime, legal note, verification code, thanks, signature.
	blocks = append(blocks,
		Label{X: left, Y: y, Size: 7, Color: colorMuted, Text: "Régimen Tributario: " + d.company(func(c companyInfo) string { return c.TaxRegime }, defaultTaxRegime)},
		Label{X: left, Y: y + 10, Size: 7, Color: colorMuted, Text: "Servicios digitales exentos de IVA según Ley 125/91"},
		Label{X: left, Y: y + 20, Size: 7, Color: colorMuted, Text: "Código de verificación: RES-" + d.InvoiceNumber},
		Label{X: left, Y: y + 40, Size: 10, Color: colorSlate, Width: contentWidth, Align: "C", Text: "¡Gracias por confiar en SoftwarePar!"},
		Rule{X1: pageWidth - 140, Y1: y + 65, X2: pageWidth - 40, Y2: y + 65, Color: colorSignature},
		Label{X: pageWidth - 135, Y: y + 70, Size: 7, Color: colorMuted, Text: "Firma Autorizada"},
	)

	return blocks
}

// clientLines renders the client column. Empresa clients show a Razón
// Social line; clients without filed tax data fall back to session
// identity as Consumidor Final.
func clientLines(d Data) []string {
	info := d.ClientInfo

	name := d.Client.FullName
	if info != nil && info.LegalName != "" {
		name = info.LegalName
	}
	nameLabel := "Nombre"
	clientType := billing.ClientTypeConsumidorFinal
	if info != nil {
		clientType = info.ClientType
		if clientType == billing.ClientTypeEmpresa {
			nameLabel = "Razón Social"
		}
	}

	lines := []string{
		fmt.Sprintf("%s: %s", nameLabel, name),
		"Tipo: " + billing.ClientTypeLabel(clientType),
	}

	if info != nil && info.DocumentType != "" && info.DocumentNumber != "" {
		lines = append(lines, fmt.Sprintf("%s: %s", info.DocumentType, info.DocumentNumber))
	} else {
		lines = append(lines, fmt.Sprintf("CI: %d", d.Client.ID))
	}

	email := d.Client.Email
	if info != nil && info.Email != "" {
		email = info.Email
	}
	lines = append(lines, "Email: "+email)

	if info != nil && info.Address != "" {
		city := info.City
		if city == "" {
			city = "No especificada"
		}
		lines = append(lines, "Dirección: "+info.Address, "Ciudad: "+city)
	} else {
		lines = append(lines, "Dirección: No especificada")
	}
	return lines
}
