package invoice

import (
	"fmt"

	"github.com/jhonidlcb/softwarepar/pkg/money"
)

// BuildStandard assembles the block list for the standard stage
// invoice: brand header band, company/date columns, Bill To banner,
// two-line item table padded to ten rows, totals box, stage summary
// and footer with signature line.
func BuildStandard(d Data) []Block {
	const (
		left         = 50.0
		contentWidth = pageWidth - 2*left
	)

	usd := fmt.Sprintf("$ %s USD", money.FormatUSD(d.AmountUSD))
	pyg := fmt.Sprintf("PYG %s", money.FormatGs(d.AmountPYG))
	rateGs := money.FormatGs(d.Rate.Round(0).IntPart())

	blocks := []Block{
		Band{X: 0, Y: 0, W: pageWidth, H: 100, Fill: colorBrand},
		Label{X: left, Y: 30, Size: 20, Color: colorWhite, Text: "SoftwarePar"},
		Label{X: left, Y: 55, Size: 12, Color: colorWhite, Text: "Desarrollo de Software Profesional"},
		Label{X: pageWidth - 200, Y: 25, Size: 36, Color: colorWhite, Bold: true, Text: "INVOICE"},

		Label{X: left, Y: 120, Size: 14, Color: colorInk, Text: d.company(func(c companyInfo) string { return c.CompanyName }, defaultCompanyName)},
		Label{X: left, Y: 140, Size: 10, Color: colorGray, Text: d.company(func(c companyInfo) string { return c.Address }, defaultAddress)},
		Label{X: left, Y: 152, Size: 10, Color: colorGray, Text: "Phone: " + d.company(func(c companyInfo) string { return c.Phone }, defaultPhone)},
		Label{X: left, Y: 164, Size: 10, Color: colorGray, Text: "Email: " + d.company(func(c companyInfo) string { return c.Email }, defaultEmail)},

		Label{X: 350, Y: 120, Size: 10, Color: colorBody, Text: "Date:"},
		Label{X: 350, Y: 135, Size: 10, Color: colorBody, Text: "Invoice #:"},
		Label{X: 350, Y: 150, Size: 10, Color: colorBody, Text: "Etapa de Pago:"},
		Label{X: 420, Y: 120, Size: 10, Color: colorInk, Text: d.IssueDate},
		Label{X: 420, Y: 135, Size: 10, Color: colorInk, Text: d.InvoiceNumber},
		Label{X: 420, Y: 150, Size: 10, Color: colorInk, Text: fmt.Sprintf("%d de %d", d.StageNumber, d.TotalStages)},

		Band{X: left, Y: 240, W: contentWidth, H: 25, Fill: colorBrand},
		Label{X: left + 10, Y: 247, Size: 12, Color: colorWhite, Text: "Bill To:"},
		Label{X: left + 10, Y: 275, Size: 11, Color: colorInk, Text: d.Client.FullName},
		Label{X: left + 10, Y: 290, Size: 11, Color: colorInk, Text: d.Client.Email},
		Label{X: left + 10, Y: 305, Size: 11, Color: colorInk, Text: fmt.Sprintf("Cliente ID: %06d  ·  Proyecto: %s", d.Client.ID, d.ProjectName)},

		Table{
			X: left, Y: 320, W: contentWidth,
			RowH: 30, HeaderH: 30,
			HeaderFill: colorBrand, HeaderText: colorWhite,
			AltFill: &colorRowAlt, Border: colorLine,
			ColOffsets: []float64{10, 80, 320, 420},
			HeaderSize: 11, RowSize: 10,
			Header: []string{"Quantity", "Description", "Unit price", "Amount"},
			Rows: [][]string{
				{"1", fmt.Sprintf("%s - Etapa %d de %d", d.StageName, d.StageNumber, d.TotalStages), usd, usd},
				{"", fmt.Sprintf("Equivalente en Guaraníes (1 USD = PYG %s)", rateGs), pyg, pyg},
			},
			PadTo: 10,
		},
	}

	// Totals box on the right, stage summary on the left.
	const totalsX, totalsW, totalsY = 350.0, 195.0, 655.0
	blocks = append(blocks,
		Box{X: totalsX, Y: totalsY, W: totalsW, H: 85, Fill: &colorPanel, Stroke: &colorLineHard},
		Label{X: totalsX + 12, Y: totalsY + 8, Size: 8, Color: colorDim, Text: "Subtotal USD:"},
		Label{X: totalsX + 130, Y: totalsY + 8, Size: 8, Color: colorDim, Text: money.FormatUSD(d.AmountUSD)},
		Label{X: totalsX + 12, Y: totalsY + 20, Size: 8, Color: colorDim, Text: "Subtotal PYG:"},
		Label{X: totalsX + 120, Y: totalsY + 20, Size: 8, Color: colorDim, Text: money.FormatGs(d.AmountPYG)},
		Label{X: totalsX + 12, Y: totalsY + 32, Size: 8, Color: colorDim, Text: "IVA (Exento):"},
		Label{X: totalsX + 130, Y: totalsY + 32, Size: 8, Color: colorDim, Text: "0.00%"},
		Band{X: totalsX, Y: totalsY + 44, W: totalsW, H: 41, Fill: colorBrand},
		Label{X: totalsX + 12, Y: totalsY + 50, Size: 10, Color: colorWhite, Text: "TOTAL USD:"},
		Label{X: totalsX + 130, Y: totalsY + 50, Size: 10, Color: colorWhite, Text: money.FormatUSD(d.AmountUSD)},
		Label{X: totalsX + 12, Y: totalsY + 65, Size: 10, Color: colorWhite, Text: "TOTAL PYG:"},
		Label{X: totalsX + 110, Y: totalsY + 65, Size: 10, Color: colorWhite, Text: money.FormatGs(d.AmountPYG)},

		Label{X: left, Y: totalsY, Size: 11, Color: colorInk, Text: "Información de la Etapa de Pago:"},
		Label{X: left, Y: totalsY + 18, Size: 9, Color: colorBody, Text: fmt.Sprintf("· Etapa %d de %d del proyecto", d.StageNumber, d.TotalStages)},
		Label{X: left, Y: totalsY + 31, Size: 9, Color: colorBody, Text: "· Estado: PAGADO"},
		Label{X: left, Y: totalsY + 44, Size: 9, Color: colorBody, Text: "· Método de pago: " + d.method()},
		Label{X: left, Y: totalsY + 57, Size: 9, Color: colorBody, Text: "· Fecha de pago: " + d.paidDate()},
		Label{X: left, Y: totalsY + 70, Size: 9, Color: colorBody, Text: fmt.Sprintf("· Tipo de cambio aplicado: 1 USD = PYG %s", rateGs)},

		Label{X: left, Y: 758, Size: 16, Color: colorBrand, Width: contentWidth, Align: "C", Text: "¡Gracias por confiar en SoftwarePar!"},
		Label{X: left, Y: 786, Size: 9, Color: colorGray, Width: contentWidth, Align: "C",
			Text: fmt.Sprintf("%s · RUC: %s · %s",
				d.company(func(c companyInfo) string { return c.CompanyName }, defaultCompanyName),
				d.company(func(c companyInfo) string { return c.RUC }, defaultRUC),
				d.company(func(c companyInfo) string { return c.Country }, defaultCountry))},
		Label{X: left, Y: 798, Size: 9, Color: colorGray, Width: contentWidth, Align: "C",
			Text: fmt.Sprintf("Email: %s · Tel: %s",
				d.company(func(c companyInfo) string { return c.Email }, defaultEmail),
				d.company(func(c companyInfo) string { return c.Phone }, defaultPhone))},

		Label{X: totalsX + 20, Y: 812, Size: 9, Color: colorGray, Text: "Firma Autorizada"},
		Rule{X1: totalsX + 20, Y1: 835, X2: totalsX + 120, Y2: 835, Color: colorInk},
	)

	return blocks
}
