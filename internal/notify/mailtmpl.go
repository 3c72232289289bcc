package notify

import (
	"fmt"
	"html/template"
	"strings"
)

// Email bodies mirror the transactional templates of the original
// platform: a colored heading, a detail card and a footer. They are
// deliberately simple inline-styled HTML for mail-client compatibility.

const mailLayout = `<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto">
<div style="background:#2563eb;color:#ffffff;padding:20px"><h2 style="margin:0">%s</h2></div>
<div style="padding:20px;background:#f8fafc">%s</div>
<div style="padding:12px 20px;color:#64748b;font-size:12px">SoftwarePar · softwarepar.lat@gmail.com</div>
</div>`

func renderMail(heading string, bodyLines []string) string {
	var b strings.Builder
	for _, line := range bodyLines {
		fmt.Fprintf(&b, "<p style=\"margin:6px 0\">%s</p>", template.HTMLEscapeString(line))
	}
	return fmt.Sprintf(mailLayout, template.HTMLEscapeString(heading), b.String())
}

// StageAvailableMail notifies a client that a payment stage became
// payable at creation time.
func StageAvailableMail(clientName, projectName, stageName, amountUSD string, percentage int) Mail {
	return Mail{
		Subject: fmt.Sprintf("Pago Disponible: %s - %s", projectName, stageName),
		HTML: renderMail("Pago Disponible", []string{
			fmt.Sprintf("Hola %s,", clientName),
			fmt.Sprintf("La etapa \"%s\" (%d%%) del proyecto \"%s\" ya está disponible para pago.", stageName, percentage, projectName),
			fmt.Sprintf("Monto: USD %s", amountUSD),
			"Podés enviar tu comprobante desde el panel de facturación.",
		}),
	}
}

// ProofSubmittedAdminMail alerts administrators that a client uploaded
// a payment proof that needs verification.
func ProofSubmittedAdminMail(clientName, projectName, stageName, amountUSD, method, attachmentInfo string) Mail {
	lines := []string{
		fmt.Sprintf("El cliente %s envió un comprobante de pago.", clientName),
		fmt.Sprintf("Proyecto: %s", projectName),
		fmt.Sprintf("Etapa: %s", stageName),
		fmt.Sprintf("Monto: USD %s", amountUSD),
		fmt.Sprintf("Método: %s", method),
	}
	if attachmentInfo != "" {
		lines = append(lines, attachmentInfo)
	}
	lines = append(lines, "Requiere verificación en el panel de administración.")
	return Mail{
		Subject: fmt.Sprintf("Comprobante de Pago Recibido: %s - %s", projectName, stageName),
		HTML:    renderMail("Comprobante de Pago Recibido", lines),
	}
}

// ProofSubmittedClientMail confirms to the client that their proof was
// received and is pending verification.
func ProofSubmittedClientMail(clientName, projectName, stageName, amountUSD, method string) Mail {
	return Mail{
		Subject: fmt.Sprintf("Comprobante Recibido: %s - %s", projectName, stageName),
		HTML: renderMail("Comprobante Recibido", []string{
			fmt.Sprintf("Hola %s,", clientName),
			fmt.Sprintf("Recibimos tu comprobante de pago para la etapa \"%s\" del proyecto \"%s\".", stageName, projectName),
			fmt.Sprintf("Monto: USD %s · Método: %s", amountUSD, method),
			"Tu pago está pendiente de verificación por nuestro equipo. Te notificaremos cuando sea aprobado.",
		}),
	}
}
