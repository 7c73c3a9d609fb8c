// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/sirupsen/logrus"

	"github.com/cvtravel/visa-backend/internal/config"
	"github.com/cvtravel/visa-backend/internal/i18n"
	"github.com/cvtravel/visa-backend/internal/models"
)

// ConfirmationEmail carries everything the bilingual confirmation message
// needs: reference, traveler or agency name, total amount and a status link.
type ConfirmationEmail struct {
	To        string
	Name      string
	Reference string
	Amount    float64
	Type      models.ApplicationType
	Lang      string
}

// Mailer dispatches the submission confirmation. Failures are non-fatal to
// the workflow: the caller logs them and moves on.
type Mailer interface {
	SendConfirmation(email ConfirmationEmail) error
}

type SMTPMailer struct {
	config *config.Config
}

func NewSMTPMailer(config *config.Config) *SMTPMailer {
	return &SMTPMailer{config: config}
}

func (m *SMTPMailer) SendConfirmation(email ConfirmationEmail) error {
	subject := i18n.T(email.Lang, i18n.KeyEmailConfirmationSubject)

	statusURL := fmt.Sprintf("%s/status?reference=%s", m.config.Frontend.BaseURL, email.Reference)
	body, err := renderConfirmationBody(email, statusURL)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return m.sendEmail(email.To, subject, body)
}

func (m *SMTPMailer) sendEmail(to, subject, body string) error {
	if m.config.Email.SMTPHost == "" {
		// Email not configured, just log
		logrus.WithFields(logrus.Fields{"to": to, "subject": subject}).Info("Email dispatch skipped, SMTP not configured")
		return nil
	}

	// Setup authentication
	auth := smtp.PlainAuth("", m.config.Email.SMTPUsername, m.config.Email.SMTPPassword, m.config.Email.SMTPHost)

	// Compose message
	msg := []byte(fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		m.config.Email.FromName, m.config.Email.FromEmail, to, subject, body))

	// Send email
	addr := fmt.Sprintf("%s:%s", m.config.Email.SMTPHost, m.config.Email.SMTPPort)
	return smtp.SendMail(addr, auth, m.config.Email.FromEmail, []string{to}, msg)
}

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
	<div style="background-color: #002B7F; padding: 20px; text-align: center;">
		<h1 style="color: #ffffff; margin: 0;">Cabo Verde Pre-Travel</h1>
	</div>
	<div style="padding: 40px 20px;">
		<h2 style="color: #002B7F;">{{if .IsEnglish}}Application Confirmation{{else}}Confirmação de Pedido{{end}}</h2>
		<p>{{if .IsEnglish}}Dear {{.Name}},{{else}}Prezado(a) {{.Name}},{{end}}</p>
		<p>
			{{if .IsEnglish}}Your {{.ServiceName}} application has been received successfully.{{else}}Seu pedido de {{.ServiceName}} foi recebido com sucesso.{{end}}
		</p>
		<div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px;">
			<p><strong>{{if .IsEnglish}}Reference Number:{{else}}Número de Referência:{{end}}</strong> {{.Reference}}</p>
			<p><strong>{{if .IsEnglish}}Amount:{{else}}Valor:{{end}}</strong> €{{.Amount}}</p>
			<p><strong>{{if .IsEnglish}}Status:{{else}}Estado:{{end}}</strong> {{.StatusLabel}}</p>
		</div>
		<p>
			{{if .IsEnglish}}Please complete the payment to proceed with your application. Once the payment is confirmed, we will process your request within 48 business hours.{{else}}Por favor, complete o pagamento para prosseguir com seu pedido. Após a confirmação do pagamento, processaremos sua solicitação em 48 horas úteis.{{end}}
		</p>
		<div style="text-align: center; margin-top: 30px;">
			<a href="{{.StatusURL}}" style="background-color: #002B7F; color: #ffffff; padding: 12px 24px; text-decoration: none; border-radius: 4px; display: inline-block;">
				{{if .IsEnglish}}Check Application Status{{else}}Verificar Status do Pedido{{end}}
			</a>
		</div>
	</div>
</body>
</html>`))

func renderConfirmationBody(email ConfirmationEmail, statusURL string) (string, error) {
	isEnglish := email.Lang != "pt"

	serviceName := "EASE assistance"
	if isEnglish {
		if email.Type == models.ApplicationTypeAgency {
			serviceName = "visa assistance"
		}
	} else {
		serviceName = "assistência EASE"
		if email.Type == models.ApplicationTypeAgency {
			serviceName = "assistência de visto"
		}
	}

	data := map[string]interface{}{
		"IsEnglish":   isEnglish,
		"Name":        email.Name,
		"Reference":   email.Reference,
		"Amount":      fmt.Sprintf("%.2f", email.Amount),
		"ServiceName": serviceName,
		"StatusLabel": i18n.T(email.Lang, i18n.KeyStatusPendingPayment),
		"StatusURL":   statusURL,
	}

	var buf bytes.Buffer
	if err := confirmationTemplate.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
