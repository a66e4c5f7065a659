package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
	"time"

	"lasexta-backend/internal/config"
)

// Sender delivers the transactional emails the backend produces.
// Services depend on this interface so tests can substitute a fake.
type Sender interface {
	SendTicket(to, userName, ticketCode string, issuedAt time.Time, expiresAt *time.Time) error
	SendPasswordResetCode(to, code string, expiresAt time.Time) error
}

// SMTPSender sends email through a plain SMTP relay.
type SMTPSender struct {
	cfg  config.SMTPConfig
	auth smtp.Auth
}

// NewSMTPSender creates an SMTP-backed Sender
func NewSMTPSender(cfg config.SMTPConfig) (*SMTPSender, error) {
	if cfg.Host == "" || cfg.Port == "" {
		return nil, fmt.Errorf("SMTP host and port are required")
	}

	sender := &SMTPSender{cfg: cfg}
	if cfg.Username != "" && cfg.Password != "" {
		sender.auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return sender, nil
}

type ticketEmailData struct {
	UserName   string
	TicketCode string
	IssuedAt   string
	ExpiresAt  string
}

type resetEmailData struct {
	Code      string
	ExpiresAt string
}

// SendTicket emails a voucher code with its issue and expiry dates.
func (s *SMTPSender) SendTicket(to, userName, ticketCode string, issuedAt time.Time, expiresAt *time.Time) error {
	expires := "Sin vencimiento"
	if expiresAt != nil {
		expires = expiresAt.Format("02 Jan 2006")
	}

	body, err := render(ticketTemplate, ticketEmailData{
		UserName:   userName,
		TicketCode: ticketCode,
		IssuedAt:   issuedAt.Format("02 Jan 2006"),
		ExpiresAt:  expires,
	})
	if err != nil {
		return err
	}

	return s.send(to, "Tu ticket de bebida gratuita - La Sexta", body)
}

// SendPasswordResetCode emails a 6-digit recovery code.
func (s *SMTPSender) SendPasswordResetCode(to, code string, expiresAt time.Time) error {
	body, err := render(resetTemplate, resetEmailData{
		Code:      code,
		ExpiresAt: expiresAt.Format("15:04"),
	})
	if err != nil {
		return err
	}

	return s.send(to, "Código de recuperación - La Sexta", body)
}

func (s *SMTPSender) send(to, subject, htmlBody string) error {
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", s.cfg.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	addr := s.cfg.Host + ":" + s.cfg.Port
	if err := smtp.SendMail(addr, s.auth, s.cfg.Username, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func render(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render email template: %w", err)
	}
	return buf.String(), nil
}

var ticketTemplate = template.Must(template.New("ticket").Parse(`
<div style="background:#101015;padding:24px;font-family:Arial,Helvetica,sans-serif;color:#f3f3f3">
  <h1 style="color:#ffeb3b;">¡Hola {{.UserName}}!</h1>
  <p>Recibiste un nuevo ticket de cortesía para usar en el complejo.</p>
  <div style="margin:24px 0;padding:20px;border:1px solid rgba(255,255,255,0.1);border-radius:16px;background:#181825;text-align:center">
    <p style="font-size:14px;color:rgba(255,255,255,0.7)">Presentá este código al momento de canjear tu bebida:</p>
    <p style="font-size:26px;letter-spacing:4px;font-weight:bold;color:#ffffff;margin:16px 0;">{{.TicketCode}}</p>
    <p style="margin:4px 0;color:rgba(255,255,255,0.6)">Emitido: <strong>{{.IssuedAt}}</strong></p>
    <p style="margin:4px 0;color:rgba(255,255,255,0.6)">Vence: <strong>{{.ExpiresAt}}</strong></p>
    <p style="margin-top:16px;color:rgba(255,255,255,0.7)">Ticket válido por una bebida gratuita.</p>
  </div>
  <p>¡Te esperamos en la próxima fecha!</p>
  <p style="margin-top:24px;font-size:12px;color:rgba(255,255,255,0.4)">Si no solicitaste este ticket, avisá al equipo administrador.</p>
</div>
`))

var resetTemplate = template.Must(template.New("reset").Parse(`
<div style="background:#101015;padding:24px;font-family:Arial,Helvetica,sans-serif;color:#f3f3f3">
  <h1 style="color:#ffeb3b;">Recuperación de contraseña</h1>
  <p>Usá este código para restablecer tu contraseña:</p>
  <p style="font-size:26px;letter-spacing:4px;font-weight:bold;color:#ffffff;margin:16px 0;">{{.Code}}</p>
  <p>El código vence a las {{.ExpiresAt}} (15 minutos desde el pedido).</p>
  <p style="margin-top:24px;font-size:12px;color:rgba(255,255,255,0.4)">Si no pediste este código, ignorá este correo.</p>
</div>
`))
