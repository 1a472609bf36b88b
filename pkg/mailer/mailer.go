package mailer

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/smtp"
	"net/textproto"

	"github.com/nvolkov/brewhub-backend/config"
	"github.com/nvolkov/brewhub-backend/pkg/logger"
)

// Mailer sends plain-text messages with optional attachments over SMTP
type Mailer struct {
	cfg *config.SMTPConfig
}

// Message is a single outbound email
type Message struct {
	To         string
	Subject    string
	Body       string
	Attachment []byte
	Filename   string
}

func New(cfg *config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// Send delivers the message through the configured SMTP relay
func (m *Mailer) Send(msg Message) error {
	logger.Debug("Sending email", map[string]interface{}{
		"to":             msg.To,
		"subject":        msg.Subject,
		"has_attachment": len(msg.Attachment) > 0,
	})

	payload, err := m.build(msg)
	if err != nil {
		return fmt.Errorf("failed to build email: %w", err)
	}

	addr := fmt.Sprintf("%s:%s", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.SenderEmail, m.cfg.SenderPassword, m.cfg.Host)

	if err := smtp.SendMail(addr, auth, m.cfg.SenderEmail, []string{msg.To}, payload); err != nil {
		logger.Error("Failed to send email", err, map[string]interface{}{
			"to": msg.To,
		})
		return err
	}

	logger.Info("Email sent", map[string]interface{}{
		"to":      msg.To,
		"subject": msg.Subject,
	})
	return nil
}

func (m *Mailer) build(msg Message) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", m.cfg.SenderEmail)
	fmt.Fprintf(&buf, "To: %s\r\n", msg.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%s\r\n\r\n", writer.Boundary())

	textHeader := textproto.MIMEHeader{}
	textHeader.Set("Content-Type", "text/plain; charset=utf-8")
	textPart, err := writer.CreatePart(textHeader)
	if err != nil {
		return nil, err
	}
	if _, err := textPart.Write([]byte(msg.Body)); err != nil {
		return nil, err
	}

	if len(msg.Attachment) > 0 && msg.Filename != "" {
		attHeader := textproto.MIMEHeader{}
		attHeader.Set("Content-Type", "application/octet-stream")
		attHeader.Set("Content-Transfer-Encoding", "base64")
		attHeader.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, msg.Filename))
		attPart, err := writer.CreatePart(attHeader)
		if err != nil {
			return nil, err
		}
		encoded := base64.StdEncoding.EncodeToString(msg.Attachment)
		if _, err := attPart.Write([]byte(encoded)); err != nil {
			return nil, err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
