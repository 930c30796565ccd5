package service

import (
	"context"
	"crypto/tls"
	"fmt"
	"html"
	"net"
	"net/smtp"
	"os"
	"strings"
	"time"

	"clinic-booking/config"

	"github.com/sirupsen/logrus"
)

const verificationSubject = "Doctor Appointment System - Email Verification"

// Mailer delivers verification codes.
type Mailer interface {
	SendVerificationCode(ctx context.Context, to, username, code string) error
}

// SMTPMailer submits mail over SMTP with STARTTLS and PLAIN auth.
type SMTPMailer struct {
	cfg     config.EmailConfig
	expiry  time.Duration
	timeout time.Duration
}

func NewSMTPMailer(cfg config.EmailConfig, expiry time.Duration) *SMTPMailer {
	return &SMTPMailer{
		cfg:     cfg,
		expiry:  expiry,
		timeout: 30 * time.Second,
	}
}

func (m *SMTPMailer) SendVerificationCode(ctx context.Context, to, username, code string) error {
	return m.send(ctx, to, m.buildMessage(to, username, code))
}

func (m *SMTPMailer) buildMessage(to, username, code string) string {
	var msg strings.Builder

	msg.WriteString(fmt.Sprintf("From: Doctor Appointment System <%s>\r\n", m.cfg.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", verificationSubject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")

	name := username
	if name == "" {
		name = "User"
	}
	msg.WriteString("<html><body>")
	msg.WriteString(fmt.Sprintf("<p>Dear %s,</p>", html.EscapeString(name)))
	msg.WriteString("<p>Thank you for registering with Doctor Appointment System.</p>")
	msg.WriteString(fmt.Sprintf("<p>Your verification code is: <strong>%s</strong></p>", html.EscapeString(code)))
	msg.WriteString(fmt.Sprintf("<p>This code will expire in %d minutes.</p>", int(m.expiry.Minutes())))
	msg.WriteString("<p>If you did not request this verification, please ignore this email.</p>")
	msg.WriteString("<p>Regards,<br>Doctor Appointment System Team</p>")
	msg.WriteString("</body></html>\r\n")

	return msg.String()
}

func (m *SMTPMailer) send(ctx context.Context, to, msg string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	dialer := &net.Dialer{Timeout: m.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	tlsConfig := &tls.Config{
		ServerName: m.cfg.Host,
		MinVersion: tls.VersionTLS12,
	}
	if err := client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}

	if err := client.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to start message: %w", err)
	}
	if _, err := writer.Write([]byte(msg)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close message: %w", err)
	}

	// The message is accepted once Data closes; a failed QUIT changes nothing.
	_ = client.Quit()
	return nil
}

// FallbackMailer tries primary and, when it is missing or fails, logs the
// code and writes it to a local file so registration can still complete.
type FallbackMailer struct {
	primary  Mailer
	log      *logrus.Logger
	filePath string
}

// NewFallbackMailer accepts a nil primary, meaning SMTP is not configured.
func NewFallbackMailer(primary Mailer, log *logrus.Logger, filePath string) *FallbackMailer {
	return &FallbackMailer{
		primary:  primary,
		log:      log,
		filePath: filePath,
	}
}

func (m *FallbackMailer) SendVerificationCode(ctx context.Context, to, username, code string) error {
	if m.primary != nil {
		err := m.primary.SendVerificationCode(ctx, to, username, code)
		if err == nil {
			return nil
		}
		m.log.Warnf("Failed to send verification email, falling back to %s: %+v", m.filePath, err)
	}

	m.log.WithFields(logrus.Fields{
		"email": to,
		"code":  code,
	}).Warn("Verification code not emailed")

	content := fmt.Sprintf("Email: %s\nCode: %s\n", to, code)
	if err := os.WriteFile(m.filePath, []byte(content), 0o600); err != nil {
		m.log.Warnf("Failed to write verification code file: %+v", err)
		return err
	}
	return nil
}

// NewMailer picks the delivery chain for cfg.
func NewMailer(cfg *config.Config, log *logrus.Logger) Mailer {
	var primary Mailer
	if cfg.Email.Configured() {
		primary = NewSMTPMailer(cfg.Email, cfg.OTP.Expiry)
	}
	return NewFallbackMailer(primary, log, cfg.OTP.FilePath)
}
