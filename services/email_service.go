package services

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

// EmailService sends verification and password reset mail via SMTP. Delivery
// is best-effort from the caller's perspective: failures are logged by the
// call sites, never surfaced to the triggering request.
type EmailService struct {
	host     string
	port     int
	username string
	password string
	from     string
	appURL   string
}

// NewEmailService creates a new email service instance
func NewEmailService() *EmailService {
	port := 587
	if p := os.Getenv("SMTP_PORT"); p != "" {
		fmt.Sscanf(p, "%d", &port)
	}

	return &EmailService{
		host:     getEnvOrDefault("SMTP_HOST", "smtp.gmail.com"),
		port:     port,
		username: os.Getenv("SMTP_USERNAME"),
		password: os.Getenv("SMTP_PASSWORD"),
		from:     getEnvOrDefault("SMTP_FROM", "noreply@varsityrank.app"),
		appURL:   getEnvOrDefault("APP_URL", "http://localhost:3000"),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// IsConfigured checks if SMTP is properly configured
func (e *EmailService) IsConfigured() bool {
	return e.username != "" && e.password != ""
}

// SendVerificationEmail mails a verification link for the user's account
// email, or for a school email when school is true.
func (e *EmailService) SendVerificationEmail(toEmail, username, token string, school bool) error {
	if !e.IsConfigured() {
		log.Printf("SMTP not configured. Verification token for %s: %s", toEmail, token)
		return fmt.Errorf("SMTP not configured")
	}

	kind := ""
	if school {
		kind = "school "
	}
	verifyLink := fmt.Sprintf("%s/verify/%s", e.appURL, token)

	subject := "Email Verification - VarsityRank"
	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body>
    <h1>Email Verification</h1>
    <p>Hello %s,</p>
    <p>Please verify your %semail by clicking the following link:</p>
    <p><a href="%s">Verify Email</a></p>
    <p>This link will expire in 1 hour.</p>
</body>
</html>`, username, kind, verifyLink)

	return e.sendEmail(toEmail, subject, body)
}

// SendPasswordResetEmail mails a password reset link to the user.
func (e *EmailService) SendPasswordResetEmail(toEmail, username, token string) error {
	if !e.IsConfigured() {
		log.Printf("SMTP not configured. Reset token for %s: %s", toEmail, token)
		return fmt.Errorf("SMTP not configured")
	}

	resetLink := fmt.Sprintf("%s/reset/%s", e.appURL, token)

	subject := "Password Reset - VarsityRank"
	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body>
    <h1>Password Reset</h1>
    <p>Hello %s,</p>
    <p>You requested a password reset. Click the following link to reset your password:</p>
    <p><a href="%s">Reset Password</a></p>
    <p>This link will expire in 1 hour.</p>
</body>
</html>`, username, resetLink)

	return e.sendEmail(toEmail, subject, body)
}

// sendEmail sends an email using SMTP with TLS
func (e *EmailService) sendEmail(to, subject, htmlBody string) error {
	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("VarsityRank Team <%s>", e.from)
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	var message strings.Builder
	for k, v := range headers {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	message.WriteString("\r\n")
	message.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", e.host, e.port)
	auth := smtp.PlainAuth("", e.username, e.password, e.host)

	tlsConfig := &tls.Config{
		ServerName: e.host,
	}

	conn, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	if err := conn.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if err := conn.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}

	if err := conn.Mail(e.from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	if err := conn.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := conn.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}

	if _, err = w.Write([]byte(message.String())); err != nil {
		return fmt.Errorf("failed to write email body: %w", err)
	}

	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	conn.Quit()

	log.Printf("Email sent successfully to: %s", to)
	return nil
}
