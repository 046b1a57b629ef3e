package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"net/smtp"
	"strings"
	"sync"

	"github.com/projectdesk/projectdesk/internal/config"
)

// Mailer delivers a single message. Callers treat delivery as fire-and-forget.
type Mailer interface {
	Send(to, subject, html, text string) error
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text,omitempty"`
}

const resendEndpoint = "https://api.resend.com/emails"

type ResendMailer struct {
	From     string
	APIKey   string
	Endpoint string
	Client   *http.Client
}

func (m *ResendMailer) Send(to, subject, html, text string) error {
	body, err := json.Marshal(resendRequest{
		From:    m.From,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
		Text:    text,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	endpoint := m.Endpoint
	if endpoint == "" {
		endpoint = resendEndpoint
	}

	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.APIKey)

	client := m.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("email API returned status %d", resp.StatusCode)
	}

	return nil
}

type SMTPMailer struct {
	From string
	Host string
	Port string
	User string
	Pass string
}

func (m *SMTPMailer) Send(to, subject, html, text string) error {
	msg := "From: " + m.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n" +
		"\r\n" +
		html

	var auth smtp.Auth
	if m.User != "" {
		auth = smtp.PlainAuth("", m.User, m.Pass, m.Host)
	}

	if err := smtp.SendMail(m.Host+":"+m.Port, auth, m.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

// LogMailer writes messages to the log. Used when no provider is configured.
type LogMailer struct{}

func (LogMailer) Send(to, subject, _, text string) error {
	log.Printf("Email to %s (%s):\n%s", to, subject, text)
	return nil
}

var (
	mailerMu sync.RWMutex
	mailer   Mailer = LogMailer{}
)

// InitMailer selects the delivery provider from configuration.
func InitMailer(cfg config.EmailConfig) {
	switch {
	case cfg.SMTPEnabled:
		SetMailer(&SMTPMailer{From: cfg.FromEmail, Host: cfg.SMTPHost, Port: cfg.SMTPPort, User: cfg.SMTPUser, Pass: cfg.SMTPPass})
	case cfg.ResendAPIKey != "":
		SetMailer(&ResendMailer{From: cfg.FromEmail, APIKey: cfg.ResendAPIKey})
	default:
		log.Println("No email provider configured, emails will be logged")
		SetMailer(LogMailer{})
	}
}

// SetMailer replaces the active mailer and returns the previous one.
func SetMailer(m Mailer) Mailer {
	mailerMu.Lock()
	defer mailerMu.Unlock()

	prev := mailer
	mailer = m
	return prev
}

func currentMailer() Mailer {
	mailerMu.RLock()
	defer mailerMu.RUnlock()
	return mailer
}

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html lang="en">
<body style="font-family: 'Segoe UI', sans-serif; background-color: #f4f6f9; padding: 20px;">
  <div style="max-width: 600px; margin: auto; background-color: #ffffff; padding: 30px; border-radius: 8px;">
    <h1 style="color: #2c3e50; text-align: center;">Welcome to ProjectDesk</h1>
    <p>Hi <strong>{{.Username}}</strong>,</p>
    <p>Your account has been created.</p>
    <div style="background-color: #f0f0f0; padding: 15px; border-radius: 6px; font-family: monospace;">
      <p><strong>Username:</strong> {{.Username}}</p>
      <p><strong>Password:</strong> {{.Password}}</p>
    </div>
    <p>Use the link below to choose your own password:</p>
    <p><a href="{{.ResetURL}}">{{.ResetURL}}</a></p>
    <p>If you did not expect this account, please ignore this email.</p>
  </div>
</body>
</html>`))

type welcomeData struct {
	Username string
	Password string
	ResetURL string
}

// SendWelcomeEmail sends the initial credentials and the password reset link.
func SendWelcomeEmail(to, username, password, resetURL string) error {
	var html strings.Builder
	if err := welcomeTemplate.Execute(&html, welcomeData{Username: username, Password: password, ResetURL: resetURL}); err != nil {
		return fmt.Errorf("render welcome email: %w", err)
	}

	text := fmt.Sprintf("Welcome %s, your account has been created.\nUsername: %s\nPassword: %s\nSet your own password: %s",
		username, username, password, resetURL)

	return currentMailer().Send(to, "Welcome to ProjectDesk", html.String(), text)
}
