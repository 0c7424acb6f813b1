package email

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"net/smtp"

	"reel-predictor/internal/models"
	"reel-predictor/shared/config"
)

//go:embed email_template.html
var emailTemplate string

var tierColors = map[models.Tier]string{
	models.TierPositive: "#198754",
	models.TierCaution:  "#ffc107",
	models.TierNegative: "#dc3545",
	models.TierNeutral:  "#6c757d",
}

var reportTemplate = template.Must(template.New("email").Funcs(template.FuncMap{
	"tierColor": func(t models.Tier) string {
		if c, ok := tierColors[t]; ok {
			return c
		}
		return tierColors[models.TierNeutral]
	},
	"tiers": func(h models.Hashtags) []*models.Section {
		return []*models.Section{h.Broad, h.Medium, h.Niche}
	},
}).Parse(emailTemplate))

type Sender struct {
	config *config.EmailConfig
}

func NewSender(cfg *config.EmailConfig) *Sender {
	return &Sender{
		config: cfg,
	}
}

func (s *Sender) SendReport(report *models.EmailReport) error {
	if report == nil {
		return fmt.Errorf("report cannot be nil")
	}

	if len(report.Reels) == 0 {
		return nil // nothing analyzed
	}

	subject := fmt.Sprintf("Reel Viral Predictor - %d Reels Analyzed (%s)",
		len(report.Reels), report.Date.Format("Jan 2, 2006"))

	body, err := generateEmailBody(report)
	if err != nil {
		return fmt.Errorf("failed to generate email body: %w", err)
	}

	return s.SendHTML(subject, body)
}

// SendHTML sends an email with custom HTML content
func (s *Sender) SendHTML(subject, htmlBody string) error {
	return s.sendViaSMTP(subject, htmlBody)
}

func (s *Sender) sendViaSMTP(subject, body string) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.SMTPServer)

	to := []string{s.config.ToEmail}
	msg := []byte(fmt.Sprintf(`To: %s
From: %s
Subject: %s
MIME-Version: 1.0
Content-Type: text/html; charset=UTF-8

%s`, s.config.ToEmail, s.config.FromEmail, subject, body))

	addr := fmt.Sprintf("%s:%d", s.config.SMTPServer, s.config.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.FromEmail, to, msg)
}

func generateEmailBody(report *models.EmailReport) (string, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, report); err != nil {
		return "", err
	}
	return buf.String(), nil
}
