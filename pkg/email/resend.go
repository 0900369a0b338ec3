package email

import (
	"bytes"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/resendlabs/resend-go"
)

type EmailService struct {
	client       *resend.Client
	from         string
	fromName     string
	templatesDir string
}

func NewEmailService() *EmailService {
	return &EmailService{
		client:       resend.NewClient(os.Getenv("RESEND_API_KEY")),
		from:         os.Getenv("EMAIL_FROM_ADDRESS"),
		fromName:     os.Getenv("EMAIL_FROM_NAME"),
		templatesDir: "pkg/email/templates",
	}
}

// SendAccessApprovedEmail tells the requester their account is ready.
// The temporary password is handed over out of band, never mailed.
func (s *EmailService) SendAccessApprovedEmail(to, name, loginURL string) error {
	html, err := s.parseTemplate("access_approved.html", map[string]interface{}{
		"Name":     name,
		"LoginURL": loginURL,
		"Year":     time.Now().Year(),
	})
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.fromName + " <" + s.from + ">",
		To:      []string{to},
		Subject: "Your membership request was approved",
		Html:    html,
	}

	_, err = s.client.Emails.Send(params)
	return err
}

func (s *EmailService) SendAccessDeniedEmail(to, name string) error {
	html, err := s.parseTemplate("access_denied.html", map[string]interface{}{
		"Name": name,
		"Year": time.Now().Year(),
	})
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.fromName + " <" + s.from + ">",
		To:      []string{to},
		Subject: "About your membership request",
		Html:    html,
	}

	_, err = s.client.Emails.Send(params)
	return err
}

func (s *EmailService) parseTemplate(name string, data map[string]interface{}) (string, error) {
	tmpl, err := template.ParseFiles(filepath.Join(s.templatesDir, name))
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
