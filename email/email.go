// Package email relays survey submissions to the configured recipient
// over SMTP.
package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"github.com/mbolis/surwhen/config"
)

// Submission is one respondent's answer, ready to be relayed.
type Submission struct {
	TargetEmail       string
	Name              string
	UserEmail         string
	Reason            string
	SurveyTitle       string
	SurveyDescription string
}

// Notifier is the outbound sink for submissions. The SMTP implementation
// is swapped out for a recording fake in handler tests.
type Notifier interface {
	Enabled() bool
	SubmissionReceived(sub Submission) error
}

type Mailer struct {
	host   string
	server string
	auth   smtp.Auth
	from   string
}

func NewMailer(cfg config.Config) *Mailer {
	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost)
	}
	return &Mailer{
		host:   cfg.SMTPHost,
		server: cfg.SMTPHost + ":" + cfg.SMTPPort,
		auth:   auth,
		from:   cfg.SMTPFrom,
	}
}

func (m *Mailer) Enabled() bool {
	return m.host != "" && m.from != ""
}

// SubmissionReceived sends the notification. The target recipient rides as
// BCC: headers list only the sender (To) and, when the respondent left
// their address, a CC back to them.
func (m *Mailer) SubmissionReceived(sub Submission) error {
	if !m.Enabled() {
		return fmt.Errorf("email not configured")
	}

	rcpts := []string{sub.TargetEmail}
	cc := ""
	if sub.UserEmail != "" {
		rcpts = append(rcpts, sub.UserEmail)
		cc = sub.UserEmail
	}

	subject := fmt.Sprintf("SurWhen: %s - %s", sub.SurveyTitle, sub.Name)
	html, err := renderBody(sub)
	if err != nil {
		return fmt.Errorf("email.render: %w", err)
	}

	boundary := "boundary-surwhen"
	var msg bytes.Buffer
	fmt.Fprintf(&msg, "To: %s\r\n", m.from)
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	if cc != "" {
		fmt.Fprintf(&msg, "Cc: %s\r\n", cc)
	}
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	fmt.Fprintf(&msg, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=\"%s\"\r\n", boundary)
	fmt.Fprintf(&msg, "\r\n")

	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	fmt.Fprintf(&msg, "Content-Type: text/plain; charset=UTF-8\r\n")
	fmt.Fprintf(&msg, "\r\n")
	fmt.Fprintf(&msg, "%s\r\n", textBody(sub))
	fmt.Fprintf(&msg, "\r\n")

	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	fmt.Fprintf(&msg, "Content-Type: text/html; charset=UTF-8\r\n")
	fmt.Fprintf(&msg, "\r\n")
	fmt.Fprintf(&msg, "%s\r\n", html)
	fmt.Fprintf(&msg, "\r\n")
	fmt.Fprintf(&msg, "--%s--\r\n", boundary)

	return smtp.SendMail(m.server, m.auth, m.from, rcpts, msg.Bytes())
}

func textBody(sub Submission) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello,\n\nA new survey submission has arrived.\n\n")
	fmt.Fprintf(&b, "Survey: %s\n%s\n\n", sub.SurveyTitle, sub.SurveyDescription)
	fmt.Fprintf(&b, "Name: %s\n", sub.Name)
	if sub.UserEmail != "" {
		fmt.Fprintf(&b, "Email: %s\n", sub.UserEmail)
	}
	fmt.Fprintf(&b, "Reason: %s\n", sub.Reason)
	return b.String()
}

// user input goes through html/template, escaped
var bodyTemplate = template.Must(template.New("submission").Parse(`<p>Hello,</p>
<p>A new survey submission has arrived.</p>
<p><strong>{{.SurveyTitle}}</strong><br>{{.SurveyDescription}}</p>
<ul>
  <li><strong>Name:</strong> {{.Name}}</li>
  {{if .UserEmail}}<li><strong>Email:</strong> {{.UserEmail}}</li>{{end}}
  <li><strong>Reason:</strong> {{.Reason}}</li>
</ul>`))

func renderBody(sub Submission) (string, error) {
	var buf bytes.Buffer
	if err := bodyTemplate.Execute(&buf, sub); err != nil {
		return "", err
	}
	return buf.String(), nil
}
