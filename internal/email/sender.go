package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"inkwell/infrastructure"
)

// Template names recognized by the gateway. Anything else is a programmer
// error, not user input.
const (
	TemplateRegistration  = "registration"
	TemplateUpdateEmail   = "update_email"
	TemplateResetPassword = "reset_password"
)

// Gateway dispatches a lifecycle notification carrying a verification link.
// A transport-level failure is reported wrapped in infrastructure.ErrTransport
// so callers can roll back the token mutation that produced the key.
type Gateway interface {
	Send(template, to, tokenKey string) error
}

// Template pairs a subject with a message and the link path the token key is
// appended to.
type Template struct {
	Subject string
	Message string
	Path    string
}

// DefaultTemplates is the fixed template table. It is injected into the
// sender at construction; nothing mutates it at runtime.
func DefaultTemplates() map[string]Template {
	return map[string]Template{
		TemplateRegistration: {
			Subject: "Verify your email address",
			Message: "Follow this link to verify your account.",
			Path:    "/auth/verify-email",
		},
		TemplateUpdateEmail: {
			Subject: "Email Update Verification",
			Message: "If you didn't change it, you should click this link to recover it.",
			Path:    "/auth/verify-email-update",
		},
		TemplateResetPassword: {
			Subject: "Reset Password",
			Message: "If you didn't change it, you should click this link to recover it.",
			Path:    "/auth/verify-password-reset",
		},
	}
}

type Sender struct {
	dialer    *gomail.Dialer
	from      string
	baseURL   string
	templates map[string]Template
}

func NewSender(host string, port int, username, password, from, baseURL string, templates map[string]Template) *Sender {
	return &Sender{
		dialer:    gomail.NewDialer(host, port, username, password),
		from:      from,
		baseURL:   baseURL,
		templates: templates,
	}
}

func (s *Sender) Send(template, to, tokenKey string) error {
	subject, body := s.render(template, tokenKey)

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("%w: %v", infrastructure.ErrTransport, err)
	}
	return nil
}

func (s *Sender) render(template, tokenKey string) (subject, body string) {
	t, ok := s.templates[template]
	if !ok {
		panic(fmt.Sprintf("unsupported email template: %s", template))
	}
	link := fmt.Sprintf("%s%s?token_key=%s", s.baseURL, t.Path, tokenKey)
	return t.Subject, t.Message + "\n" + link
}
