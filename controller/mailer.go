package controller

import (
	"bytes"
	"net/mail"
	"net/smtp"
	"text/template"

	"github.com/go-errors/errors"

	irmamobile "github.com/privacybydesign/irmamobile"
)

// MailConfiguration configures the SMTP server error reports are sent through.
type MailConfiguration struct {
	EmailServer string `json:"email_server" mapstructure:"email_server"`
	EmailFrom   string `json:"email_from" mapstructure:"email_from"`
	ReportTo    string `json:"report_to" mapstructure:"report_to"`
	EmailAuth   smtp.Auth
}

var ErrInvalidEmail = errors.New("invalid email address")

var reportTemplate = template.Must(template.New("report").Parse(`An IRMA session failed.

Session: {{.SessionID}}
Action:  {{.Action}}
Type:    {{.Error.ErrorType}}
{{- with .Error.Info}}
Info:    {{.}}{{end}}
{{- with .Error.WrappedError}}
Error:   {{.}}{{end}}
{{- with .Error.RemoteError}}
Remote:  {{.Status}} {{.ErrorName}} {{.Description}} {{.Message}}{{end}}
{{- with .Error.Stack}}

{{.}}{{end}}
`))

// SMTPMailer sends error reports by email.
type SMTPMailer struct {
	conf     MailConfiguration
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

var _ Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer checks the addresses in conf and returns a mailer using them.
func NewSMTPMailer(conf MailConfiguration) (*SMTPMailer, error) {
	if conf.EmailServer == "" {
		return nil, errors.New("no email server configured")
	}
	if _, err := mail.ParseAddress(conf.EmailFrom); err != nil {
		return nil, errors.WrapPrefix(ErrInvalidEmail, "email_from", 0)
	}
	if _, err := mail.ParseAddress(conf.ReportTo); err != nil {
		return nil, errors.WrapPrefix(ErrInvalidEmail, "report_to", 0)
	}
	return &SMTPMailer{conf: conf, sendMail: smtp.SendMail}, nil
}

func (m *SMTPMailer) SendErrorReport(report ErrorReport) error {
	if report.Error == nil {
		report.Error = &irmamobile.SessionError{}
	}
	var body bytes.Buffer
	if err := reportTemplate.Execute(&body, report); err != nil {
		return errors.WrapPrefix(err, "could not generate error report", 0)
	}

	from, err := mail.ParseAddress(m.conf.EmailFrom)
	if err != nil {
		return ErrInvalidEmail
	}
	to, err := mail.ParseAddress(m.conf.ReportTo)
	if err != nil {
		return ErrInvalidEmail
	}

	headers := []byte("To: " + to.Address + "\r\n" +
		"From: " + from.Address + "\r\n" +
		"Subject: IRMA session error report\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"Content-Transfer-Encoding: binary\r\n" +
		"\r\n")
	err = m.sendMail(m.conf.EmailServer, m.conf.EmailAuth, from.Address, []string{to.Address}, append(headers, body.Bytes()...))
	if err != nil {
		return errors.WrapPrefix(err, "could not send error report", 0)
	}
	return nil
}
