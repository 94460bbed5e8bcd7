package utils

import (
	"fmt"

	"solace/config"

	"gopkg.in/gomail.v2"
)

// SMTPMailer sends booking emails. All sends are best-effort; callers log
// failures and move on.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer builds a mailer from the loaded configuration.
func NewSMTPMailer() *SMTPMailer {
	cfg := config.AppConfig
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.EmailFrom,
	}
}

func (m *SMTPMailer) send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)
	return m.dialer.DialAndSend(msg)
}

// SendBookingConfirmation mails the patient once payment is verified.
func (m *SMTPMailer) SendBookingConfirmation(to, patientName, psychologistName, date, start, end string, rate float64) error {
	subject := "Your session is confirmed"
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your session with %s on <b>%s</b> from <b>%s</b> to <b>%s</b> is confirmed.</p><p>Session fee: %.2f</p>",
		patientName, psychologistName, date, start, end, rate,
	)
	return m.send(to, subject, body)
}

// SendMeetingLink mails the patient the session meeting link.
func (m *SMTPMailer) SendMeetingLink(to, patientName, psychologistName, date, start, end, meetingLink string) error {
	subject := "Meeting link for your session"
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your session with %s on <b>%s</b> (%s–%s) will be held here:</p><p><a href=%q>%s</a></p>",
		patientName, psychologistName, date, start, end, meetingLink, meetingLink,
	)
	return m.send(to, subject, body)
}

// SendPsychologistInvite mails an invite token to a prospective psychologist.
func (m *SMTPMailer) SendPsychologistInvite(to, token string) error {
	subject := "You are invited to join Solace"
	body := fmt.Sprintf(
		"<p>You have been invited to practice on Solace.</p><p>Use this token to complete onboarding: <b>%s</b></p><p>The invite expires in %d hours.</p>",
		token, int(InviteTTL.Hours()),
	)
	return m.send(to, subject, body)
}
