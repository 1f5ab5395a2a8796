package mailer

import (
	"gopkg.in/gomail.v2"
)

// Mailer delivers the contact-landlord message. Kept as an interface so
// handlers and tests can swap the SMTP transport out.
type Mailer interface {
	SendContactEmail(landlordEmail, listingName, fromEmail, message string) error
}

type SMTPMailer struct {
	host     string
	port     int
	from     string
	password string
}

func NewSMTPMailer(host string, port int, from, password string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		from:     from,
		password: password,
	}
}

// SendContactEmail mails a landlord about one of their listings. The
// listing name becomes the subject and the interested user's address goes
// into Reply-To so the landlord can answer directly.
func (m *SMTPMailer) SendContactEmail(landlordEmail, listingName, fromEmail, message string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", landlordEmail)
	msg.SetHeader("Reply-To", fromEmail)
	msg.SetHeader("Subject", listingName)
	msg.SetBody("text/plain", message)

	d := gomail.NewDialer(m.host, m.port, m.from, m.password)
	return d.DialAndSend(msg)
}
