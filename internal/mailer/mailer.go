package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPMailer delivers contact-the-owner messages. The sender's address goes
// into Reply-To so the owner can answer directly.
type SMTPMailer struct {
	host     string
	port     int
	from     string
	password string
}

func NewSMTPMailer(host string, port int, from, password string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, from: from, password: password}
}

func (m *SMTPMailer) SendOwnerMessage(toEmail, listingName, senderEmail, message string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Reply-To", senderEmail)
	msg.SetHeader("Subject", fmt.Sprintf("Message about your listing: %s", listingName))
	msg.SetBody("text/plain", message)

	d := gomail.NewDialer(m.host, m.port, m.from, m.password)
	return d.DialAndSend(msg)
}
