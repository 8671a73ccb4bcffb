package mailer

import (
	"fmt"
	"strings"

	"pkv-backend/internal/pkg/logger"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendVerificationLink(toEmail, firstName, uid, token string) error
	SendPasswordResetLink(toEmail, firstName, uid, token string) error
	SendContactMessage(recipients []string, msg ContactMail) error
}

// ContactMail is the content of a contact form submission.
type ContactMail struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Message   string
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
	frontendURL string
	logger      logger.ILogger
}

func NewEmailService(host string, port int, username, password, senderName, frontendURL string, log logger.ILogger) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: username,
		senderName:  senderName,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		logger:      log,
	}
}

func VerificationLink(frontendURL, uid, token string) string {
	return fmt.Sprintf("%s/verify-email/%s/%s", strings.TrimRight(frontendURL, "/"), uid, token)
}

func PasswordResetLink(frontendURL, uid, token string) string {
	return fmt.Sprintf("%s/reset-password/%s/%s", strings.TrimRight(frontendURL, "/"), uid, token)
}

func (s *emailService) SendVerificationLink(toEmail, firstName, uid, token string) error {
	link := VerificationLink(s.frontendURL, uid, token)

	m := s.newMessage(toEmail, "Bitte bestätige deine Registrierung")
	m.SetBody("text/plain", fmt.Sprintf("Klicke hier, um deinen Account zu aktivieren: \n\n%s", link))
	m.AddAlternative("text/html", fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Hallo %s,</h2>
			<p>bitte bestätige deine E-Mail-Adresse, um deinen Account zu aktivieren:</p>
			<a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Account aktivieren</a>
			<p>Oder kopiere diesen Link:</p>
			<p>%s</p>
		</div>
	`, firstName, link, link))

	return s.send(m, "verification", toEmail)
}

func (s *emailService) SendPasswordResetLink(toEmail, firstName, uid, token string) error {
	link := PasswordResetLink(s.frontendURL, uid, token)

	m := s.newMessage(toEmail, "Passwort zurücksetzen")
	m.SetBody("text/plain", fmt.Sprintf("Klicke auf diesen Link, um dein Passwort zurückzusetzen: %s", link))
	m.AddAlternative("text/html", fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Hallo %s,</h2>
			<p>du hast angefordert, dein Passwort zurückzusetzen:</p>
			<a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Passwort zurücksetzen</a>
			<p>Oder kopiere diesen Link:</p>
			<p>%s</p>
			<p>Falls du das nicht warst, ignoriere diese E-Mail.</p>
		</div>
	`, firstName, link, link))

	return s.send(m, "password_reset", toEmail)
}

func (s *emailService) SendContactMessage(recipients []string, msg ContactMail) error {
	if len(recipients) == 0 {
		return fmt.Errorf("no contact recipients configured")
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", recipients...)
	m.SetHeader("Reply-To", msg.Email)
	m.SetHeader("Subject", ContactSubject(msg))
	m.SetBody("text/plain", ContactBody(msg))

	return s.send(m, "contact", strings.Join(recipients, ","))
}

func ContactSubject(msg ContactMail) string {
	return fmt.Sprintf("Kontaktanfrage von %s %s", msg.FirstName, msg.LastName)
}

func ContactBody(msg ContactMail) string {
	return "Neue Kontaktanfrage\n\n" +
		fmt.Sprintf("Vorname: %s\n", msg.FirstName) +
		fmt.Sprintf("Nachname: %s\n", msg.LastName) +
		fmt.Sprintf("E-Mail: %s\n", msg.Email) +
		fmt.Sprintf("Telefon: %s\n\n", msg.Phone) +
		"Nachricht:\n" +
		"----------------\n" +
		msg.Message
}

func (s *emailService) newMessage(toEmail, subject string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	return m
}

func (s *emailService) send(m *gomail.Message, kind, to string) error {
	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error("MAILER", "Failed to send mail", map[string]interface{}{
			"kind":  kind,
			"to":    to,
			"error": err.Error(),
		})
		return err
	}

	s.logger.Info("MAILER", "Mail sent", map[string]interface{}{"kind": kind, "to": to})
	return nil
}
