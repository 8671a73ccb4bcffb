package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinks(t *testing.T) {
	assert.Equal(t, "https://pkv.example/verify-email/MTI/abc-123", VerificationLink("https://pkv.example/", "MTI", "abc-123"))
	assert.Equal(t, "https://pkv.example/reset-password/MTI/abc-123", PasswordResetLink("https://pkv.example", "MTI", "abc-123"))
}

func TestContactMail(t *testing.T) {
	msg := ContactMail{
		FirstName: "Anna",
		LastName:  "Schmidt",
		Email:     "anna@example.com",
		Phone:     "0151 123456",
		Message:   "Bitte um Rückruf.",
	}

	assert.Equal(t, "Kontaktanfrage von Anna Schmidt", ContactSubject(msg))
	assert.Equal(t, "Neue Kontaktanfrage\n\n"+
		"Vorname: Anna\n"+
		"Nachname: Schmidt\n"+
		"E-Mail: anna@example.com\n"+
		"Telefon: 0151 123456\n\n"+
		"Nachricht:\n"+
		"----------------\n"+
		"Bitte um Rückruf.", ContactBody(msg))
}
