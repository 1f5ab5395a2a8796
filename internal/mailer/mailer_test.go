package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// MockMailer stands in for the real SMTP transport.
type MockMailer struct {
	WasCalled bool
	To        string
	Subject   string
	ReplyTo   string
	Body      string
}

func (m *MockMailer) SendContactEmail(landlordEmail, listingName, fromEmail, message string) error {
	m.WasCalled = true
	m.To = landlordEmail
	m.Subject = listingName
	m.ReplyTo = fromEmail
	m.Body = message
	return nil
}

func TestSendContactEmail_Mock(t *testing.T) {
	mock := &MockMailer{}
	err := mock.SendContactEmail("landlord@example.com", "Cosy flat near the park", "tenant@example.com", "Is it still available?")

	assert.NoError(t, err)
	assert.True(t, mock.WasCalled)
	assert.Equal(t, "landlord@example.com", mock.To)
	assert.Equal(t, "Cosy flat near the park", mock.Subject)
	assert.Equal(t, "tenant@example.com", mock.ReplyTo)
	assert.Equal(t, "Is it still available?", mock.Body)
}
