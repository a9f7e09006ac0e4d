package providers

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMTPSenderSend(t *testing.T) {
	s := NewSMTPSender("smtp.example.com", 587, "user", "pass", "ideas@example.com")

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	var gotAuth smtp.Auth
	s.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotAuth, gotFrom, gotTo, gotMsg = addr, a, from, to, msg
		return nil
	}

	err := s.Send(context.Background(), "reader@example.com", "Fresh Ideas", "<p>hi</p>", "hi")
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.NotNil(t, gotAuth)
	assert.Equal(t, "ideas@example.com", gotFrom)
	assert.Equal(t, []string{"reader@example.com"}, gotTo)
	body := string(gotMsg)
	assert.Contains(t, body, "Subject: Fresh Ideas\r\n")
	assert.Contains(t, body, "text/plain")
	assert.Contains(t, body, "<p>hi</p>")
	assert.Contains(t, body, "--"+mimeBoundary+"--")
}

func TestSMTPSenderWithoutAuth(t *testing.T) {
	s := NewSMTPSender("localhost", 1025, "", "", "ideas@example.com")
	s.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		assert.Nil(t, a)
		return errors.New("connection refused")
	}

	err := s.Send(context.Background(), "reader@example.com", "s", "h", "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestSMTPSenderCancelled(t *testing.T) {
	s := NewSMTPSender("localhost", 1025, "", "", "ideas@example.com")
	s.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("should not dial")
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Send(ctx, "reader@example.com", "s", "h", "p"), context.Canceled)
}
