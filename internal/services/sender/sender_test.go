package sender_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worknowjob/worknow-api/internal/lib/smtp"
	"github.com/worknowjob/worknow-api/internal/models"
	"github.com/worknowjob/worknow-api/internal/services/sender"
)

type mockTransport struct {
	ConnectFunc func() (smtp.Client, error)
	user        string
}

func (m *mockTransport) Connect() (smtp.Client, error) { return m.ConnectFunc() }
func (m *mockTransport) GetSMTPUser() string           { return m.user }

type writeCloser struct {
	*bytes.Buffer
}

func (writeCloser) Close() error { return nil }

type mockSMTPClient struct {
	from   string
	rcpts  []string
	buf    *bytes.Buffer
	quit   bool
	closed bool
}

func (m *mockSMTPClient) Mail(from string) error { m.from = from; return nil }
func (m *mockSMTPClient) Rcpt(to string) error   { m.rcpts = append(m.rcpts, to); return nil }
func (m *mockSMTPClient) Data() (io.WriteCloser, error) {
	m.buf = &bytes.Buffer{}
	return writeCloser{m.buf}, nil
}
func (m *mockSMTPClient) Quit() error  { m.quit = true; return nil }
func (m *mockSMTPClient) Close() error { m.closed = true; return nil }

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func makeLogger() *slog.Logger {
	return slog.New(discardHandler{})
}

func TestSendSystemMessage(t *testing.T) {
	client := &mockSMTPClient{}
	transport := &mockTransport{
		user:        "noreply@worknowjob.com",
		ConnectFunc: func() (smtp.Client, error) { return client, nil },
	}
	svc := sender.New(transport, makeLogger())

	event := models.MessageEvent{
		Email: "ivan@example.com",
		Title: "Спасибо за покупку премиум-подписки на WorkNow!",
		Body:  "<p>Подписка активирована.</p>",
	}
	body, err := json.Marshal(event)
	require.NoError(t, err)

	require.NoError(t, svc.SendSystemMessage(body))

	assert.Equal(t, "noreply@worknowjob.com", client.from)
	assert.Equal(t, []string{"ivan@example.com"}, client.rcpts)
	assert.Contains(t, client.buf.String(), "Subject: Спасибо за покупку премиум-подписки на WorkNow!")
	assert.Contains(t, client.buf.String(), "Content-Type: text/html")
	assert.Contains(t, client.buf.String(), "<p>Подписка активирована.</p>")
	assert.True(t, client.quit)
}

func TestSendSystemMessage_BadPayload(t *testing.T) {
	transport := &mockTransport{
		user: "noreply@worknowjob.com",
		ConnectFunc: func() (smtp.Client, error) {
			t.Fatal("transport must not be used for malformed payloads")
			return nil, nil
		},
	}
	svc := sender.New(transport, makeLogger())

	err := svc.SendSystemMessage([]byte("{not json"))
	require.Error(t, err)
}

func TestSendSystemMessage_ConnectError(t *testing.T) {
	transport := &mockTransport{
		user:        "noreply@worknowjob.com",
		ConnectFunc: func() (smtp.Client, error) { return nil, errors.New("smtp is down") },
	}
	svc := sender.New(transport, makeLogger())

	event := models.MessageEvent{Email: "ivan@example.com", Title: "t", Body: "b"}
	body, _ := json.Marshal(event)

	err := svc.SendSystemMessage(body)
	require.Error(t, err)
}
