package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestNewPicksDriver(t *testing.T) {
	m, err := New(context.Background(), DRIVER_LOG)
	require.NoError(t, err)
	assert.IsType(t, &LogMailer{}, m)

	m, err = New(context.Background(), DRIVER_SMTP)
	require.NoError(t, err)
	assert.IsType(t, &SMTPMailer{}, m)

	_, err = New(context.Background(), "pigeon")
	assert.Error(t, err)
}

func TestLogMailer(t *testing.T) {
	err := (&LogMailer{}).Send(context.Background(), &Message{To: []string{"a@example.com"}, Subject: "hi"})
	assert.NoError(t, err)
}

func TestBuildMsg(t *testing.T) {
	msg, err := buildMsg(&Message{
		From:     "salon@example.com",
		FromName: "Salon",
		To:       []string{"jana@example.com"},
		Subject:  "Potvrzení",
		Body:     "<p>hello</p>",
		Html:     true,
	})
	require.NoError(t, err)

	rcpts, err := msg.GetRecipients()
	require.NoError(t, err)
	assert.Equal(t, []string{"jana@example.com"}, rcpts)
	assert.Equal(t, []string{"Potvrzení"}, msg.GetGenHeader(mail.HeaderSubject))

	_, err = buildMsg(&Message{From: "not an address", To: []string{"jana@example.com"}})
	assert.Error(t, err)
}

func TestSESMailer(t *testing.T) {
	fake := &fakeSES{}
	m := &SESMailer{client: fake}

	err := m.Send(context.Background(), &Message{
		From:     "salon@example.com",
		FromName: "Salon",
		To:       []string{"jana@example.com"},
		ReplyTo:  "owner@example.com",
		Subject:  "Nová rezervace",
		Body:     "text",
	})
	require.NoError(t, err)
	assert.Equal(t, "Salon <salon@example.com>", aws.ToString(fake.input.Source))
	assert.Equal(t, []string{"jana@example.com"}, fake.input.Destination.ToAddresses)
	assert.Equal(t, []string{"owner@example.com"}, fake.input.ReplyToAddresses)
	assert.Nil(t, fake.input.Message.Body.Html)
	assert.Equal(t, "text", aws.ToString(fake.input.Message.Body.Text.Data))

	fake.err = errors.New("throttled")
	assert.Error(t, m.Send(context.Background(), &Message{To: []string{"x@example.com"}}))
}
