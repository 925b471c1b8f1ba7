package email

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESMailer_Send(t *testing.T) {
	client := &fakeSES{}
	m := newSESMailer(client, "noreply@tradefair.test", "Tradefair", testLogger)

	require.NoError(t, m.Send(context.Background(), "ada@example.com", "Hello", "<p>hi</p>", ""))

	require.NotNil(t, client.input)
	assert.Equal(t, "Tradefair <noreply@tradefair.test>", aws.ToString(client.input.Source))
	assert.Equal(t, []string{"ada@example.com"}, client.input.Destination.ToAddresses)
	assert.Equal(t, "Hello", aws.ToString(client.input.Message.Subject.Data))
	assert.Equal(t, "<p>hi</p>", aws.ToString(client.input.Message.Body.Html.Data))
	assert.Nil(t, client.input.Message.Body.Text)
}

func TestSESMailer_SendWithoutFromName(t *testing.T) {
	client := &fakeSES{}
	m := newSESMailer(client, "noreply@tradefair.test", "", testLogger)

	require.NoError(t, m.Send(context.Background(), "ada@example.com", "Hello", "", "hi"))
	assert.Equal(t, "noreply@tradefair.test", aws.ToString(client.input.Source))
	assert.Nil(t, client.input.Message.Body.Html)
}

func TestSESMailer_SendError(t *testing.T) {
	boom := errors.New("throttled")
	m := newSESMailer(&fakeSES{err: boom}, "noreply@tradefair.test", "", testLogger)

	err := m.Send(context.Background(), "ada@example.com", "Hello", "", "hi")
	require.ErrorIs(t, err, boom)
}

func TestNewMailer(t *testing.T) {
	tests := []struct {
		name    string
		config  MailerConfig
		wantSES bool
		wantErr bool
	}{
		{"noop", MailerConfig{Provider: ProviderNoop}, false, false},
		{"unknown falls back to noop", MailerConfig{Provider: "smtp"}, false, false},
		{"ses", MailerConfig{Provider: ProviderSES, FromAddress: "noreply@tradefair.test", SES: SESConfig{Region: "eu-west-1", AccessKeyID: "AKIA", SecretAccessKey: "secret"}}, true, false},
		{"ses without region", MailerConfig{Provider: ProviderSES, FromAddress: "noreply@tradefair.test"}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMailer(tt.config, testLogger)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			_, isSES := m.(*sesMailer)
			assert.Equal(t, tt.wantSES, isSES)
		})
	}
}

func TestNoopMailer_Send(t *testing.T) {
	m, err := NewMailer(MailerConfig{Provider: ProviderNoop}, testLogger)
	require.NoError(t, err)
	assert.NoError(t, m.Send(context.Background(), "ada@example.com", "Hello", "", ""))
}
