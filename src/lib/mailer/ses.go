package mailer

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"
)

type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SESMailer struct {
	client sesAPI
}

func NewSESMailer(ctx context.Context) (*SESMailer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		zap.S().Errorf("Could not load default config: %s", err.Error())
		return nil, err
	}
	return &SESMailer{client: ses.NewFromConfig(cfg)}, nil
}

func (m *SESMailer) Send(ctx context.Context, msg *Message) error {
	out, err := m.client.SendEmail(ctx, buildSESInput(withDefaults(msg)))
	if err != nil {
		return err
	}
	zap.S().Infof("Sent email with id: %s", aws.ToString(out.MessageId))
	return nil
}

func buildSESInput(in *Message) *ses.SendEmailInput {
	content := &types.Content{Data: aws.String(in.Body), Charset: aws.String("UTF-8")}
	body := &types.Body{}
	if in.Html {
		body.Html = content
	} else {
		body.Text = content
	}
	input := &ses.SendEmailInput{
		Source:      aws.String(fmt.Sprintf("%s <%s>", in.FromName, in.From)),
		Destination: &types.Destination{ToAddresses: in.To},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(in.Subject), Charset: aws.String("UTF-8")},
			Body:    body,
		},
	}
	if in.ReplyTo != "" {
		input.ReplyToAddresses = []string{in.ReplyTo}
	}
	return input
}
