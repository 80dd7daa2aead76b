// Package mail delivers account emails through Amazon SESv2.
package mail

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/Kroplewski-M/student-showcase/internal/config"
)

type SESNotifier struct {
	client        *sesv2.Client
	fromEmail     string
	studentDomain string
	baseURL       string
}

func NewSESNotifier(ctx context.Context, cfg config.MailConfig, baseURL string) (*SESNotifier, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &SESNotifier{
		client:        sesv2.NewFromConfig(awsCfg),
		fromEmail:     cfg.FromEmail,
		studentDomain: cfg.StudentDomain,
		baseURL:       baseURL,
	}, nil
}

// StudentAddress maps a student id onto the university mailbox it owns.
func StudentAddress(studentID string, domain string) string {
	return fmt.Sprintf("U%s@%s", studentID, domain)
}

func (n *SESNotifier) send(ctx context.Context, to string, subject string, body string) error {
	_, err := n.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(n.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(body)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send: %w", err)
	}
	return nil
}

func (n *SESNotifier) SendVerification(ctx context.Context, studentID string, token string) error {
	link := fmt.Sprintf("%s/validate-user/%s", n.baseURL, token)
	body := fmt.Sprintf(
		`<p>Welcome to the student showcase.</p><p><a href="%s">Verify your account</a> within 15 minutes to activate it.</p>`,
		link,
	)
	return n.send(ctx, StudentAddress(studentID, n.studentDomain), "Verify your account", body)
}

func (n *SESNotifier) SendPasswordReset(ctx context.Context, studentID string, token string) error {
	link := fmt.Sprintf("%s/reset-password/%s", n.baseURL, token)
	body := fmt.Sprintf(
		`<p>A password reset was requested for your account.</p><p><a href="%s">Reset your password</a> within 15 minutes. If this wasn't you, ignore this mail.</p>`,
		link,
	)
	return n.send(ctx, StudentAddress(studentID, n.studentDomain), "Reset your password", body)
}
