package cloud

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNSClient publishes operator notifications to an SNS topic. Staff who want
// fault alerts subscribe to the topic directly.
type SNSClient struct {
	svc      *sns.Client
	topicArn string
}

func NewSNSClient(ctx context.Context, region, topicArn string) (*SNSClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return &SNSClient{svc: sns.NewFromConfig(cfg), topicArn: topicArn}, nil
}

func (c *SNSClient) SendAlert(ctx context.Context, subject, message string) error {
	_, err := c.svc.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(c.topicArn),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	})
	if err != nil {
		return fmt.Errorf("failed to publish to SNS: %w", err)
	}
	return nil
}

// SendFaultAlert notifies operators that a machine was reported faulty.
func (c *SNSClient) SendFaultAlert(ctx context.Context, machineName, status, comment string, at time.Time) error {
	subject := fmt.Sprintf("Arcade Alert: %s reported %s", machineName, status)
	message := fmt.Sprintf(
		"Machine Fault Report\n\n"+
			"Machine: %s\n"+
			"Status: %s\n"+
			"Comment: %s\n"+
			"Time: %s\n",
		machineName,
		status,
		comment,
		at.Format(time.RFC3339),
	)
	return c.SendAlert(ctx, subject, message)
}

// SendFixAlert notifies operators that a machine is back in service.
func (c *SNSClient) SendFixAlert(ctx context.Context, machineName string, at time.Time) error {
	subject := fmt.Sprintf("Arcade: %s back in service", machineName)
	message := fmt.Sprintf("Machine %s was marked working at %s.\n", machineName, at.Format(time.RFC3339))
	return c.SendAlert(ctx, subject, message)
}
