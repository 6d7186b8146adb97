package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock Implementations
// ==========================

type MockSESService struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	return m.SendEmailFunc(ctx, params, optFns...)
}

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	return m.PublishFunc(ctx, params, optFns...)
}

// ==========================
// SES
// ==========================

func TestSESClient_SendEmail(t *testing.T) {
	var captured *ses.SendEmailInput
	client := NewSESClientWith(&MockSESService{
		SendEmailFunc: func(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			captured = params
			return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
		},
	}, "alerts@hackstack.dev")

	id, err := client.SendEmail(context.Background(), []string{"ops@hackstack.dev"}, "Readiness", "score 50", "")
	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)

	require.NotNil(t, captured)
	assert.Equal(t, "alerts@hackstack.dev", aws.ToString(captured.Source))
	assert.Equal(t, []string{"ops@hackstack.dev"}, captured.Destination.ToAddresses)
	assert.Equal(t, "Readiness", aws.ToString(captured.Message.Subject.Data))
	assert.Nil(t, captured.Message.Body.Html)
}

func TestSESClient_Errors(t *testing.T) {
	client := NewSESClientWith(&MockSESService{
		SendEmailFunc: func(context.Context, *ses.SendEmailInput, ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			return nil, errors.New("throttled")
		},
	}, "alerts@hackstack.dev")

	_, err := client.SendEmail(context.Background(), nil, "s", "b", "")
	assert.ErrorContains(t, err, "no recipients")

	_, err = client.SendEmail(context.Background(), []string{"ops@hackstack.dev"}, "s", "b", "<p>b</p>")
	assert.ErrorContains(t, err, "throttled")
}

// ==========================
// SNS
// ==========================

func TestSNSClient_Publish(t *testing.T) {
	var captured *sns.PublishInput
	client := NewSNSClientWith(&MockSNSService{
		PublishFunc: func(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
			captured = params
			return &sns.PublishOutput{MessageId: aws.String("sns-1")}, nil
		},
	}, "arn:aws:sns:us-east-1:123:alerts")

	id, err := client.Publish(context.Background(), "Readiness", "score 50", map[string]string{"project": "Hack Stack Demo"})
	require.NoError(t, err)
	assert.Equal(t, "sns-1", id)
	assert.Equal(t, "arn:aws:sns:us-east-1:123:alerts", aws.ToString(captured.TopicArn))
	assert.Equal(t, "Hack Stack Demo", aws.ToString(captured.MessageAttributes["project"].StringValue))
}

func TestSNSClient_PublishError(t *testing.T) {
	client := NewSNSClientWith(&MockSNSService{
		PublishFunc: func(context.Context, *sns.PublishInput, ...func(*sns.Options)) (*sns.PublishOutput, error) {
			return nil, errors.New("denied")
		},
	}, "arn")

	_, err := client.Publish(context.Background(), "s", "m", nil)
	assert.ErrorContains(t, err, "denied")
}
