package messenger

import (
	"context"
	"errors"

	"github.com/ZilDuck/nft-marketplace/internal/config"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/aws/aws-sdk-go/service/sqs/sqsiface"
	"go.uber.org/zap"
)

var ErrQueueNotConfigured = errors.New("queue url is not configured")

type MessageService interface {
	SendMessage(ctx context.Context, item Item, body []byte, attributes map[string]string) error
}

type Messenger struct {
	client   sqsiface.SQSAPI
	queueUrl string
}

type Item string

var (
	MarketplaceEvent Item = "marketplace.event"
)

func NewMessenger(client sqsiface.SQSAPI, queueUrl string) MessageService {
	return &Messenger{client: client, queueUrl: queueUrl}
}

func NewSqsClient(cfg config.AwsConfig) (sqsiface.SQSAPI, error) {
	awsConfig := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		zap.L().With(zap.Error(err)).Error("[Queue] Failed to create AWS session")
		return nil, err
	}

	return sqs.New(sess), nil
}

func (m Messenger) SendMessage(ctx context.Context, item Item, body []byte, attributes map[string]string) error {
	if m.queueUrl == "" {
		return ErrQueueNotConfigured
	}

	messageAttributes := map[string]*sqs.MessageAttributeValue{
		"item": {DataType: aws.String("String"), StringValue: aws.String(string(item))},
	}
	for name, value := range attributes {
		messageAttributes[name] = &sqs.MessageAttributeValue{DataType: aws.String("String"), StringValue: aws.String(value)}
	}

	output, err := m.client.SendMessageWithContext(ctx, &sqs.SendMessageInput{
		QueueUrl:          aws.String(m.queueUrl),
		MessageBody:       aws.String(string(body)),
		MessageAttributes: messageAttributes,
	})
	if err != nil {
		zap.L().With(zap.Error(err), zap.String("item", string(item))).Error("[Queue] Failed to send message")
		return err
	}

	zap.L().With(zap.String("item", string(item)), zap.String("messageId", aws.StringValue(output.MessageId))).Debug("[Queue] Message sent")
	return nil
}
