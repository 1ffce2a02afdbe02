package service

import (
	"context"
	"fmt"

	"labelstartup-backend/internal/logger"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FCM accepts at most 500 tokens per multicast.
const maxMulticastTokens = 500

type multicastSender interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

type firebasePush struct {
	client multicastSender
}

// NewFirebasePush builds a push service from a service account file.
func NewFirebasePush(ctx context.Context, credentialsFile string) (PushService, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase messaging: %w", err)
	}
	return &firebasePush{client: client}, nil
}

func (p *firebasePush) Send(ctx context.Context, tokens []string, title, body string, data map[string]string) ([]string, error) {
	var stale []string
	for start := 0; start < len(tokens); start += maxMulticastTokens {
		end := min(start+maxMulticastTokens, len(tokens))
		batch := tokens[start:end]

		logger.ExternalServiceCall("fcm", "multicast", "tokens", len(batch))
		resp, err := p.client.SendEachForMulticast(ctx, &messaging.MulticastMessage{
			Tokens:       batch,
			Notification: &messaging.Notification{Title: title, Body: body},
			Data:         data,
		})
		logger.ExternalServiceResult("fcm", "multicast", err)
		if err != nil {
			return stale, fmt.Errorf("send push: %w", err)
		}
		for i, r := range resp.Responses {
			if r != nil && !r.Success && messaging.IsUnregistered(r.Error) {
				stale = append(stale, batch[i])
			}
		}
		if resp.FailureCount > 0 {
			logger.Warn("Some push notifications failed", "failed", resp.FailureCount, "sent", resp.SuccessCount)
		}
	}
	return stale, nil
}

type disabledPush struct{}

// NewDisabledPush drops notifications when no credentials are configured.
func NewDisabledPush() PushService {
	return disabledPush{}
}

func (disabledPush) Send(ctx context.Context, tokens []string, title, body string, data map[string]string) ([]string, error) {
	return nil, nil
}
