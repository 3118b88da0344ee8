// internal/fcm/fcm.go
package fcm

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// Client wraps Firebase Cloud Messaging for the optional reminder push
// channel. A nil *Client is valid and means push is disabled.
type Client struct {
	client *messaging.Client
}

func NewClient(ctx context.Context, credentialsJSON []byte) (*Client, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{}, option.WithCredentialsJSON(credentialsJSON))
	if err != nil {
		return nil, fmt.Errorf("firebase init failed: %w", err)
	}

	messagingClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("messaging client init failed: %w", err)
	}

	return &Client{client: messagingClient}, nil
}

func intPtr(i int) *int {
	return &i
}

// SendToToken pushes a notification to a single registered device token.
func (c *Client) SendToToken(ctx context.Context, token, title, body string, data map[string]string) error {
	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
					Badge: intPtr(1),
				},
			},
		},
		Android: &messaging.AndroidConfig{
			Notification: &messaging.AndroidNotification{
				Sound: "default",
			},
		},
	}

	if _, err := c.client.Send(ctx, message); err != nil {
		return fmt.Errorf("fcm send failed: %w", err)
	}
	return nil
}
