package channels

import (
	"context"

	"GoLoyalty/internal/config"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

// NewMessagingClient connects to FCM with the service-account file from config.
func NewMessagingClient(ctx context.Context, cfg config.FirebaseConfig) (*messaging.Client, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFilePath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFilePath))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize firebase app")
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize fcm client")
	}
	return client, nil
}
