package mailer

import "context"

// Service sends one transactional email and returns the provider message id.
type Service interface {
	Send(ctx context.Context, msg Message) (string, error)
}
