package mailer

import (
	"context"
)

// Mailer sends a composed HTML email. Implementations make exactly one
// synchronous attempt; queuing and redelivery are out of scope.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
