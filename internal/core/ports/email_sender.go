package ports

import (
	"context"
)

// EmailSender defines the outbound contract for transactional mail.
// The expiration monitor depends on a nil error from Send before it
// deletes an archived order.
type EmailSender interface {
	// Send delivers a single HTML message to the recipient.
	Send(ctx context.Context, to string, subject string, htmlBody string) error
}
