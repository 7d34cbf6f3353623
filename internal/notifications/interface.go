package notifications

import "github.com/terry-li-hm/lustro/internal/models"

// Sender dispatches one breaking-news alert. A send failure is reported but
// never retried here; the alert has already been counted by the caller.
type Sender interface {
	Send(alert models.Alert) error
}
