package projection

import (
	"fmt"

	"github.com/monumenta/mediasync/shared/domain"
)

// OutcomeMessage maps a bulk result to one of three distinct user-visible
// messages. Partial success is its own message, never collapsed into plain
// success or failure.
func OutcomeMessage(r domain.BulkResult) string {
	succeeded, failed := len(r.Succeeded), len(r.Failed)

	switch r.Outcome() {
	case domain.OutcomeAllSucceeded:
		return fmt.Sprintf("%d item(s) updated", succeeded)
	case domain.OutcomeAllFailed:
		return fmt.Sprintf("operation failed for all %d item(s)", failed)
	}
	return fmt.Sprintf("%d item(s) updated, %d failed", succeeded, failed)
}
