package contracts

import (
	"context"
)

// PayloadArchive stores raw webhook payloads for dispute diagnostics.
// Archiving is best effort: a failed archive never blocks event processing.
type PayloadArchive interface {
	Archive(ctx context.Context, provider, eventID string, payload []byte, contentType string) (string, error)
}
