package ai

import (
	"context"

	"github.com/gkotua/jobradar/internal/jobs"
)

// Extractor converts a free-text job-search message into structured
// requirements. Implementations may fail (network, malformed model output);
// callers fall back to the rule-based extractor, which is the canonical
// behavior of record.
type Extractor interface {
	Extract(ctx context.Context, message string) (*jobs.Requirements, error)
}
