package llm

import (
	"context"

	"github.com/bulldogwatch/telegram-bulldog-bot/internal/media"
)

// Interpretation is the structured behavior reading returned by the
// inference endpoint. All three fields are required and non-empty; anything
// less is treated as a failed analysis.
type Interpretation struct {
	Behavior    string `json:"behavior"`
	Explanation string `json:"explanation"`
	Tip         string `json:"tip"`
}

// Usage contains token usage and cost information for one call.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
	CostUSD      float64
}

// Analyzer produces a behavior interpretation for a single media attachment.
type Analyzer interface {
	// Analyze submits the attachment plus the owner's free-text context and
	// returns exactly one interpretation, or an error. No retries happen at
	// this level.
	Analyze(ctx context.Context, att media.Attachment, ownerContext string) (*Interpretation, error)
}
