package history

import (
	"strconv"
	"time"
)

// MaxItems is the history cap. Inserting beyond it drops the oldest entries.
const MaxItems = 10

// timestampLayout is the human-readable timestamp shown in the history list.
const timestampLayout = "Jan 2, 2006 15:04"

// Item is one completed analysis as kept in a user's history. Items are
// never mutated after creation; they disappear only by cap eviction or
// when the user clears their history.
type Item struct {
	ID           string `json:"id"`
	Timestamp    string `json:"timestamp"`
	Behavior     string `json:"behavior"`
	Explanation  string `json:"explanation"`
	Tip          string `json:"tip"`
	MediaDataURL string `json:"mediaDataUrl"`
	MediaType    string `json:"mediaType"`
	Prompt       string `json:"prompt"`
}

// NewItem builds a history item for a just-completed analysis. The id is
// derived from the current time, the timestamp is pre-formatted for display.
func NewItem(behavior, explanation, tip, mediaDataURL, mediaType, prompt string) Item {
	now := time.Now()
	return Item{
		ID:           strconv.FormatInt(now.UnixNano(), 10),
		Timestamp:    now.Format(timestampLayout),
		Behavior:     behavior,
		Explanation:  explanation,
		Tip:          tip,
		MediaDataURL: mediaDataURL,
		MediaType:    mediaType,
		Prompt:       prompt,
	}
}

// Prepend inserts item at the front of items and truncates the result to
// MaxItems. The input slice is not modified.
func Prepend(items []Item, item Item) []Item {
	out := make([]Item, 0, len(items)+1)
	out = append(out, item)
	out = append(out, items...)
	if len(out) > MaxItems {
		out = out[:MaxItems]
	}
	return out
}
