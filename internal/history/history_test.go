package history

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItem(t *testing.T) {
	item := NewItem("Zoomies", "Burst of energy.", "Let him run.", "data:image/jpeg;base64,AA==", "image/jpeg", "after bath")

	assert.NotEmpty(t, item.ID)
	assert.NotEmpty(t, item.Timestamp)
	assert.Equal(t, "Zoomies", item.Behavior)
	assert.Equal(t, "image/jpeg", item.MediaType)
	assert.Equal(t, "after bath", item.Prompt)
}

func TestPrependOrdersNewestFirst(t *testing.T) {
	var items []Item
	items = Prepend(items, Item{ID: "1"})
	items = Prepend(items, Item{ID: "2"})
	items = Prepend(items, Item{ID: "3"})

	require.Len(t, items, 3)
	assert.Equal(t, "3", items[0].ID)
	assert.Equal(t, "2", items[1].ID)
	assert.Equal(t, "1", items[2].ID)
}

func TestPrependEnforcesCap(t *testing.T) {
	var items []Item
	for i := 1; i <= MaxItems+3; i++ {
		items = Prepend(items, Item{ID: fmt.Sprintf("%d", i)})
		assert.LessOrEqual(t, len(items), MaxItems)
	}

	require.Len(t, items, MaxItems)
	// Newest first, oldest beyond the cap dropped.
	assert.Equal(t, "13", items[0].ID)
	assert.Equal(t, "4", items[MaxItems-1].ID)
}

func TestPrependDoesNotMutateInput(t *testing.T) {
	orig := []Item{{ID: "a"}, {ID: "b"}}
	out := Prepend(orig, Item{ID: "c"})

	assert.Equal(t, "a", orig[0].ID)
	assert.Equal(t, "c", out[0].ID)
	assert.Len(t, orig, 2)
}
