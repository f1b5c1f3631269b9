package llm

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bulldogwatch/telegram-bulldog-bot/internal/history"
	"github.com/bulldogwatch/telegram-bulldog-bot/internal/media"
)

type memStore struct {
	cache    map[string]*history.CacheEntry
	cacheErr error
}

func newMemStore() *memStore {
	return &memStore{cache: make(map[string]*history.CacheEntry)}
}

func (m *memStore) Load(int64) ([]history.Item, error)       { return nil, nil }
func (m *memStore) Save(int64, []history.Item) error         { return nil }
func (m *memStore) Clear(int64) error                        { return nil }
func (m *memStore) Close() error                             { return nil }
func (m *memStore) GetAnalysisCache(hash string) (*history.CacheEntry, error) {
	if m.cacheErr != nil {
		return nil, m.cacheErr
	}
	return m.cache[hash], nil
}
func (m *memStore) SetAnalysisCache(hash string, entry *history.CacheEntry) error {
	if m.cacheErr != nil {
		return m.cacheErr
	}
	m.cache[hash] = entry
	return nil
}

type countingAnalyzer struct {
	calls  int
	result *Interpretation
	err    error
}

func (c *countingAnalyzer) Analyze(_ context.Context, _ media.Attachment, _ string) (*Interpretation, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.result, nil
}

var testAttachment = media.Attachment{Name: "dog.jpg", MIME: "image/jpeg", Data: []byte{0xFF, 0xD8, 0x01}}

func TestCachedAnalyzerHitSkipsInner(t *testing.T) {
	inner := &countingAnalyzer{result: &Interpretation{Behavior: "Napping", Explanation: "Asleep.", Tip: "Let him rest."}}
	cached := NewCachedAnalyzer(inner, newMemStore())

	first, err := cached.Analyze(context.Background(), testAttachment, "ctx")
	require.NoError(t, err)

	second, err := cached.Analyze(context.Background(), testAttachment, "ctx")
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, first, second)
}

func TestCachedAnalyzerKeyIncludesContext(t *testing.T) {
	inner := &countingAnalyzer{result: &Interpretation{Behavior: "Napping", Explanation: "Asleep.", Tip: "Let him rest."}}
	cached := NewCachedAnalyzer(inner, newMemStore())

	_, err := cached.Analyze(context.Background(), testAttachment, "morning")
	require.NoError(t, err)
	_, err = cached.Analyze(context.Background(), testAttachment, "evening")
	require.NoError(t, err)

	// Different owner context means a different cache key.
	assert.Equal(t, 2, inner.calls)
}

func TestCachedAnalyzerErrorNotCached(t *testing.T) {
	inner := &countingAnalyzer{err: fmt.Errorf("inference failed")}
	store := newMemStore()
	cached := NewCachedAnalyzer(inner, store)

	_, err := cached.Analyze(context.Background(), testAttachment, "")
	require.Error(t, err)
	assert.Empty(t, store.cache)

	_, err = cached.Analyze(context.Background(), testAttachment, "")
	require.Error(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedAnalyzerStoreErrorDegradesToLiveCall(t *testing.T) {
	inner := &countingAnalyzer{result: &Interpretation{Behavior: "Napping", Explanation: "Asleep.", Tip: "Let him rest."}}
	store := newMemStore()
	store.cacheErr = fmt.Errorf("db locked")
	cached := NewCachedAnalyzer(inner, store)

	interp, err := cached.Analyze(context.Background(), testAttachment, "")
	require.NoError(t, err)
	assert.Equal(t, "Napping", interp.Behavior)
	assert.Equal(t, 1, inner.calls)
}

func TestHashRequestLengthPrefix(t *testing.T) {
	// [AB]+"" must not collide with [A]+"B" style boundaries.
	h1 := hashRequest([]byte("AB"), "")
	h2 := hashRequest([]byte("A"), "B")
	assert.NotEqual(t, h1, h2)
}
