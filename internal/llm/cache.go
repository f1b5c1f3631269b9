package llm

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"github.com/rs/zerolog/log"

	"github.com/bulldogwatch/telegram-bulldog-bot/internal/history"
	"github.com/bulldogwatch/telegram-bulldog-bot/internal/media"
)

// CachedAnalyzer wraps an Analyzer with a SQLite-backed cache, so
// re-submitting the same media with the same context doesn't cost another
// inference call. Cache errors degrade to a live call.
type CachedAnalyzer struct {
	inner Analyzer
	store history.Store
}

// NewCachedAnalyzer creates a cached analyzer.
func NewCachedAnalyzer(inner Analyzer, store history.Store) *CachedAnalyzer {
	return &CachedAnalyzer{inner: inner, store: store}
}

// hashRequest hashes the media bytes and the owner context. Each part is
// length-prefixed to prevent boundary collisions.
func hashRequest(data []byte, ownerContext string) string {
	h := sha256.New()
	binary.Write(h, binary.LittleEndian, int64(len(data)))
	h.Write(data)
	binary.Write(h, binary.LittleEndian, int64(len(ownerContext)))
	h.Write([]byte(ownerContext))
	return hex.EncodeToString(h.Sum(nil))
}

// Analyze implements the Analyzer interface with caching.
func (c *CachedAnalyzer) Analyze(ctx context.Context, att media.Attachment, ownerContext string) (*Interpretation, error) {
	hash := hashRequest(att.Data, ownerContext)

	if c.store != nil {
		cached, err := c.store.GetAnalysisCache(hash)
		if err != nil {
			log.Warn().Err(err).Msg("failed to check analysis cache")
		} else if cached != nil {
			log.Debug().Str("hash", hash[:16]).Msg("analysis cache hit")
			return &Interpretation{
				Behavior:    cached.Behavior,
				Explanation: cached.Explanation,
				Tip:         cached.Tip,
			}, nil
		}
	}

	interp, err := c.inner.Analyze(ctx, att, ownerContext)
	if err != nil {
		return nil, err
	}

	if c.store != nil {
		entry := &history.CacheEntry{
			Behavior:    interp.Behavior,
			Explanation: interp.Explanation,
			Tip:         interp.Tip,
		}
		if err := c.store.SetAnalysisCache(hash, entry); err != nil {
			log.Warn().Err(err).Msg("failed to cache analysis result")
		} else {
			log.Debug().Str("hash", hash[:16]).Msg("cached analysis result")
		}
	}

	return interp, nil
}
