package repository

import (
	"context"
	"log/slog"

	"github.com/goccy/go-json"
	"github.com/reshetovitsme/community-analytics/internal/modules/chat/domain"
	"github.com/reshetovitsme/community-analytics/internal/shared/cache"
	"github.com/reshetovitsme/community-analytics/internal/shared/metrics"
)

// CachedRepository keeps delivery metadata lookups in a byte cache. Entries
// expire after the cache TTL and are dropped on Invalidate.
type CachedRepository struct {
	Repository
	cache   cache.Cache
	metrics metrics.Recorder
}

// NewCachedRepository wraps next with a receipt cache.
func NewCachedRepository(next Repository, c cache.Cache, m metrics.Recorder) *CachedRepository {
	return &CachedRepository{Repository: next, cache: c, metrics: m}
}

func (r *CachedRepository) GetMessageInfo(ctx context.Context, chatID, messageID string) (*domain.MessageInfo, error) {
	key := chatID + "/" + messageID

	if raw, ok := r.cache.Get(key); ok {
		var info domain.MessageInfo
		if err := json.Unmarshal(raw, &info); err == nil {
			r.metrics.IncCacheHits()
			return &info, nil
		}
		slog.Warn("Discarding undecodable cached receipt", "key", key)
	}
	r.metrics.IncCacheMisses()

	info, err := r.Repository.GetMessageInfo(ctx, chatID, messageID)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(info); err == nil {
		r.cache.Set(key, raw)
	}
	return info, nil
}

// Invalidate drops every cached receipt.
func (r *CachedRepository) Invalidate() {
	r.cache.Clear()
}
