package shared

import (
	"context"
	"inn/shared/cache"
	"inn/shared/constant"
	"strings"

	"github.com/rs/zerolog/log"
)

// BuildCacheKey joins key parts with ":" into a cache key.
func BuildCacheKey(parts ...string) string {
	return strings.Join(parts, ":")
}

// InvalidateCaches clears every cache entry under the given prefix.
func InvalidateCaches(ctx context.Context, c cache.RedisCache, prefix string) {
	if err := c.Clear(ctx, BuildCacheKey(prefix, constant.Asterix)); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}
