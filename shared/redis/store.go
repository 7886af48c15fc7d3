package redisclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"flightlink/shared/constants"
	sharedmodels "flightlink/shared/models"

	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("search result not found")

func resultKey(searchID string) string {
	return fmt.Sprintf("%s:%s", constants.SearchResultKeyPrefix, searchID)
}

// SaveResult keeps a generated search around long enough for the export
// download and the archive worker.
func SaveResult(ctx context.Context, result sharedmodels.SearchResult, ttl time.Duration) error {
	b, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode search result: %w", err)
	}
	return Client.Set(ctx, resultKey(result.SearchID), b, ttl).Err()
}

func LoadResult(ctx context.Context, searchID string) (sharedmodels.SearchResult, error) {
	var result sharedmodels.SearchResult

	b, err := Client.Get(ctx, resultKey(searchID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return result, fmt.Errorf("%w: %s", ErrNotFound, searchID)
	}
	if err != nil {
		return result, err
	}

	if err := json.Unmarshal(b, &result); err != nil {
		return result, fmt.Errorf("decode search result %s: %w", searchID, err)
	}
	return result, nil
}

func DeleteResult(ctx context.Context, searchID string) error {
	return Client.Del(ctx, resultKey(searchID)).Err()
}
