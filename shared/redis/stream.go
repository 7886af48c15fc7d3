package redisclient

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	workStreamMaxLen = 10000
	statusStreamTTL  = 30 * time.Minute
)

// AddToStream appends to a work stream. Work streams are trimmed to roughly
// workStreamMaxLen entries and never expire; an expired key drops its consumer
// groups.
func AddToStream(ctx context.Context, stream string, values map[string]any) error {
	return Client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: workStreamMaxLen,
		Approx: true,
		Values: values,
	}).Err()
}

// AddToStatusStream appends to a per-search status stream and restarts its
// expiry.
func AddToStatusStream(ctx context.Context, stream string, values map[string]any) error {
	if err := Client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: values,
	}).Err(); err != nil {
		return err
	}
	return ExpireStatusStream(ctx, stream)
}

func ExpireStatusStream(ctx context.Context, stream string) error {
	return Client.Expire(ctx, stream, statusStreamTTL).Err()
}

func ReadFromGroup(
	ctx context.Context,
	streamName string,
	groupName string,
	consumerID string,
	block time.Duration,
) ([]redis.XStream, error) {
	return Client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    groupName,
		Consumer: consumerID,
		Streams:  []string{streamName, ">"},
		Block:    block,
		Count:    10,
	}).Result()
}

func AcknowledgeMessage(ctx context.Context, streamName string, groupName string, messageID string) error {
	return Client.XAck(ctx, streamName, groupName, messageID).Err()
}

func DestroyStreamGroup(ctx context.Context, streamName string, groupName string) error {
	return Client.XGroupDestroy(ctx, streamName, groupName).Err()
}

// CreateStreamGroup creates the group and its stream. An existing group is not
// an error.
func CreateStreamGroup(ctx context.Context, streamName string, groupName string, id string) error {
	err := Client.XGroupCreateMkStream(ctx, streamName, groupName, id).Err()
	if err != nil && strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return nil
	}
	return err
}

// IsNoMessages reports whether err only means a blocking read timed out.
func IsNoMessages(err error) bool {
	return errors.Is(err, redis.Nil)
}

// IsNoGroup reports whether a read failed because the stream or its group is
// gone.
func IsNoGroup(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), "NOGROUP")
}
