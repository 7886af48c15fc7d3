package worker

import (
	"context"
	"time"

	"flightlink/shared/constants"
	sharedlogger "flightlink/shared/logger"
	redisclient "flightlink/shared/redis"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ReadBatch reads the next flight.links.generated entries for consumer. If the
// group has gone missing it is created again from the start of the stream and
// the read is retried once.
func ReadBatch(ctx context.Context, group, consumer string, block time.Duration) ([]redis.XMessage, error) {
	streams, err := redisclient.ReadFromGroup(ctx, constants.FlightLinksGenerated, group, consumer, block)
	if redisclient.IsNoGroup(err) {
		sharedlogger.L().Warn("Consumer group missing, recreating",
			zap.String("stream", constants.FlightLinksGenerated),
			zap.String("group", group),
		)
		if err := redisclient.CreateStreamGroup(ctx, constants.FlightLinksGenerated, group, "0"); err != nil {
			return nil, err
		}
		streams, err = redisclient.ReadFromGroup(ctx, constants.FlightLinksGenerated, group, consumer, block)
	}
	if err != nil {
		return nil, err
	}

	var msgs []redis.XMessage
	for _, s := range streams {
		msgs = append(msgs, s.Messages...)
	}
	return msgs, nil
}
