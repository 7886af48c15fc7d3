package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"flightlink/shared/constants"
	sharedlogger "flightlink/shared/logger"
	redisclient "flightlink/shared/redis"
	"flightlink/shared/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	sseTimeout   = 2 * time.Minute
	sseReadBlock = 5 * time.Second
)

func startStreamWriter(ctx context.Context, w *bufio.Writer, streamName, groupName, consumerID string) {
	log := sharedlogger.L().With(zap.String("stream", streamName))
	for {
		select {
		case <-ctx.Done():
			log.Debug("Event stream closed", zap.Error(ctx.Err()))
			return
		default:
			entries, err := redisclient.ReadFromGroup(ctx, streamName, groupName, consumerID, sseReadBlock)
			if redisclient.IsNoGroup(err) {
				log.Debug("Event stream expired")
				return
			}
			if err != nil {
				if !redisclient.IsNoMessages(err) && ctx.Err() == nil {
					log.Warn("Redis read error", zap.Error(err))
					time.Sleep(time.Second)
				}
				continue
			}

			for _, stream := range entries {
				for _, msg := range stream.Messages {
					if err := handleMessage(ctx, w, streamName, groupName, msg); err != nil {
						if err != io.EOF {
							log.Warn("Handle message error", zap.Error(err))
						}
						return
					}
				}
			}
		}
	}
}

func handleMessage(ctx context.Context, w *bufio.Writer, streamName, groupName string, msg redis.XMessage) error {
	data := make(map[string]any, len(msg.Values))
	for k, v := range msg.Values {
		if k == "trace_context" {
			continue
		}
		data[k] = v
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "data: %s\n\n", jsonData)
	if err := w.Flush(); err != nil {
		return err
	}

	if err := redisclient.AcknowledgeMessage(ctx, streamName, groupName, msg.ID); err != nil {
		sharedlogger.L().Warn("Ack error", zap.Error(err))
	}

	// terminal statuses end the response; the stream stays until it expires
	if status, ok := data["status"].(string); ok {
		switch strings.ToLower(status) {
		case constants.StatusCompleted, constants.StatusFailed:
			return io.EOF
		}
	}

	return nil
}

func SSEHandler(c *fiber.Ctx) error {
	result, apiErr := loadResult(c)
	if apiErr != nil {
		return respondError(c, apiErr)
	}

	streamName := utils.ExportStatusStream(result.SearchID)
	// one group per connection, read from the start, so a reconnect replays
	// every status already published
	groupName := fmt.Sprintf("sse-%s", uuid.NewString())
	consumerID := fmt.Sprintf("search-%s", result.SearchID)

	ctx := c.UserContext()
	if err := redisclient.CreateStreamGroup(ctx, streamName, groupName, "0"); err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to open event stream", "STREAM_FAILED", err)
	}
	if err := redisclient.ExpireStatusStream(ctx, streamName); err != nil {
		sharedlogger.WithTrace(ctx).Warn("Failed to set status stream expiry", zap.Error(err))
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ctx, cancel := context.WithTimeout(context.Background(), sseTimeout)
		defer cancel()
		defer func() {
			if err := redisclient.DestroyStreamGroup(context.Background(), streamName, groupName); err != nil {
				sharedlogger.L().Warn("Failed to remove event group", zap.String("group", groupName), zap.Error(err))
			}
		}()
		startStreamWriter(ctx, w, streamName, groupName, consumerID)
	})

	return nil
}
