package worker

import (
	"context"
	"fmt"
	"path/filepath"

	"flightlink/shared/constants"
	sharedlogger "flightlink/shared/logger"
	"flightlink/shared/metrics"
	sharedmodels "flightlink/shared/models"
	redisclient "flightlink/shared/redis"
	"flightlink/shared/tracing"
	"flightlink/shared/utils"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

// HandleMessage archives the search announced by one flight.links.generated
// entry and reports progress on the search's export status stream. The message
// is acknowledged whatever the outcome; a failed export is reported, not retried.
func HandleMessage(a *Archiver, group, messageID string, values map[string]any) {
	ctx := tracing.ExtractTracingFromMap(context.Background(), values["trace_context"])

	tracer := otel.Tracer(fmt.Sprintf("%s/worker", constants.ServiceExport))
	ctx, span := tracer.Start(ctx, "HandleMessage")
	defer span.End()

	if err := archiveSearch(ctx, a, values); err != nil {
		span.RecordError(err)
		sharedlogger.WithTrace(ctx).Warn("Export failed", zap.String("message_id", messageID), zap.Error(err))
	}

	if err := redisclient.AcknowledgeMessage(ctx, constants.FlightLinksGenerated, group, messageID); err != nil {
		span.RecordError(err)
		sharedlogger.WithTrace(ctx).Warn("Failed to ack message", zap.String("message_id", messageID), zap.Error(err))
	}
}

func archiveSearch(ctx context.Context, a *Archiver, values map[string]any) error {
	ev, err := utils.MapToStruct[sharedmodels.LinksGeneratedEvent](values)
	if err != nil {
		return fmt.Errorf("decode event: %w", err)
	}
	if ev.SearchID == "" {
		return fmt.Errorf("event without search_id")
	}

	statusStream := utils.ExportStatusStream(ev.SearchID)
	if err := publishStatus(ctx, statusStream, sharedmodels.ExportStatusEvent{
		SearchID: ev.SearchID,
		Status:   constants.StatusProcessing,
	}); err != nil {
		return err
	}

	result, err := redisclient.LoadResult(ctx, ev.SearchID)
	if err != nil {
		return reportFailure(ctx, statusStream, ev.SearchID, err)
	}

	path, err := a.Write(result)
	if err != nil {
		return reportFailure(ctx, statusStream, ev.SearchID, err)
	}

	metrics.ExportsServed.WithLabelValues("xlsx", "archive").Inc()
	sharedlogger.WithTrace(ctx).Info("Search archived",
		zap.String("search_id", ev.SearchID),
		zap.String("path", path),
	)

	return publishStatus(ctx, statusStream, sharedmodels.ExportStatusEvent{
		SearchID: ev.SearchID,
		Status:   constants.StatusCompleted,
		File:     filepath.Base(path),
		Rows:     len(result.Links),
	})
}

func reportFailure(ctx context.Context, stream, searchID string, cause error) error {
	if err := publishStatus(ctx, stream, sharedmodels.ExportStatusEvent{
		SearchID: searchID,
		Status:   constants.StatusFailed,
		Error:    cause.Error(),
	}); err != nil {
		return fmt.Errorf("%w (status not published: %v)", cause, err)
	}
	return cause
}

func publishStatus(ctx context.Context, stream string, ev sharedmodels.ExportStatusEvent) error {
	return redisclient.AddToStatusStream(ctx, stream, utils.StructToMap(ev))
}
