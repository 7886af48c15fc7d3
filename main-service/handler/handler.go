package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"flightlink/shared/constants"
	"flightlink/shared/linkformat"
	sharedlogger "flightlink/shared/logger"
	"flightlink/shared/metrics"
	sharedmodels "flightlink/shared/models"
	redisclient "flightlink/shared/redis"
	"flightlink/shared/tracing"
	"flightlink/shared/utils"
	"flightlink/shared/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var (
	now       = time.Now
	resultTTL = 30 * time.Minute
)

// Configure sets how long generated results stay available for export.
func Configure(ttl time.Duration) {
	resultTTL = ttl
}

func today() time.Time {
	y, m, d := now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func FlightSearchHandler(c *fiber.Ctx) error {
	ctx := c.UserContext()
	var form sharedmodels.SearchForm

	tracer := otel.Tracer(fmt.Sprintf("%s/handler", constants.ServiceMain))
	ctx, span := tracer.Start(ctx, "FlightSearchHandler")
	defer span.End()

	if err := c.BodyParser(&form); err != nil {
		sharedlogger.WithTrace(ctx).Warn("Invalid request", zap.Error(err))
		span.RecordError(err)
		metrics.SearchesRejected.WithLabelValues("malformed").Inc()
		return errorResponse(c, http.StatusBadRequest, "Invalid request", "INVALID_REQUEST", err)
	}

	req, err := validation.ToRequest(form, today())
	if err != nil {
		return rejectSearch(ctx, c, form, err)
	}

	links, err := linkformat.GenerateAll(req)
	if err != nil {
		return rejectSearch(ctx, c, form, err)
	}

	result := sharedmodels.SearchResult{
		SearchID:  uuid.New().String(),
		Request:   req,
		Links:     links,
		CreatedAt: now().UTC(),
	}

	if err := publishResult(ctx, result); err != nil {
		sharedlogger.WithTrace(ctx).Warn("Failed to store search result", zap.Error(err))
		span.RecordError(err)
		return errorResponse(c, http.StatusInternalServerError, "Failed to process request", "STORE_FAILED", err)
	}

	for _, link := range links {
		metrics.LinksGenerated.WithLabelValues(string(link.Site)).Inc()
	}
	span.AddEvent("Search links generated")
	sharedlogger.WithTrace(ctx).Info("Search links generated",
		zap.String("search_id", result.SearchID),
		zap.Int("links", len(links)),
	)

	if wantsHTML(c) {
		return renderPage(c, http.StatusOK, pageData{Form: form, Result: &result})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Search links generated",
		"data": fiber.Map{
			"search_id": result.SearchID,
			"links":     result.Links,
		},
	})
}

func SearchResultHandler(c *fiber.Ctx) error {
	result, apiErr := loadResult(c)
	if apiErr != nil {
		return respondError(c, apiErr)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Search result",
		"data":    result,
	})
}

// publishResult stores the result for later download and announces it to the
// archive worker. A result that could not be announced is removed again.
func publishResult(ctx context.Context, result sharedmodels.SearchResult) error {
	if err := redisclient.SaveResult(ctx, result, resultTTL); err != nil {
		return err
	}

	req := result.Request
	event := sharedmodels.LinksGeneratedEvent{
		SearchID:     result.SearchID,
		From:         req.From,
		To:           req.To,
		Date:         req.Date.Format(time.DateOnly),
		Passengers:   req.Passengers,
		Class:        string(req.Class),
		Links:        len(result.Links),
		TraceContext: tracing.InjectTracingToJSON(ctx),
	}
	if err := redisclient.AddToStream(ctx, constants.FlightLinksGenerated, utils.StructToMap(event)); err != nil {
		if derr := redisclient.DeleteResult(ctx, result.SearchID); derr != nil {
			sharedlogger.WithTrace(ctx).Warn("Failed to remove unpublished result", zap.Error(derr))
		}
		return err
	}
	return nil
}

func rejectSearch(ctx context.Context, c *fiber.Ctx, form sharedmodels.SearchForm, err error) error {
	log := sharedlogger.WithTrace(ctx)

	var (
		message string
		code    string
		extra   = fiber.Map{}
	)

	var verr *validation.ValidationError
	switch {
	case errors.Is(err, validation.ErrMissingCities):
		message, code = validation.MissingCitiesWarning, "MISSING_CITIES"
	case errors.Is(err, linkformat.ErrUnsupportedSite):
		sites := unsupportedSites(form.Sites)
		message, code = "Unsupported booking site: "+strings.Join(sites, ", "), "UNSUPPORTED_SITE"
		extra["sites"] = sites
	case errors.As(err, &verr):
		message, code = "Invalid search", "VALIDATION_FAILED"
		extra["fields"] = verr.Errors
	default:
		message, code = "Invalid search", "VALIDATION_FAILED"
	}

	log.Warn("Search rejected", zap.String("code", code), zap.Error(err))
	metrics.SearchesRejected.WithLabelValues(code).Inc()

	if wantsHTML(c) {
		return renderPage(c, http.StatusBadRequest, pageData{Form: form, Warning: message})
	}

	data := fiber.Map{
		"error": err.Error(),
		"code":  code,
	}
	for k, v := range extra {
		data[k] = v
	}
	return c.Status(http.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": message,
		"data":    data,
	})
}

func unsupportedSites(names []string) []string {
	var out []string
	for _, n := range names {
		if !linkformat.Supported(sharedmodels.Site(n)) {
			out = append(out, n)
		}
	}
	return out
}

type apiError struct {
	status  int
	message string
	code    string
	err     error
}

func loadResult(c *fiber.Ctx) (sharedmodels.SearchResult, *apiError) {
	searchID := c.Params("search_id")
	if searchID == "" {
		return sharedmodels.SearchResult{}, &apiError{http.StatusBadRequest, "Invalid search ID", "INVALID_SEARCH_ID", nil}
	}

	result, err := redisclient.LoadResult(c.UserContext(), searchID)
	if errors.Is(err, redisclient.ErrNotFound) {
		return result, &apiError{http.StatusNotFound, "Search not found or expired", "NOT_FOUND", err}
	}
	if err != nil {
		sharedlogger.WithTrace(c.UserContext()).Warn("Failed to load search result", zap.Error(err))
		return result, &apiError{http.StatusInternalServerError, "Failed to load search", "LOAD_FAILED", err}
	}
	return result, nil
}

func respondError(c *fiber.Ctx, e *apiError) error {
	return errorResponse(c, e.status, e.message, e.code, e.err)
}

func errorResponse(c *fiber.Ctx, status int, message, code string, err error) error {
	text := message
	if err != nil {
		text = err.Error()
	}
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
		"data": fiber.Map{
			"error": text,
			"code":  code,
		},
	})
}

func wantsHTML(c *fiber.Ctx) bool {
	return c.Accepts(fiber.MIMEApplicationJSON, fiber.MIMETextHTML) == fiber.MIMETextHTML
}
