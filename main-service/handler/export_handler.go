package handler

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"flightlink/shared/export"
	sharedlogger "flightlink/shared/logger"
	"flightlink/shared/metrics"
	sharedmodels "flightlink/shared/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type exportFormat struct {
	fileName    string
	contentType string
	write       func(io.Writer, sharedmodels.SearchResult) error
}

var exportFormats = map[string]exportFormat{
	"xlsx": {export.ExcelFileName, export.ExcelContentType, export.WriteExcel},
	"pdf":  {export.PDFFileName, export.PDFContentType, export.WritePDF},
}

func ExportHandler(c *fiber.Ctx) error {
	name := strings.ToLower(c.Query("format", "xlsx"))
	format, ok := exportFormats[name]
	if !ok {
		return errorResponse(c, http.StatusBadRequest, "Unsupported export format", "UNSUPPORTED_FORMAT", nil)
	}

	result, apiErr := loadResult(c)
	if apiErr != nil {
		return respondError(c, apiErr)
	}

	var buf bytes.Buffer
	if err := format.write(&buf, result); err != nil {
		sharedlogger.WithTrace(c.UserContext()).Error("Failed to build export",
			zap.String("search_id", result.SearchID),
			zap.String("format", name),
			zap.Error(err),
		)
		return errorResponse(c, http.StatusInternalServerError, "Failed to build export", "EXPORT_FAILED", err)
	}

	metrics.ExportsServed.WithLabelValues(name, "download").Inc()
	c.Attachment(format.fileName)
	c.Set(fiber.HeaderContentType, format.contentType)
	return c.Send(buf.Bytes())
}
