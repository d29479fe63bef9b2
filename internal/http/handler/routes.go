package handler

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"slidemd/docs"
	"slidemd/internal/backend"
	"slidemd/internal/http/middleware"
	"slidemd/internal/service"
)

// ConvertRoute binds an upload path to a backend.
type ConvertRoute struct {
	Path    string
	Backend string
}

// ConvertRoutes lists the upload endpoints. /convert keeps pptx2md as the default.
var ConvertRoutes = []ConvertRoute{
	{Path: "/convert", Backend: backend.NamePptx2md},
	{Path: "/convert/pptx2md", Backend: backend.NamePptx2md},
	{Path: "/convert/markitdown", Backend: backend.NameMarkitdown},
	{Path: "/convert/pandoc", Backend: backend.NamePandoc},
	{Path: "/convert/pptx_to_md", Backend: backend.NamePptxToMd},
	{Path: "/convert/aspose", Backend: backend.NameAspose},
}

const readinessTimeout = 2 * time.Second

// RegisterRoutes attaches every HTTP route to app. gatherer may be nil, in
// which case /metrics is not served.
func RegisterRoutes(app *fiber.App, svc service.ConversionService, gatherer prometheus.Gatherer) {
	app.Get("/health", HealthCheck())
	app.Get("/readyz", ReadinessProbe(svc))

	for _, r := range ConvertRoutes {
		app.Post(r.Path, ConvertUpload(svc, r.Backend))
	}

	app.Get("/conversions", ListConversions(svc))
	app.Get("/conversions/:id", GetConversion(svc))
	app.Get("/conversions/:id/archive", ConversionArchive(svc))

	if gatherer != nil {
		app.Get(middleware.MetricsPath, adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
		}
		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}
		return swagger.HandlerDefault(c)
	})
}

// HealthCheck godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func HealthCheck() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	}
}

// ReadinessProbe godoc
// @Summary Readiness probe
// @Description Pings the history database and archive store when configured and reports converter tools found on PATH.
// @Tags health
// @Produce json
// @Success 200 {object} service.Readiness
// @Failure 503 {object} service.Readiness
// @Router /readyz [get]
func ReadinessProbe(svc service.ConversionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), readinessTimeout)
		defer cancel()

		rd := svc.Readiness(ctx)
		status := fiber.StatusOK
		if !rd.Ready {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(rd)
	}
}

// ConvertUpload godoc
// @Summary Convert a presentation to Markdown
// @Description Converts an uploaded .ppt/.pptx with the backend bound to the path and returns the output directory as a ZIP.
// @Tags convert
// @Accept multipart/form-data
// @Produce application/zip
// @Param file formData file true "Presentation (.ppt or .pptx)"
// @Success 200 {file} binary
// @Failure 400 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Failure 504 {object} errorPayload
// @Router /convert [post]
// @Router /convert/pptx2md [post]
// @Router /convert/markitdown [post]
// @Router /convert/pandoc [post]
// @Router /convert/pptx_to_md [post]
// @Router /convert/aspose [post]
func ConvertUpload(svc service.ConversionService, backendName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		if _, _, err := service.SplitFilename(fh.Filename); err != nil {
			return writeError(c, fiber.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", err.Error())
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		res, err := svc.Convert(c.UserContext(), backendName, f, fh.Filename)
		if err != nil {
			return writeConvertError(c, err)
		}

		c.Set(fiber.HeaderContentType, "application/zip")
		c.Set(fiber.HeaderContentDisposition, contentDisposition(res.Conversion.ArchiveName))
		c.Set("X-Conversion-ID", res.Conversion.ID)
		return c.Status(fiber.StatusOK).Send(res.Archive)
	}
}

// contentDisposition quotes printable ASCII names and falls back to the
// RFC 5987 filename* form for anything else.
func contentDisposition(name string) string {
	for i := 0; i < len(name); i++ {
		if name[i] < 0x20 || name[i] > 0x7e {
			return "attachment; filename*=UTF-8''" + url.PathEscape(name)
		}
	}
	return `attachment; filename="` + quoteEscaper.Replace(name) + `"`
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func writeConvertError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrUnsupportedExtension):
		return writeError(c, fiber.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", err.Error())
	case errors.Is(err, service.ErrTimeout):
		return writeError(c, fiber.StatusGatewayTimeout, "CONVERSION_TIMEOUT", err.Error())
	case errors.Is(err, backend.ErrUnknownBackend):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, backend.ErrMissingDependency):
		return writeError(c, fiber.StatusInternalServerError, "BACKEND_UNAVAILABLE", err.Error())
	case errors.Is(err, backend.ErrExecution), errors.Is(err, backend.ErrUnexpectedResult):
		return writeError(c, fiber.StatusInternalServerError, "CONVERSION_FAILED", err.Error())
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Conversion error: "+err.Error())
	}
}

// ListConversions godoc
// @Summary List conversion history
// @Tags conversions
// @Produce json
// @Param limit query int false "Page size (default 10, max 100)"
// @Param offset query int false "Rows to skip"
// @Success 200 {object} service.ConversionListResult
// @Failure 400 {object} errorPayload
// @Failure 503 {object} errorPayload
// @Router /conversions [get]
func ListConversions(svc service.ConversionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeHistoryError(c, err)
		}
		return c.JSON(res)
	}
}

// GetConversion godoc
// @Summary Get one conversion record
// @Tags conversions
// @Produce json
// @Param id path string true "Conversion ID (UUID)"
// @Success 200 {object} model.Conversion
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 503 {object} errorPayload
// @Router /conversions/{id} [get]
func GetConversion(svc service.ConversionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		conv, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeHistoryError(c, err)
		}
		return c.JSON(conv)
	}
}

// ConversionArchive godoc
// @Summary Download a mirrored archive
// @Description Redirects to a pre-signed object store URL for the conversion's ZIP.
// @Tags conversions
// @Param id path string true "Conversion ID (UUID)"
// @Success 302
// @Failure 404 {object} errorPayload
// @Failure 503 {object} errorPayload
// @Router /conversions/{id}/archive [get]
func ConversionArchive(svc service.ConversionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		u, err := svc.ArchiveURL(c.UserContext(), id)
		if err != nil {
			return writeHistoryError(c, err)
		}
		return c.Redirect(u, fiber.StatusFound)
	}
}

func writeHistoryError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrHistoryDisabled):
		return writeError(c, fiber.StatusServiceUnavailable, "HISTORY_DISABLED", "conversion history is not configured")
	case errors.Is(err, service.ErrStorageDisabled):
		return writeError(c, fiber.StatusServiceUnavailable, "STORAGE_DISABLED", "archive storage is not configured")
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "conversion not found")
	case errors.Is(err, service.ErrNoArchive):
		return writeError(c, fiber.StatusNotFound, "ARCHIVE_NOT_FOUND", "conversion has no stored archive")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
