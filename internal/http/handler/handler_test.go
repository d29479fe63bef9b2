package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"slidemd/internal/backend"
	"slidemd/internal/http/middleware"
	"slidemd/internal/model"
	"slidemd/internal/service"
	serviceMocks "slidemd/internal/service/mocks"
)

const convID = "0b6a1f9e-3c1d-4b8e-9d7a-2f4e5c6b7a81"

func newTestApp(svc service.ConversionService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Use(middleware.RequestID())
	RegisterRoutes(app, svc, prometheus.NewRegistry())
	return app
}

func uploadRequest(t *testing.T, path, field, filename string, content []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var body errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHealthCheck(t *testing.T) {
	app := newTestApp(new(serviceMocks.MockConversionService))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestReadinessProbe(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		svc := new(serviceMocks.MockConversionService)
		svc.On("Readiness", mock.Anything).Return(service.Readiness{Ready: true, Database: "disabled", Storage: "ok"})

		resp, err := newTestApp(svc).Test(httptest.NewRequest(http.MethodGet, "/readyz", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("not ready", func(t *testing.T) {
		svc := new(serviceMocks.MockConversionService)
		svc.On("Readiness", mock.Anything).Return(service.Readiness{Ready: false, Database: "connection refused"})

		resp, err := newTestApp(svc).Test(httptest.NewRequest(http.MethodGet, "/readyz", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var rd service.Readiness
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&rd))
		assert.Equal(t, "connection refused", rd.Database)
	})
}

func TestConvertUpload_Success(t *testing.T) {
	archive := []byte("PK\x05\x06" + string(make([]byte, 18)))

	for _, route := range ConvertRoutes {
		t.Run(route.Path, func(t *testing.T) {
			svc := new(serviceMocks.MockConversionService)
			svc.On("Convert", mock.Anything, route.Backend, mock.Anything, "Lecture.PPTX").
				Return(&service.ConvertResult{
					Conversion: &model.Conversion{ID: convID, ArchiveName: "conversion_Lecture.zip"},
					Archive:    archive,
				}, nil)

			resp, err := newTestApp(svc).Test(uploadRequest(t, route.Path, "file", "Lecture.PPTX", []byte("pptx")))
			require.NoError(t, err)

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "application/zip", resp.Header.Get("Content-Type"))
			assert.Equal(t, `attachment; filename="conversion_Lecture.zip"`, resp.Header.Get("Content-Disposition"))
			assert.Equal(t, convID, resp.Header.Get("X-Conversion-ID"))

			got, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, archive, got)
			svc.AssertExpectations(t)
		})
	}
}

func TestContentDisposition(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{name: "conversion_deck.zip", want: `attachment; filename="conversion_deck.zip"`},
		{name: "conversion_week 1; intro.zip", want: `attachment; filename="conversion_week 1; intro.zip"`},
		{name: `conversion_say "hi".zip`, want: `attachment; filename="conversion_say \"hi\".zip"`},
		{name: "conversion_Toán.zip", want: "attachment; filename*=UTF-8''conversion_To%C3%A1n.zip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, contentDisposition(tt.name))
		})
	}
}

func TestConvertUpload_QuotesArchiveName(t *testing.T) {
	svc := new(serviceMocks.MockConversionService)
	svc.On("Convert", mock.Anything, backend.NamePptx2md, mock.Anything, "Bài giảng 1.pptx").
		Return(&service.ConvertResult{
			Conversion: &model.Conversion{ID: convID, ArchiveName: "conversion_Bài giảng 1.zip"},
			Archive:    []byte("zip"),
		}, nil)

	resp, err := newTestApp(svc).Test(uploadRequest(t, "/convert", "file", "Bài giảng 1.pptx", []byte("pptx")))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "attachment; filename*=UTF-8''conversion_B%C3%A0i%20gi%E1%BA%A3ng%201.zip", resp.Header.Get("Content-Disposition"))
	svc.AssertExpectations(t)
}

func TestConvertUpload_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		filename string
		wantCode string
	}{
		{name: "unsupported extension", field: "file", filename: "notes.pdf", wantCode: "UNSUPPORTED_FILE_TYPE"},
		{name: "no extension", field: "file", filename: "deck", wantCode: "UNSUPPORTED_FILE_TYPE"},
		{name: "wrong field", field: "upload", filename: "deck.pptx", wantCode: "FILE_REQUIRED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(serviceMocks.MockConversionService)
			req := uploadRequest(t, "/convert", tt.field, tt.filename, []byte("x"))
			req.Header.Set(middleware.RequestIDHeader, "rid-1")

			resp, err := newTestApp(svc).Test(req)
			require.NoError(t, err)

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			body := decodeError(t, resp)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.Equal(t, "rid-1", body.RequestID)
			svc.AssertNotCalled(t, "Convert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestConvertUpload_Failures(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "missing dependency",
			err:         &backend.Error{Backend: "pptx2md", Kind: backend.KindMissingDependency, Detail: "No module named pptx2md"},
			wantStatus:  http.StatusInternalServerError,
			wantCode:    "BACKEND_UNAVAILABLE",
			wantMessage: "pptx2md dependency not found: No module named pptx2md",
		},
		{
			name:        "execution failure",
			err:         &backend.Error{Backend: "pptx2md", Kind: backend.KindExecution, Detail: "Traceback: bad slide"},
			wantStatus:  http.StatusInternalServerError,
			wantCode:    "CONVERSION_FAILED",
			wantMessage: "pptx2md failed: Traceback: bad slide",
		},
		{
			name:        "unexpected result",
			err:         &backend.Error{Backend: "markitdown", Kind: backend.KindUnexpectedResult, Detail: "no markdown in int"},
			wantStatus:  http.StatusInternalServerError,
			wantCode:    "CONVERSION_FAILED",
			wantMessage: "markitdown failed: no markdown in int",
		},
		{
			name:       "timeout",
			err:        errors.Join(service.ErrTimeout, errors.New("signal: killed")),
			wantStatus: http.StatusGatewayTimeout,
			wantCode:   "CONVERSION_TIMEOUT",
		},
		{
			name:        "io failure",
			err:         errors.New("archive outputs/deck: disk full"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    "INTERNAL_ERROR",
			wantMessage: "Conversion error: archive outputs/deck: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(serviceMocks.MockConversionService)
			svc.On("Convert", mock.Anything, backend.NamePptx2md, mock.Anything, "deck.pptx").Return(nil, tt.err)

			resp, err := newTestApp(svc).Test(uploadRequest(t, "/convert/pptx2md", "file", "deck.pptx", []byte("x")))
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			body := decodeError(t, resp)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, body.Error.Message)
			}
			assert.NotEmpty(t, body.RequestID)
		})
	}
}

func TestListConversions(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := new(serviceMocks.MockConversionService)
		svc.On("List", mock.Anything, 5, 10).Return(&service.ConversionListResult{
			Items: []model.Conversion{{ID: convID, Backend: "pandoc", Status: model.ConversionSucceeded}},
			Total: 11,
		}, nil)

		resp, err := newTestApp(svc).Test(httptest.NewRequest(http.MethodGet, "/conversions?limit=5&offset=10", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body service.ConversionListResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, 11, body.Total)
		require.Len(t, body.Items, 1)
		assert.Equal(t, "pandoc", body.Items[0].Backend)
	})

	t.Run("invalid limit", func(t *testing.T) {
		resp, err := newTestApp(new(serviceMocks.MockConversionService)).
			Test(httptest.NewRequest(http.MethodGet, "/conversions?limit=ten", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_LIMIT", decodeError(t, resp).Error.Code)
	})

	t.Run("invalid offset", func(t *testing.T) {
		resp, err := newTestApp(new(serviceMocks.MockConversionService)).
			Test(httptest.NewRequest(http.MethodGet, "/conversions?offset=-x", nil))
		require.NoError(t, err)
		assert.Equal(t, "INVALID_OFFSET", decodeError(t, resp).Error.Code)
	})

	t.Run("history disabled", func(t *testing.T) {
		svc := new(serviceMocks.MockConversionService)
		svc.On("List", mock.Anything, 10, 0).Return(nil, service.ErrHistoryDisabled)

		resp, err := newTestApp(svc).Test(httptest.NewRequest(http.MethodGet, "/conversions", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "HISTORY_DISABLED", decodeError(t, resp).Error.Code)
	})
}

func TestGetConversion(t *testing.T) {
	svc := new(serviceMocks.MockConversionService)
	svc.On("Get", mock.Anything, convID).Return(&model.Conversion{ID: convID, Stem: "deck"}, nil)
	missing := "11111111-2222-3333-4444-555555555555"
	svc.On("Get", mock.Anything, missing).Return(nil, service.ErrNotFound)
	app := newTestApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/conversions/"+convID, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var conv model.Conversion
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&conv))
	assert.Equal(t, "deck", conv.Stem)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/conversions/"+missing, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/conversions/not-a-uuid", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_ID", decodeError(t, resp).Error.Code)
}

func TestConversionArchive(t *testing.T) {
	const signed = "https://minio.local/archives/conversions/x/conversion_deck.zip?X-Amz-Signature=abc"
	local := "11111111-2222-3333-4444-555555555555"

	svc := new(serviceMocks.MockConversionService)
	svc.On("ArchiveURL", mock.Anything, convID).Return(signed, nil)
	svc.On("ArchiveURL", mock.Anything, local).Return("", service.ErrNoArchive)
	app := newTestApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/conversions/"+convID+"/archive", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, signed, resp.Header.Get("Location"))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/conversions/"+local+"/archive", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "ARCHIVE_NOT_FOUND", decodeError(t, resp).Error.Code)
}

func TestMetricsAndDocsRoutes(t *testing.T) {
	app := newTestApp(new(serviceMocks.MockConversionService))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "/convert/pandoc")
}

func TestErrorHandler(t *testing.T) {
	app := newTestApp(new(serviceMocks.MockConversionService))
	app.Get("/explode", func(c *fiber.Ctx) error { return errors.New("boom") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/explode", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decodeError(t, resp)
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	assert.Equal(t, "internal server error", body.Error.Message)
}
