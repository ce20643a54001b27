// Package server exposes workbook builds over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"github.com/klytics/sheetkit/internal/definition"
	"github.com/klytics/sheetkit/internal/formats/xlsx"
	"github.com/klytics/sheetkit/internal/workbook"
)

// ContentTypeXLSX is the media type of a built workbook.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// MaxDefinitionSize caps the request body of POST /workbooks. Larger bodies
// get a 413.
const MaxDefinitionSize = 8 << 20

const bodyLimit = "8M"

// WorkbookHandler builds workbooks from definitions posted to it.
type WorkbookHandler struct {
	HeaderStyle xlsx.Style
}

// NewWorkbookHandler returns a handler whose workbooks use headerStyle.
func NewWorkbookHandler(headerStyle xlsx.Style) *WorkbookHandler {
	return &WorkbookHandler{HeaderStyle: headerStyle}
}

// New returns an echo instance with the workbook routes registered.
func New(headerStyle xlsx.Style) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))

	h := NewWorkbookHandler(headerStyle)
	e.GET("/healthz", Healthz)
	e.POST("/workbooks", h.Build, middleware.BodyLimit(bodyLimit))

	return e
}

// Run serves e on addr until ctx is cancelled.
func Run(ctx context.Context, e *echo.Echo, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("serving")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// Healthz reports that the server is up.
func Healthz(c echo.Context) error {
	return responseSuccess(c, http.StatusOK, "ok", nil)
}

// Build parses a YAML or JSON definition from the request body and responds
// with the built workbook as an attachment. Bad definitions get a 400,
// oversized bodies a 413, build failures a 500.
func (h *WorkbookHandler) Build(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, MaxDefinitionSize+1))
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return responseError(c, he.Code, "could not read request body", err)
		}
		return responseError(c, http.StatusBadRequest, "could not read request body", err)
	}
	if len(body) > MaxDefinitionSize {
		return responseError(c, http.StatusRequestEntityTooLarge, "definition too large",
			fmt.Errorf("request body exceeds %d bytes", MaxDefinitionSize))
	}

	def, err := definition.Parse(body)
	if err != nil {
		return responseError(c, http.StatusBadRequest, "invalid workbook definition", err)
	}

	dir, err := os.MkdirTemp("", "sheetkit-serve-*")
	if err != nil {
		return responseError(c, http.StatusInternalServerError, "could not build workbook", err)
	}
	defer os.RemoveAll(dir)

	filename := attachmentName(def.Output)
	dest := filepath.Join(dir, filename)

	b := workbook.NewBuilder().WithHeaderStyle(h.HeaderStyle)
	def.Apply(b)
	manifest, err := b.WithPath(dest).WithOverwriteFile().Build()
	if err != nil {
		log.Error().Err(err).Msg("build failed")
		return responseError(c, http.StatusInternalServerError, "could not build workbook", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		return responseError(c, http.StatusInternalServerError, "could not read built workbook", err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Response().Header().Set("X-Sheetkit-Sheets", strconv.Itoa(len(manifest.Sheets)))
	c.Response().Header().Set("X-Sheetkit-Rows", strconv.Itoa(manifest.RowCount()))
	return c.Blob(http.StatusOK, ContentTypeXLSX, data)
}

func attachmentName(output string) string {
	name := filepath.Base(output)
	if output == "" || name == "." || name == string(filepath.Separator) {
		name = "workbook"
	}
	if !strings.HasSuffix(strings.ToLower(name), ".xlsx") {
		name += ".xlsx"
	}
	return name
}
