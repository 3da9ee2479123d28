package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	models "PriceCast/internal/domain/models"
	"PriceCast/internal/usecase"
	xhttp "PriceCast/pkg/http"
	xlogger "PriceCast/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ForecastHandler implements the Echo-based HTTP surface of the pipeline.
type ForecastHandler struct {
	logger   *xlogger.Logger
	pipeline *usecase.Pipeline
}

func NewForecastHandler(logger *xlogger.Logger, pipeline *usecase.Pipeline) *ForecastHandler {
	return &ForecastHandler{logger: logger, pipeline: pipeline}
}

func (h *ForecastHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/fetch", h.Fetch)
	g.POST("/train", h.Train)
	g.POST("/predict", h.Predict)
	g.POST("/mode", h.SetMode)
	g.POST("/reset", h.Reset)
	g.GET("/state", h.State)
	g.GET("/chart", h.Chart)
	g.GET("/prefs", h.GetPrefs)
	g.POST("/prefs", h.SetPrefs)
	g.GET("/model/export", h.ExportModel)
	g.POST("/model/import", h.ImportModel)
	g.DELETE("/model", h.DeleteModel)
	g.GET("/progress", h.Progress)
}

func (h *ForecastHandler) Fetch(c echo.Context) error {
	req := &models.FetchRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	series, err := h.pipeline.Fetch(c.Request().Context(), *req)
	if err != nil {
		h.logger.Error("fetch usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapDomainError(err))
	}
	return xhttp.SuccessResponse(c, series)
}

func (h *ForecastHandler) Train(c echo.Context) error {
	req := &models.TrainRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.pipeline.Train(c.Request().Context(), *req)
	if err != nil {
		h.logger.Error("train usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapDomainError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ForecastHandler) Predict(c echo.Context) error {
	req := &models.PredictRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	forecast, err := h.pipeline.Predict(c.Request().Context(), *req)
	if err != nil {
		h.logger.Error("predict usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapDomainError(err))
	}
	return xhttp.SuccessResponse(c, forecast)
}

func (h *ForecastHandler) SetMode(c echo.Context) error {
	req := &models.ModeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if err := h.pipeline.SetMode(models.Mode(req.Mode)); err != nil {
		// Probe failure is a recoverable condition: mode stays mock and the
		// state snapshot tells the caller what happened.
		h.logger.Warn("live engine unavailable", xlogger.Error(err))
	}
	return xhttp.SuccessResponse(c, h.pipeline.State(c.Request().Context()))
}

func (h *ForecastHandler) Reset(c echo.Context) error {
	if err := h.pipeline.ResetAll(c.Request().Context()); err != nil {
		h.logger.Error("reset usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapDomainError(err))
	}
	return xhttp.SuccessResponse(c, h.pipeline.State(c.Request().Context()))
}

func (h *ForecastHandler) State(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.pipeline.State(c.Request().Context()))
}

type chartResponse struct {
	Points    []models.ChartPoint `json:"points"`
	LossTrace []float64           `json:"loss_trace"`
}

func (h *ForecastHandler) Chart(c echo.Context) error {
	return xhttp.SuccessResponse(c, chartResponse{
		Points:    h.pipeline.Chart(),
		LossTrace: h.pipeline.LossTrace(),
	})
}

func (h *ForecastHandler) GetPrefs(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.pipeline.GetPrefs())
}

func (h *ForecastHandler) SetPrefs(c echo.Context) error {
	req := &models.PrefsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	prefs, err := h.pipeline.SetPrefs(c.Request().Context(), *req)
	if err != nil {
		h.logger.Error("prefs usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapDomainError(err))
	}
	return xhttp.SuccessResponse(c, prefs)
}

func (h *ForecastHandler) ExportModel(c echo.Context) error {
	handle, err := h.pipeline.Export(c.Request().Context())
	if err != nil {
		h.logger.Error("export usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapDomainError(err))
	}

	name := "pricecast-model-" + time.Now().UTC().Format("20060102") + ".json"
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.JSON(http.StatusOK, handle)
}

const maxModelUpload = 16 << 20

func (h *ForecastHandler) ImportModel(c echo.Context) error {
	fh, err := c.FormFile("model")
	if err != nil {
		return xhttp.BadRequestResponse(c, "model file required")
	}
	f, err := fh.Open()
	if err != nil {
		return xhttp.BadRequestResponse(c, "model file unreadable")
	}
	defer f.Close()

	handle := &models.ModelHandle{}
	if err := json.NewDecoder(io.LimitReader(f, maxModelUpload)).Decode(handle); err != nil {
		return xhttp.BadRequestResponse(c, "model file is not valid JSON")
	}

	if err := h.pipeline.Import(c.Request().Context(), handle); err != nil {
		h.logger.Error("import usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapDomainError(err))
	}
	return xhttp.SuccessResponse(c, h.pipeline.State(c.Request().Context()))
}

func (h *ForecastHandler) DeleteModel(c echo.Context) error {
	if err := h.pipeline.DeletePersisted(c.Request().Context()); err != nil {
		h.logger.Error("delete usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapDomainError(err))
	}
	return xhttp.SuccessResponse(c, h.pipeline.State(c.Request().Context()))
}

// mapDomainError translates domain sentinels into transport errors.
func mapDomainError(err error) error {
	switch {
	case errors.Is(err, models.ErrBusy):
		return xhttp.ConflictError(err.Error()).WithError(err)
	case errors.Is(err, models.ErrNoData), errors.Is(err, models.ErrInsufficientData):
		return xhttp.UnprocessableError(err.Error()).WithError(err)
	case errors.Is(err, models.ErrMockMode), errors.Is(err, models.ErrInvalidModel):
		return xhttp.BadRequestError(err.Error()).WithError(err)
	case errors.Is(err, models.ErrStorageUnavailable):
		return xhttp.ServiceUnavailableError(err.Error()).WithError(err)
	case errors.Is(err, models.ErrNothingToDelete), errors.Is(err, models.ErrModelNotFound):
		return xhttp.NotFoundError(err.Error()).WithError(err)
	case errors.Is(err, models.ErrInvalidResponse):
		return xhttp.BadGatewayError(err.Error()).WithError(err)
	default:
		return xhttp.InternalError(err.Error()).WithError(err)
	}
}
