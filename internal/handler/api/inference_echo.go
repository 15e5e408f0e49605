package api

import (
	"context"
	"net/http"

	"FinCast/internal/domain/errs"
	models "FinCast/internal/domain/models"
	xhttp "FinCast/pkg/http"
	xlogger "FinCast/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Inference is the use case behind the inference routes.
type Inference interface {
	Value(ctx context.Context, token string) (float64, error)
	Volatility(ctx context.Context, token string) (float64, error)
	ModelReady() bool
}

// InferenceEchoHandler serves the plain-text inference endpoints.
type InferenceEchoHandler struct {
	logger     *xlogger.Logger
	uc         Inference
	middleware []echo.MiddlewareFunc
}

// NewInferenceEchoHandler builds the handler. mw wraps only the /inference
// group (rate limiting), never /healthz.
func NewInferenceEchoHandler(logger *xlogger.Logger, uc Inference, mw ...echo.MiddlewareFunc) *InferenceEchoHandler {
	return &InferenceEchoHandler{logger: logger, uc: uc, middleware: mw}
}

func (h *InferenceEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/inference", h.middleware...)
	g.GET("/value/:token", h.Value)
	g.GET("/volatility/:token", h.Volatility)
}

func (h *InferenceEchoHandler) Value(c echo.Context) error {
	token, err := bindToken(c)
	if err != nil {
		return err
	}
	v, err := h.uc.Value(c.Request().Context(), token)
	if err != nil {
		return err
	}
	return xhttp.FloatResponse(c, v)
}

func (h *InferenceEchoHandler) Volatility(c echo.Context) error {
	token, err := bindToken(c)
	if err != nil {
		return err
	}
	v, err := h.uc.Volatility(c.Request().Context(), token)
	if err != nil {
		return err
	}
	return xhttp.FloatResponse(c, v)
}

// Health reports whether the forecasting model is loaded.
func (h *InferenceEchoHandler) Health(c echo.Context) error {
	if !h.uc.ModelReady() {
		return xhttp.ServiceUnavailableError("model not loaded")
	}
	return xhttp.TextResponse(c, http.StatusOK, "ok")
}

// bindToken validates the :token path parameter. Anything that cannot be a
// ticker is reported the same way as an unknown ticker.
func bindToken(c echo.Context) (string, error) {
	req := &models.TokenRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return "", &errs.UnsupportedTokenError{Token: c.Param("token")}
	}
	return req.Token, nil
}
