package rest

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"sekaiDeckRecommend/domain"
	"sekaiDeckRecommend/pkg/metrics"
)

type (
	RecommendHandler struct {
		validate         *validator.Validate
		recommendService RecommendService
	}

	RecommendService interface {
		Recommend(req *domain.RecommendRequest) (*domain.RecommendResponse, error)
		MusicLeaderboard(req *domain.MusicLeaderboardRequest) (*domain.MusicLeaderboardResponse, error)
		CacheUserdata(body []byte) (string, error)
		UpdateData(region domain.Region, mdPath string, mdVersion int64, mmPath string, mmTs int64) error
	}

	UpdateDataRequest struct {
		Region             domain.Region `json:"region" validate:"required,oneof=jp en tw kr cn"`
		MasterdataPath     string        `json:"masterdata_path" validate:"required"`
		MasterdataUpdateTs int64         `json:"masterdata_update_ts"`
		MusicmetasPath     string        `json:"musicmetas_path" validate:"required"`
		MusicmetasUpdateTs int64         `json:"musicmetas_update_ts"`
	}

	CacheUserdataResponse struct {
		Hash string `json:"hash"`
	}
)

func NewRecommendHandler(svc RecommendService) *RecommendHandler {
	return &RecommendHandler{
		validate:         validator.New(),
		recommendService: svc,
	}
}

// Recommend answers with the service's own envelope: the success shape with
// decks, or status=error with the exception message.
func (h *RecommendHandler) Recommend(c echo.Context) error {
	start := time.Now()
	defer func() {
		metrics.RecommendLatency.Observe(time.Since(start).Seconds())
		metrics.RecommendRequests.Inc()
	}()

	var req domain.RecommendRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, domain.RecommendResponse{Status: "error", Exception: err.Error()})
	}

	resp, err := h.recommendService.Recommend(&req)
	if err != nil {
		return c.JSON(statusForError(err), domain.RecommendResponse{Status: "error", Exception: err.Error()})
	}
	return c.JSON(http.StatusOK, resp)
}

// MusicLeaderboard ranks all songs for a fixed reference deck.
func (h *RecommendHandler) MusicLeaderboard(c echo.Context) error {
	var req domain.MusicLeaderboardRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, domain.MusicLeaderboardResponse{Status: "error", Exception: err.Error()})
	}

	resp, err := h.recommendService.MusicLeaderboard(&req)
	if err != nil {
		return c.JSON(statusForError(err), domain.MusicLeaderboardResponse{Status: "error", Exception: err.Error()})
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *RecommendHandler) CacheUserdata(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	hash, err := h.recommendService.CacheUserdata(body)
	if err != nil {
		return c.JSON(statusForError(err), ResponseError{Message: err.Error()})
	}
	metrics.SnapshotUploads.Inc()
	return c.JSON(http.StatusOK, fres.Response.StatusOK(CacheUserdataResponse{Hash: hash}))
}

func (h *RecommendHandler) UpdateData(c echo.Context) error {
	var req UpdateDataRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	err := h.recommendService.UpdateData(req.Region,
		req.MasterdataPath, req.MasterdataUpdateTs,
		req.MusicmetasPath, req.MusicmetasUpdateTs)
	if err != nil {
		return c.JSON(statusForError(err), ResponseError{Message: err.Error()})
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(nil))
}

func (h *RecommendHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]string{"status": "ok"}))
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidOption):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDataUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
