package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xy2yp/Artify/internal/promptapi"
	"github.com/xy2yp/Artify/internal/slicer"
	"github.com/xy2yp/Artify/internal/usecase"
)

// respondWithError translates domain errors into HTTP responses. Backend
// 4xx statuses pass through so clients see auth and validation outcomes;
// backend 5xx and transport failures surface as 502.
func (h *Handler) respondWithError(c *gin.Context, err error) {
	var reqErr *promptapi.RequestError

	switch {
	case errors.As(err, &reqErr):
		switch {
		case reqErr.Status == http.StatusNotFound:
			h.RespondWithJSON(c, http.StatusNotFound, "prompt not found", nil)
		case reqErr.Status >= http.StatusInternalServerError:
			h.RespondWithJSON(c, http.StatusBadGateway, "prompt backend unavailable", nil)
		default:
			h.RespondWithJSON(c, reqErr.Status, "prompt backend rejected the request", nil)
		}
	case errors.Is(err, promptapi.ErrUnreachable):
		h.RespondWithJSON(c, http.StatusBadGateway, "prompt backend unreachable", nil)
	case errors.Is(err, slicer.ErrImageDecode):
		h.RespondWithJSON(c, http.StatusBadRequest, "could not decode image", nil)
	case errors.Is(err, slicer.ErrNoImage):
		h.RespondWithJSON(c, http.StatusBadRequest, "no image provided", nil)
	case errors.Is(err, slicer.ErrInvalidGrid):
		h.RespondWithJSON(c, http.StatusBadRequest, "grid dimensions must be positive", nil)
	case errors.Is(err, slicer.ErrBadFillColor):
		h.RespondWithJSON(c, http.StatusBadRequest, "fill color must be #RGB or #RRGGBB", nil)
	case errors.Is(err, slicer.ErrInsufficientCuts):
		h.RespondWithJSON(c, http.StatusUnprocessableEntity, "no cut lines on either axis", nil)
	case errors.Is(err, usecase.ErrArchiverUnavailable):
		h.RespondWithJSON(c, http.StatusServiceUnavailable, "archive packaging unavailable", nil)
	default:
		h.RespondWithInternalServerError(c)
	}
}
