package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/xy2yp/Artify/internal/usecase"
	"github.com/xy2yp/Artify/pkg/logger"
)

const (
	internalServerErrorText = "the server encountered an error and could not process your request"
)

type response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type Handler struct {
	validate      *validator.Validate
	promptUseCase *usecase.PromptUseCase
	sliceUseCase  *usecase.SliceUseCase
}

func NewHandler(v *validator.Validate, prompts *usecase.PromptUseCase, slices *usecase.SliceUseCase) *Handler {
	return &Handler{
		validate:      v,
		promptUseCase: prompts,
		sliceUseCase:  slices,
	}
}

func (h *Handler) RespondWithInternalServerError(c *gin.Context) {
	h.RespondWithJSON(c, http.StatusInternalServerError, internalServerErrorText, nil)
}

func (h *Handler) RespondWithJSON(c *gin.Context, code int, message string, data any) {
	success := code < 400

	r := response{
		Success: success,
		Message: message,
		Data:    data,
	}

	c.JSON(code, r)
}

func loggerFrom(c *gin.Context) logger.Logger {
	if v, exists := c.Get("logger"); exists {
		if l, ok := v.(logger.Logger); ok {
			return l
		}
	}
	return logger.FromContext(c.Request.Context())
}
