package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xy2yp/Artify/internal/infrastructure/http/v1/dto"
	"github.com/xy2yp/Artify/internal/slicer"
	"github.com/xy2yp/Artify/internal/usecase"
	"github.com/xy2yp/Artify/pkg/logger"
)

// sliceRequest is the multipart form accompanying the image upload.
// grid_rows/grid_cols replace the cut lines with an even grid; otherwise
// horizontal/vertical offsets are used; with neither, the default 3x3
// grid applies.
type sliceRequest struct {
	Horizontal []int  `form:"horizontal"`
	Vertical   []int  `form:"vertical"`
	GridRows   int    `form:"grid_rows" validate:"omitempty,min=1,max=64"`
	GridCols   int    `form:"grid_cols" validate:"omitempty,min=1,max=64"`
	Pad        bool   `form:"pad"`
	FillColor  string `form:"fill_color" validate:"omitempty,hexcolor"`
}

func (h *Handler) Slice(c *gin.Context) {
	l := loggerFrom(c)

	tiles, ok := h.sliceFromRequest(c, l)
	if !ok {
		return
	}

	h.RespondWithJSON(c, http.StatusOK, "image sliced", dto.NewSliceResponse(tiles))
}

func (h *Handler) SliceArchive(c *gin.Context) {
	l := loggerFrom(c)

	tiles, ok := h.sliceFromRequest(c, l)
	if !ok {
		return
	}

	archive, err := h.sliceUseCase.Archive(tiles)
	if err != nil {
		l.Error("failed to archive tiles", "error", err)
		h.respondWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="slices.zip"`)
	c.Data(http.StatusOK, "application/zip", archive)
}

func (h *Handler) SliceExport(c *gin.Context) {
	l := loggerFrom(c)

	tiles, ok := h.sliceFromRequest(c, l)
	if !ok {
		return
	}

	res, err := h.sliceUseCase.Export(tiles)
	if err != nil {
		l.Error("failed to export tiles", "error", err)
		h.respondWithError(c, err)
		return
	}

	h.RespondWithJSON(c, http.StatusOK, "tiles exported", res)
}

// sliceFromRequest binds the upload and slicing options and runs the
// slice. On failure the response has already been written and ok is false.
func (h *Handler) sliceFromRequest(c *gin.Context, l logger.Logger) ([]slicer.Tile, bool) {
	var req sliceRequest
	if err := c.ShouldBind(&req); err != nil {
		h.RespondWithJSON(c, http.StatusBadRequest, "invalid slice parameters", nil)
		return nil, false
	}

	if err := h.validate.Struct(req); err != nil {
		h.RespondWithJSON(c, http.StatusUnprocessableEntity, err.Error(), nil)
		return nil, false
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		h.RespondWithJSON(c, http.StatusBadRequest, "image file is required", nil)
		return nil, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		l.Error("failed to open uploaded image", "error", err)
		h.RespondWithInternalServerError(c)
		return nil, false
	}
	defer file.Close()

	tiles, err := h.sliceUseCase.Slice(file, usecase.SliceSpec{
		Horizontal: req.Horizontal,
		Vertical:   req.Vertical,
		GridRows:   req.GridRows,
		GridCols:   req.GridCols,
		Padding: slicer.PaddingPolicy{
			Enabled:   req.Pad,
			FillColor: req.FillColor,
		},
	})
	if err != nil {
		l.Error("failed to slice image", "error", err)
		h.respondWithError(c, err)
		return nil, false
	}

	return tiles, true
}
