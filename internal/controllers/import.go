package controllers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/services"
	"inventory-system/pkg/api"
	apperrors "inventory-system/pkg/errors"
)

type ImportController struct {
	importService *services.ImportService
	logger        *zap.Logger
}

func NewImportController(importService *services.ImportService, logger *zap.Logger) *ImportController {
	return &ImportController{importService: importService, logger: logger}
}

// ImportBatch accepts a multipart upload under the "file" field. The format
// is picked by extension: .xlsx goes through the workbook reader, anything
// else is treated as CSV.
func (c *ImportController) ImportBatch(ctx echo.Context) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "file field is required", err, nil))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "cannot open uploaded file", err, nil))
	}
	defer src.Close()

	var result *dto.BatchResult
	if strings.EqualFold(filepath.Ext(fileHeader.Filename), ".xlsx") {
		result, err = c.importService.ImportXLSX(ctx.Request().Context(), src)
	} else {
		result, err = c.importService.ImportCSV(ctx.Request().Context(), src)
	}
	if err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "import failed", err, nil))
	}
	return api.SuccessOne(ctx, http.StatusOK, "import finished", result)
}
