package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GKRMP/garage/internal/config"
	"github.com/GKRMP/garage/internal/importer"
	"github.com/GKRMP/garage/internal/repository"
	apperrors "github.com/GKRMP/garage/pkg/errors"
)

// maxImportBytes bounds uploaded CSV files
const maxImportBytes = 10 << 20

// HandleImportCatalog handles POST /admin/catalog/import.
// The CSV is either a multipart "file" field or the raw request body.
// ?dry_run=true parses and batches without writing to the store.
func HandleImportCatalog(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		dryRun, _ := strconv.ParseBool(c.Query("dry_run"))

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes)

		var (
			body   io.Reader = c.Request.Body
			source           = "upload"
		)
		if strings.HasPrefix(c.ContentType(), "multipart/") {
			file, header, err := c.Request.FormFile("file")
			if err != nil {
				respondError(c, logger, "Invalid upload", multipartError(err))
				return
			}
			defer file.Close()
			body = file
			source = header.Filename
		}

		im := importer.New(repos.Catalog, repos.ImportRun, importer.Options{
			BatchSize:  cfg.Import.BatchSize,
			BatchDelay: cfg.Import.BatchDelay,
			DryRun:     dryRun,
			Source:     source,
		}, logger)

		summary, err := im.Run(c.Request.Context(), body)
		if err != nil {
			err = uploadError(err)
			if summary == nil {
				respondError(c, logger, "Import rejected", err)
				return
			}
			logger.Error("Import failed", zap.Error(err), zap.String("run_id", summary.Run.ID.String()))
			c.JSON(apperrors.StatusCode(err), gin.H{
				"error":   err.Error(),
				"summary": summary,
			})
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

// uploadError turns a body over maxImportBytes into a validation error
func uploadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return &apperrors.ErrValidation{Message: fmt.Sprintf("csv exceeds %d bytes", tooLarge.Limit)}
	}
	return err
}

// multipartError classifies a failed multipart read; all of them are the client's
func multipartError(err error) error {
	if errors.Is(err, http.ErrMissingFile) {
		return &apperrors.ErrValidation{Message: "multipart upload needs a \"file\" field"}
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return uploadError(err)
	}
	return &apperrors.ErrValidation{Message: fmt.Sprintf("invalid multipart upload: %v", err)}
}

// HandleGetImportRun handles GET /admin/imports/:id
func HandleGetImportRun(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			respondError(c, logger, "Invalid import run id", &apperrors.ErrValidation{Message: "invalid import run id"})
			return
		}

		run, err := repos.ImportRun.GetByID(c.Request.Context(), id)
		if err != nil {
			respondError(c, logger, "Failed to get import run", err)
			return
		}
		if run == nil {
			respondError(c, logger, "Import run not found", &apperrors.ErrNotFound{Resource: "import run", ID: id.String()})
			return
		}
		c.JSON(http.StatusOK, run)
	}
}
