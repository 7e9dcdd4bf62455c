package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GKRMP/garage/internal/api/middleware"
	"github.com/GKRMP/garage/internal/service"
	apperrors "github.com/GKRMP/garage/pkg/errors"
)

// HandleListCatalog handles GET /catalog/list
func HandleListCatalog(svc *service.GarageService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, err := svc.ListCatalog(c.Request.Context())
		if err != nil {
			respondError(c, logger, "Failed to list catalog", err)
			return
		}
		if resp.Truncated {
			logger.Warn("Catalog listing hit the page limit", zap.Int("count", resp.Count))
		}
		c.JSON(http.StatusOK, resp)
	}
}

// respondError writes the uniform {error, errors?} body with the status for err
func respondError(c *gin.Context, logger *zap.Logger, msg string, err error) {
	status := apperrors.StatusCode(err)
	fields := []zap.Field{
		zap.Error(err),
		zap.Int("status", status),
		zap.String("request_id", middleware.GetRequestID(c)),
	}
	if status >= http.StatusInternalServerError {
		logger.Error(msg, fields...)
	} else {
		logger.Warn(msg, fields...)
	}
	c.JSON(status, apperrors.Body(err))
}
