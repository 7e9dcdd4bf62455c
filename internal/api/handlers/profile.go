package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GKRMP/garage/internal/service"
	apperrors "github.com/GKRMP/garage/pkg/errors"
)

// HandleGetSelection handles GET /profile/selection?customerId=
func HandleGetSelection(svc *service.GarageService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, err := svc.GetSelection(c.Request.Context(), c.Query("customerId"))
		if err != nil {
			respondError(c, logger, "Failed to get selection", err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// HandleSaveSelection handles POST /profile/selection
func HandleSaveSelection(svc *service.GarageService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.SaveSelectionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, logger, "Invalid selection body", &apperrors.ErrValidation{
				Message: "invalid request body: " + err.Error(),
			})
			return
		}

		resp, err := svc.SaveSelection(c.Request.Context(), string(req.CustomerID), req.Items)
		if err != nil {
			respondError(c, logger, "Failed to save selection", err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}
