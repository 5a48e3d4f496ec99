package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rx-line/internal/repository"
)

// AdminHandler expone el registro de recetas al farmacéutico.
type AdminHandler struct {
	prescriptions repository.PrescriptionRepository
	logger        *zap.Logger
}

func NewAdminHandler(prescriptions repository.PrescriptionRepository, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{prescriptions: prescriptions, logger: logger}
}

func (h *AdminHandler) ListPrescriptions(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	items, err := h.prescriptions.ListRecent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("list prescriptions failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	h.logger.Info("prescriptions listed", zap.String("operator", AdminOperator(c)), zap.Int("count", len(items)))
	c.JSON(http.StatusOK, gin.H{"prescriptions": items})
}
