package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"rakitin/internal/activity"
	"rakitin/internal/middleware"
	"rakitin/internal/models"
	"rakitin/internal/repository"
)

type OrderHandler struct {
	orders *repository.Orders
	events activity.Publisher
	log    *zap.Logger
}

func NewOrderHandler(orders *repository.Orders, events activity.Publisher, log *zap.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, events: events, log: log}
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	updateStatus(c, h.events, h.log, models.CollectionOrders, h.orders.UpdateStatus)
}

// updateStatus is shared by the two JSON status endpoints. It accepts a JSON
// or form body with id and status.
func updateStatus(c *gin.Context, events activity.Publisher, log *zap.Logger, collection string,
	update func(ctx context.Context, id, status string) error) {
	ident, ok := middleware.RequireUserJSON(c)
	if !ok {
		return
	}

	var req models.StatusUpdateRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.StatusUpdateResponse{Success: false, Message: "Permintaan tidak valid."})
		return
	}
	id := strings.TrimSpace(req.ID)
	status := strings.TrimSpace(req.Status)
	if id == "" || status == "" {
		c.JSON(http.StatusBadRequest, models.StatusUpdateResponse{Success: false, Message: "ID dan status wajib diisi."})
		return
	}

	if err := update(c.Request.Context(), id, status); err != nil {
		log.Error("status update failed", zap.String("collection", collection), zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.StatusUpdateResponse{Success: false, Message: "Gagal memperbarui status."})
		return
	}

	publish(c, events, activity.NewEvent(activity.EventStatusChanged, ident.UID, collection, id, map[string]string{"status": status}))
	c.JSON(http.StatusOK, models.StatusUpdateResponse{
		Success: true,
		Message: "Status berhasil diperbarui.",
		ID:      id,
		Status:  status,
	})
}
