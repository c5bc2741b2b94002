package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"rakitin/internal/middleware"
	"rakitin/internal/models"
	"rakitin/internal/report"
	"rakitin/internal/repository"
	"rakitin/internal/session"
)

type ReportHandler struct {
	stock *repository.Stock
	tools *repository.Tools
	log   *zap.Logger
}

func NewReportHandler(stock *repository.Stock, tools *repository.Tools, log *zap.Logger) *ReportHandler {
	return &ReportHandler{stock: stock, tools: tools, log: log}
}

// Export streams the laporan workbook. Unreadable collections export as
// empty sheets.
func (h *ReportHandler) Export(c *gin.Context) {
	if _, ok := middleware.RequireUser(c); !ok {
		return
	}
	ctx := c.Request.Context()

	items, err := h.stock.List(ctx)
	if err != nil {
		h.log.Warn("report stock list failed", zap.Error(err))
		items = []models.StockItem{}
	}
	tools, err := h.tools.List(ctx)
	if err != nil {
		h.log.Warn("report tool list failed", zap.Error(err))
		tools = []models.Tool{}
	}

	f, err := report.StockWorkbook(items, tools)
	if err != nil {
		h.log.Error("report build failed", zap.Error(err))
		redirectWithFlash(c, "/laporan", session.FlashError, "Gagal membuat laporan.")
		return
	}
	defer f.Close()

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, report.Filename(time.Now().Format("2006-01-02"))))
	c.Header("Content-Type", report.ContentType)
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		h.log.Error("report write failed", zap.Error(err))
	}
}
