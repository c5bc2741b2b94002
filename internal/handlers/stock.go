package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"rakitin/internal/activity"
	"rakitin/internal/middleware"
	"rakitin/internal/models"
	"rakitin/internal/repository"
	"rakitin/internal/session"
)

const stockPath = "/stok"

type StockHandler struct {
	stock  *repository.Stock
	events activity.Publisher
	log    *zap.Logger
}

func NewStockHandler(stock *repository.Stock, events activity.Publisher, log *zap.Logger) *StockHandler {
	return &StockHandler{stock: stock, events: events, log: log}
}

func (h *StockHandler) Create(c *gin.Context) {
	ident, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	var form models.StockForm
	if err := c.ShouldBind(&form); err != nil {
		redirectWithFlash(c, stockPath, session.FlashError, "Data barang tidak valid.")
		return
	}

	item := &models.StockItem{
		NamaBarang:    strings.TrimSpace(form.NamaBarang),
		SKU:           strings.TrimSpace(form.SKU),
		Kategori:      strings.TrimSpace(form.Kategori),
		Stok:          models.ParseQuantity(form.Stok),
		Satuan:        strings.TrimSpace(form.Satuan),
		CreatedByUID:  ident.UID,
		CreatedByName: ident.Name,
	}
	if err := h.stock.Create(c.Request.Context(), item); err != nil {
		h.log.Error("stock create failed", zap.String("uid", ident.UID), zap.Error(err))
		redirectWithFlash(c, stockPath, session.FlashError, "Gagal menambahkan barang.")
		return
	}

	publish(c, h.events, activity.NewEvent(activity.EventCreated, ident.UID, models.CollectionStock, item.ID, item))
	redirectWithFlash(c, stockPath, session.FlashSuccess, "Barang berhasil ditambahkan.")
}

func (h *StockHandler) Update(c *gin.Context) {
	ident, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	var form models.StockForm
	if err := c.ShouldBind(&form); err != nil {
		redirectWithFlash(c, stockPath, session.FlashError, "Data barang tidak valid.")
		return
	}

	id := strings.TrimSpace(form.ID)
	changes := repository.StockChanges{
		NamaBarang: strings.TrimSpace(form.NamaBarang),
		SKU:        strings.TrimSpace(form.SKU),
		Kategori:   strings.TrimSpace(form.Kategori),
		Stok:       models.ParseQuantity(form.Stok),
		Satuan:     strings.TrimSpace(form.Satuan),
	}
	if err := h.stock.Update(c.Request.Context(), id, changes); err != nil {
		h.log.Error("stock update failed", zap.String("id", id), zap.Error(err))
		redirectWithFlash(c, stockPath, session.FlashError, "Gagal memperbarui barang.")
		return
	}

	publish(c, h.events, activity.NewEvent(activity.EventUpdated, ident.UID, models.CollectionStock, id, map[string]any{
		"nama_barang": changes.NamaBarang,
		"stok":        changes.Stok,
	}))
	redirectWithFlash(c, stockPath, session.FlashSuccess, "Barang berhasil diperbarui.")
}
