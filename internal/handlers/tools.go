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

const toolPath = "/alat"

type ToolHandler struct {
	tools  *repository.Tools
	events activity.Publisher
	log    *zap.Logger
}

func NewToolHandler(tools *repository.Tools, events activity.Publisher, log *zap.Logger) *ToolHandler {
	return &ToolHandler{tools: tools, events: events, log: log}
}

func (h *ToolHandler) Create(c *gin.Context) {
	ident, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	var form models.ToolForm
	if err := c.ShouldBind(&form); err != nil {
		redirectWithFlash(c, toolPath, session.FlashError, "Data alat tidak valid.")
		return
	}

	tool := &models.Tool{
		NamaAlat:     strings.TrimSpace(form.NamaAlat),
		Merk:         strings.TrimSpace(form.Merk),
		Kategori:     strings.TrimSpace(form.Kategori),
		Ketersediaan: models.ParseQuantity(form.Ketersediaan),
		Kondisi:      strings.TrimSpace(form.Kondisi),
		CreatedBy:    ident.Name,
		CreatedByUID: ident.UID,
	}
	if err := h.tools.Create(c.Request.Context(), tool); err != nil {
		h.log.Error("tool create failed", zap.String("uid", ident.UID), zap.Error(err))
		redirectWithFlash(c, toolPath, session.FlashError, "Gagal menambahkan alat.")
		return
	}

	publish(c, h.events, activity.NewEvent(activity.EventCreated, ident.UID, models.CollectionTools, tool.ID, tool))
	redirectWithFlash(c, toolPath, session.FlashSuccess, "Alat "+tool.Kode+" berhasil ditambahkan.")
}

func (h *ToolHandler) Update(c *gin.Context) {
	ident, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	var form models.ToolForm
	if err := c.ShouldBind(&form); err != nil {
		redirectWithFlash(c, toolPath, session.FlashError, "Data alat tidak valid.")
		return
	}

	id := strings.TrimSpace(form.ID)
	changes := repository.ToolChanges{
		NamaAlat:     strings.TrimSpace(form.NamaAlat),
		Merk:         strings.TrimSpace(form.Merk),
		Kategori:     strings.TrimSpace(form.Kategori),
		Ketersediaan: models.ParseQuantity(form.Ketersediaan),
		Kondisi:      strings.TrimSpace(form.Kondisi),
	}
	if err := h.tools.Update(c.Request.Context(), id, changes); err != nil {
		h.log.Error("tool update failed", zap.String("id", id), zap.Error(err))
		redirectWithFlash(c, toolPath, session.FlashError, "Gagal memperbarui alat.")
		return
	}

	publish(c, h.events, activity.NewEvent(activity.EventUpdated, ident.UID, models.CollectionTools, id, map[string]any{
		"ketersediaan": changes.Ketersediaan,
		"kondisi":      changes.Kondisi,
	}))
	redirectWithFlash(c, toolPath, session.FlashSuccess, "Alat berhasil diperbarui.")
}
