package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"rakitin/internal/activity"
	"rakitin/internal/middleware"
	"rakitin/internal/models"
	"rakitin/internal/services"
	"rakitin/internal/session"
)

const designPath = "/desain"

const tooLargeMessage = "Ukuran file terlalu besar. Maksimal 800 KB."

type DesignHandler struct {
	designs *services.DesignService
	events  activity.Publisher
	log     *zap.Logger
}

func NewDesignHandler(designs *services.DesignService, events activity.Publisher, log *zap.Logger) *DesignHandler {
	return &DesignHandler{designs: designs, events: events, log: log}
}

func (h *DesignHandler) Create(c *gin.Context) {
	ident, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	var form models.DesignForm
	if err := c.ShouldBind(&form); err != nil {
		redirectWithFlash(c, designPath, session.FlashError, "Data desain tidak valid.")
		return
	}

	d, err := h.designs.Create(c.Request.Context(), form, h.designFile(c), services.Author{UID: ident.UID, Name: ident.Name})
	if err != nil {
		if services.IsTooLarge(err) {
			redirectWithFlash(c, designPath, session.FlashError, tooLargeMessage)
			return
		}
		h.log.Error("design create failed", zap.String("uid", ident.UID), zap.Error(err))
		redirectWithFlash(c, designPath, session.FlashError, "Gagal mengunggah desain.")
		return
	}

	publish(c, h.events, activity.NewEvent(activity.EventCreated, ident.UID, models.CollectionDesigns, d.ID, map[string]string{
		"id_berkas":   d.IDBerkas,
		"nama_proyek": d.NamaProyek,
		"status":      d.Status,
	}))
	redirectWithFlash(c, designPath, session.FlashSuccess, "Desain "+d.IDBerkas+" berhasil diunggah.")
}

func (h *DesignHandler) Update(c *gin.Context) {
	ident, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	var form models.DesignForm
	if err := c.ShouldBind(&form); err != nil {
		redirectWithFlash(c, designPath, session.FlashError, "Data desain tidak valid.")
		return
	}

	err := h.designs.Update(c.Request.Context(), form, h.designFile(c), services.Author{UID: ident.UID, Name: ident.Name})
	switch {
	case err == nil:
	case services.IsTooLarge(err):
		redirectWithFlash(c, designPath, session.FlashError, tooLargeMessage)
		return
	case errors.Is(err, services.ErrMissingID):
		redirectWithFlash(c, designPath, session.FlashError, "Berkas desain tidak dipilih.")
		return
	default:
		h.log.Error("design update failed", zap.String("id", form.ID), zap.Error(err))
		redirectWithFlash(c, designPath, session.FlashError, "Gagal memperbarui desain.")
		return
	}

	publish(c, h.events, activity.NewEvent(activity.EventUpdated, ident.UID, models.CollectionDesigns, form.ID, map[string]string{
		"nama_proyek": form.NamaProyek,
	}))
	redirectWithFlash(c, designPath, session.FlashSuccess, "Desain berhasil diperbarui.")
}

// UpdateStatus is the JSON endpoint behind the design status dropdown.
func (h *DesignHandler) UpdateStatus(c *gin.Context) {
	updateStatus(c, h.events, h.log, models.CollectionDesigns, h.designs.UpdateStatus)
}

// designFile returns the uploaded image, or nil when none was attached.
func (h *DesignHandler) designFile(c *gin.Context) *multipart.FileHeader {
	fh, err := c.FormFile(models.DesignFileField)
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
			h.log.Warn("design upload unreadable", zap.Error(err))
		}
		return nil
	}
	return fh
}
