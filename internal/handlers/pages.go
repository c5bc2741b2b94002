package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"rakitin/internal/dashboard"
	"rakitin/internal/middleware"
	"rakitin/internal/models"
	"rakitin/internal/repository"
	"rakitin/internal/roles"
	"rakitin/internal/session"
)

// PageHandler serves the role-namespaced GET views. Read failures are logged
// and the page renders with empty data.
type PageHandler struct {
	repos      *repository.Repositories
	aggregator *dashboard.Aggregator
	log        *zap.Logger
}

func NewPageHandler(repos *repository.Repositories, aggregator *dashboard.Aggregator, log *zap.Logger) *PageHandler {
	return &PageHandler{repos: repos, aggregator: aggregator, log: log}
}

type pageLoader func(h *PageHandler, ctx context.Context, ident *session.Identity) any

var pageTitles = map[string]string{
	"dashboard":       "Dashboard",
	"stok":            "Stok Barang",
	"chat":            "Chat",
	"logs":            "Log Aktivitas",
	"laporan":         "Laporan",
	"desain":          "Berkas Desain",
	"logrevisi":       "Log Revisi",
	"alat":            "Alat",
	"logpekerjaan":    "Log Pekerjaan",
	"manajemenproyek": "Manajemen Proyek",
	"profil":          "Profil",
}

var pageLoaders = map[string]pageLoader{
	"dashboard":       (*PageHandler).dashboardData,
	"stok":            (*PageHandler).stockData,
	"laporan":         (*PageHandler).stockData,
	"alat":            (*PageHandler).toolData,
	"logpekerjaan":    (*PageHandler).toolData,
	"desain":          (*PageHandler).designData,
	"logrevisi":       (*PageHandler).designData,
	"manajemenproyek": (*PageHandler).designData,
	"profil":          (*PageHandler).profileData,
}

// Pages lists every view path served by View.
func Pages() []string {
	return []string{"dashboard", "stok", "chat", "logs", "laporan", "desain",
		"logrevisi", "alat", "logpekerjaan", "manajemenproyek", "profil"}
}

// View returns the handler for one page.
func (h *PageHandler) View(page string) gin.HandlerFunc {
	load := pageLoaders[page]
	title := pageTitles[page]
	return func(c *gin.Context) {
		ident, ok := middleware.RequireUser(c)
		if !ok {
			return
		}
		var data any
		if load != nil {
			data = load(h, c.Request.Context(), ident)
		}
		renderPage(c, ident, page, title, data)
	}
}

func (h *PageHandler) dashboardData(ctx context.Context, ident *session.Identity) any {
	if ident.Role != roles.TokoBangunan {
		return nil
	}
	return h.aggregator.Summary(ctx)
}

func (h *PageHandler) stockData(ctx context.Context, _ *session.Identity) any {
	items, err := h.repos.Stock.List(ctx)
	if err != nil {
		h.log.Warn("stock list failed", zap.Error(err))
		return []models.StockItem{}
	}
	return items
}

func (h *PageHandler) toolData(ctx context.Context, _ *session.Identity) any {
	tools, err := h.repos.Tools.List(ctx)
	if err != nil {
		h.log.Warn("tool list failed", zap.Error(err))
		return []models.Tool{}
	}
	return tools
}

func (h *PageHandler) designData(ctx context.Context, _ *session.Identity) any {
	designs, err := h.repos.Designs.List(ctx)
	if err != nil {
		h.log.Warn("design list failed", zap.Error(err))
		return []models.DesignFile{}
	}
	return designs
}

func (h *PageHandler) profileData(ctx context.Context, ident *session.Identity) any {
	user, err := h.repos.Users.Get(ctx, ident.UID)
	if err != nil {
		h.log.Warn("profile read failed", zap.String("uid", ident.UID), zap.Error(err))
		return (*models.User)(nil)
	}
	return user
}
