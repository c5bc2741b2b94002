package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"rakitin/internal/activity"
	"rakitin/internal/auth"
	"rakitin/internal/middleware"
	"rakitin/internal/models"
	"rakitin/internal/repository"
	"rakitin/internal/roles"
	"rakitin/internal/session"
)

// DefaultDisplayName is used when a profile has no name.
const DefaultDisplayName = "Admin"

type AuthHandler struct {
	identity auth.IdentityProvider
	users    *repository.Users
	sessions *session.Manager
	events   activity.Publisher
	log      *zap.Logger
}

func NewAuthHandler(identity auth.IdentityProvider, users *repository.Users, sessions *session.Manager, events activity.Publisher, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		identity: identity,
		users:    users,
		sessions: sessions,
		events:   events,
		log:      log,
	}
}

func (h *AuthHandler) Index(c *gin.Context) {
	if _, ok := session.Current(c); ok {
		c.Redirect(http.StatusFound, middleware.DashboardPath)
		return
	}
	c.Redirect(http.StatusFound, middleware.LoginPath)
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	if _, ok := session.Current(c); ok {
		c.Redirect(http.StatusFound, middleware.DashboardPath)
		return
	}
	renderGuest(c, "login", "Masuk", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var form models.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		session.AddFlash(c, session.FlashError, "Email dan password wajib diisi.")
		renderGuest(c, "login", "Masuk", nil)
		return
	}
	email := strings.TrimSpace(form.Email)

	account, err := h.identity.SignIn(c.Request.Context(), email, form.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			session.AddFlash(c, session.FlashError, "Email atau password salah.")
		} else {
			h.log.Error("sign in failed", zap.String("email", email), zap.Error(err))
			session.AddFlash(c, session.FlashError, "Layanan login sedang tidak tersedia. Coba lagi nanti.")
		}
		renderGuest(c, "login", "Masuk", nil)
		return
	}

	user, err := h.users.Get(c.Request.Context(), account.UID)
	if err != nil {
		if !repository.IsNotFound(err) {
			h.log.Error("profile lookup failed", zap.String("uid", account.UID), zap.Error(err))
		}
		session.AddFlash(c, session.FlashError, "Data profil tidak ditemukan di database.")
		renderGuest(c, "login", "Masuk", nil)
		return
	}

	name := strings.TrimSpace(user.Name)
	if name == "" {
		name = DefaultDisplayName
	}
	ident := &session.Identity{
		UID:   account.UID,
		Email: account.Email,
		Name:  name,
		Role:  roles.Resolve(user.Role),
	}
	if ident.Email == "" {
		ident.Email = email
	}
	if err := h.sessions.Start(c, ident); err != nil {
		h.log.Error("session start failed", zap.String("uid", ident.UID), zap.Error(err))
		session.AddFlash(c, session.FlashError, "Gagal membuat sesi. Coba lagi.")
		renderGuest(c, "login", "Masuk", nil)
		return
	}

	publish(c, h.events, activity.NewEvent(activity.EventSignedIn, ident.UID, models.CollectionUsers, ident.UID, nil))
	redirectWithFlash(c, middleware.DashboardPath, session.FlashSuccess, fmt.Sprintf("Selamat datang kembali, %s!", name))
}

func (h *AuthHandler) RegisterPage(c *gin.Context) {
	renderGuest(c, "register", "Daftar", roles.All())
}

func (h *AuthHandler) Register(c *gin.Context) {
	var form models.RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		session.AddFlash(c, session.FlashError, "Nama, email dan password (minimal 6 karakter) wajib diisi.")
		renderGuest(c, "register", "Daftar", roles.All())
		return
	}

	role := roles.Default
	if strings.TrimSpace(form.Role) != "" {
		parsed, err := roles.Parse(form.Role)
		if err != nil {
			session.AddFlash(c, session.FlashError, "Peran tidak dikenal.")
			renderGuest(c, "register", "Daftar", roles.All())
			return
		}
		role = parsed
	}

	name := strings.TrimSpace(form.Name)
	email := strings.TrimSpace(form.Email)

	account, err := h.identity.SignUp(c.Request.Context(), email, form.Password, name)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			session.AddFlash(c, session.FlashError, "Pendaftaran gagal: email sudah terdaftar.")
		} else {
			h.log.Error("sign up failed", zap.String("email", email), zap.Error(err))
			session.AddFlash(c, session.FlashError, "Pendaftaran gagal. Coba lagi nanti.")
		}
		renderGuest(c, "register", "Daftar", roles.All())
		return
	}

	if err := h.users.Create(c.Request.Context(), &models.User{
		UID:   account.UID,
		Name:  name,
		Email: email,
		Role:  role.String(),
	}); err != nil {
		h.log.Error("profile write failed", zap.String("uid", account.UID), zap.Error(err))
		session.AddFlash(c, session.FlashError, "Pendaftaran gagal. Coba lagi nanti.")
		renderGuest(c, "register", "Daftar", roles.All())
		return
	}

	publish(c, h.events, activity.NewEvent(activity.EventRegistered, account.UID, models.CollectionUsers, account.UID,
		map[string]string{"role": role.String()}))
	redirectWithFlash(c, middleware.LoginPath, session.FlashSuccess, "Akun berhasil dibuat! Silakan login.")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.End(c)
	redirectWithFlash(c, middleware.LoginPath, session.FlashInfo, "Anda telah keluar.")
}
