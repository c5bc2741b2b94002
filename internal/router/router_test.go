package router_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"rakitin/internal/activity"
	"rakitin/internal/auth"
	"rakitin/internal/dashboard"
	"rakitin/internal/handlers"
	"rakitin/internal/models"
	"rakitin/internal/report"
	"rakitin/internal/repository"
	"rakitin/internal/roles"
	"rakitin/internal/router"
	"rakitin/internal/services"
	"rakitin/internal/session"
	"rakitin/internal/store"
	"rakitin/internal/view"
	"go.uber.org/zap"
)

const testSecret = "test-secret-key-for-session-signing"

type account struct {
	uid      string
	password string
}

type fakeIdentity struct {
	mu       sync.Mutex
	accounts map[string]account
	next     int
}

func (f *fakeIdentity) SignIn(_ context.Context, email, password string) (*auth.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	acc, ok := f.accounts[email]
	if !ok || acc.password != password {
		return nil, auth.ErrInvalidCredentials
	}
	return &auth.Account{UID: acc.uid, Email: email}, nil
}

func (f *fakeIdentity) SignUp(_ context.Context, email, password, _ string) (*auth.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[email]; ok {
		return nil, auth.ErrEmailTaken
	}
	f.next++
	uid := "uid-new-" + string(rune('0'+f.next))
	f.accounts[email] = account{uid: uid, password: password}
	return &auth.Account{UID: uid, Email: email}, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []activity.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev activity.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.EventType)
	}
	return out
}

type harness struct {
	engine   *gin.Engine
	mem      *store.MemoryStore
	repos    *repository.Repositories
	sessions *session.Manager
	identity *fakeIdentity
	events   *recordingPublisher
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()

	mem := store.NewMemoryStore()
	repos := repository.New(mem, log)
	sessions := session.NewManager(testSecret, time.Hour, false, nil, log)
	identity := &fakeIdentity{accounts: map[string]account{}}
	events := &recordingPublisher{}
	renderer, err := view.New()
	require.NoError(t, err)

	aggregator := dashboard.NewAggregator(repos.Stock, repos.Orders, log)
	designService := services.NewDesignService(repos.Designs, nil, log)

	engine := router.New(router.Handlers{
		Auth:    handlers.NewAuthHandler(identity, repos.Users, sessions, events, log),
		Pages:   handlers.NewPageHandler(repos, aggregator, log),
		Stock:   handlers.NewStockHandler(repos.Stock, events, log),
		Tools:   handlers.NewToolHandler(repos.Tools, events, log),
		Designs: handlers.NewDesignHandler(designService, events, log),
		Orders:  handlers.NewOrderHandler(repos.Orders, events, log),
		Reports: handlers.NewReportHandler(repos.Stock, repos.Tools, log),
	}, sessions, renderer, log)

	return &harness{engine: engine, mem: mem, repos: repos, sessions: sessions, identity: identity, events: events}
}

func (h *harness) cookie(t *testing.T, role roles.Role) *http.Cookie {
	t.Helper()
	token, err := h.sessions.Encode(&session.Identity{UID: "uid-1", Email: "user@example.com", Name: "Budi", Role: role})
	require.NoError(t, err)
	return &http.Cookie{Name: session.CookieName, Value: token}
}

func (h *harness) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	h.engine.ServeHTTP(w, req)
	return w
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func postMultipart(t *testing.T, path string, fields map[string]string, filename string, payload []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if payload != nil {
		part, err := w.CreateFormFile(models.DesignFileField, filename)
		require.NoError(t, err)
		_, err = part.Write(payload)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	var found *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			found = c
		}
	}
	return found
}

func TestProtectedRoutes_RedirectAnonymous(t *testing.T) {
	h := newHarness(t)

	for _, page := range append(handlers.Pages(), "laporan/export") {
		w := h.do(httptest.NewRequest(http.MethodGet, "/"+page, nil))
		assert.Equal(t, http.StatusFound, w.Code, page)
		assert.Equal(t, "/login", w.Header().Get("Location"), page)
	}
	for _, path := range []string{"/api/tambah_stok", "/api/edit_stok", "/api/tambah_alat", "/api/edit_alat", "/api/tambah_desain", "/api/edit_desain"} {
		w := h.do(postForm(path, url.Values{"nama_barang": {"x"}}))
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, "/login", w.Header().Get("Location"), path)
	}

	docs, err := h.mem.List(context.Background(), models.CollectionStock, store.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestIndex(t *testing.T) {
	h := newHarness(t)

	w := h.do(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = h.do(httptest.NewRequest(http.MethodGet, "/", nil), h.cookie(t, roles.Tukang))
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
}

func TestStatusEndpoints_Unauthorized(t *testing.T) {
	h := newHarness(t)

	for _, path := range []string{"/api/update_status", "/api/update_status_desain"} {
		w := h.do(postJSON(path, `{"id":"o1","status":"Diproses"}`))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.JSONEq(t, `{"success":false,"message":"Sesi berakhir, silakan login kembali."}`, w.Body.String())
	}
}

func TestUpdateStatus_SuccessEnvelope(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.mem.Create(ctx, models.CollectionOrders, store.Document{
		ID: "o1", Data: json.RawMessage(`{"status":"Baru"}`), CreatedAt: time.Now(),
	}))

	w := h.do(postJSON("/api/update_status", `{"id":"o1","status":"Siap Kirim"}`), h.cookie(t, roles.TokoBangunan))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Status berhasil diperbarui.","id":"o1","status":"Siap Kirim"}`, w.Body.String())

	orders, err := h.repos.Orders.Recent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "Siap Kirim", orders[0].Status)
	assert.Contains(t, h.events.types(), activity.EventStatusChanged)
}

func TestUpdateStatusDesain_FormBodyAndErrors(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	d := &models.DesignFile{NamaProyek: "Villa"}
	require.NoError(t, h.repos.Designs.Create(ctx, d))
	cookie := h.cookie(t, roles.Arsitektur)

	w := h.do(postForm("/api/update_status_desain", url.Values{"id": {d.ID}, "status": {"Disetujui"}}), cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"Disetujui"`)

	w = h.do(postJSON("/api/update_status_desain", `{"status":"Disetujui"}`), cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(postJSON("/api/update_status_desain", `{not json`), cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(postJSON("/api/update_status_desain", `{"id":"missing","status":"Disetujui"}`), cookie)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Gagal memperbarui status."}`, w.Body.String())
}

func TestTambahStok_CoercesQuantity(t *testing.T) {
	h := newHarness(t)
	cookie := h.cookie(t, roles.TokoBangunan)

	w := h.do(postForm("/api/tambah_stok", url.Values{
		"nama_barang": {"Semen Gresik"}, "sku": {"SMN-40"}, "stok": {"25"}, "satuan": {"sak"},
	}), cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/stok", w.Header().Get("Location"))

	w = h.do(postForm("/api/tambah_stok", url.Values{"nama_barang": {"Pasir"}, "stok": {""}}), cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	flash := findCookie(w, session.FlashCookieName)
	require.NotNil(t, flash)

	items, err := h.repos.Stock.All(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	byName := map[string]models.StockItem{}
	for _, it := range items {
		byName[it.NamaBarang] = it
	}
	assert.Equal(t, 25, byName["Semen Gresik"].Stok.Int())
	assert.Equal(t, 0, byName["Pasir"].Stok.Int())
	assert.Equal(t, "uid-1", byName["Semen Gresik"].CreatedByUID)
	assert.Equal(t, "Budi", byName["Semen Gresik"].CreatedByName)

	doc, err := h.mem.Get(context.Background(), models.CollectionStock, byName["Semen Gresik"].ID)
	require.NoError(t, err)
	assert.Contains(t, string(doc.Data), `"stok":25`)

	w = h.do(httptest.NewRequest(http.MethodGet, "/stok", nil), cookie, flash)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Semen Gresik")
	assert.Contains(t, w.Body.String(), "Barang berhasil ditambahkan.")
}

func TestEditStok_MergesFields(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	item := &models.StockItem{NamaBarang: "Semen", Stok: 10, CreatedByUID: "uid-9"}
	require.NoError(t, h.repos.Stock.Create(ctx, item))

	w := h.do(postForm("/api/edit_stok", url.Values{
		"id": {item.ID}, "nama_barang": {"Semen Tiga Roda"}, "stok": {"7"},
	}), h.cookie(t, roles.TokoBangunan))
	assert.Equal(t, http.StatusFound, w.Code)

	got, err := h.repos.Stock.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Semen Tiga Roda", got.NamaBarang)
	assert.Equal(t, 7, got.Stok.Int())
	assert.Equal(t, "uid-9", got.CreatedByUID)
}

func TestTambahAlat_GeneratesKode(t *testing.T) {
	h := newHarness(t)
	cookie := h.cookie(t, roles.Tukang)

	w := h.do(postForm("/api/tambah_alat", url.Values{
		"nama_alat": {"Bor Listrik"}, "ketersediaan": {"abc"}, "kondisi": {"Baik"},
	}), cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/alat", w.Header().Get("Location"))

	tools, err := h.repos.Tools.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.True(t, strings.HasPrefix(tools[0].Kode, "ALT-"))
	assert.Equal(t, 0, tools[0].Ketersediaan.Int())
	assert.Equal(t, "Budi", tools[0].CreatedBy)

	w = h.do(httptest.NewRequest(http.MethodGet, "/alat", nil), cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), tools[0].Kode)
}

func TestTambahDesain_UploadLimit(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	cookie := h.cookie(t, roles.Arsitektur)
	fields := map[string]string{"nama_proyek": "Rumah Tipe 36", "nama_klien": "Bu Ani"}

	w := h.do(postMultipart(t, "/api/tambah_desain", fields, "besar.jpg", bytes.Repeat([]byte{1}, 900000)), cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/desain", w.Header().Get("Location"))
	assert.NotNil(t, findCookie(w, session.FlashCookieName))

	designs, err := h.repos.Designs.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, designs)

	payload := bytes.Repeat([]byte{0xFE}, 500000)
	w = h.do(postMultipart(t, "/api/tambah_desain", fields, "denah.png", payload), cookie)
	assert.Equal(t, http.StatusFound, w.Code)

	designs, err = h.repos.Designs.List(ctx)
	require.NoError(t, err)
	require.Len(t, designs, 1)
	d := designs[0]
	assert.Equal(t, ".PNG", d.Format)
	assert.Equal(t, "0.48", d.Ukuran)
	assert.Equal(t, models.DesignStatusPending, d.Status)
	assert.Equal(t, "Budi", d.NamaArsitek)

	prefix, encoded, found := strings.Cut(d.FileBase64, ";base64,")
	require.True(t, found)
	assert.True(t, strings.HasPrefix(prefix, "data:"))
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)
}

func TestTambahDesain_WithoutFile(t *testing.T) {
	h := newHarness(t)
	w := h.do(postForm("/api/tambah_desain", url.Values{"nama_proyek": {"Ruko"}}), h.cookie(t, roles.Arsitektur))
	assert.Equal(t, http.StatusFound, w.Code)

	designs, err := h.repos.Designs.List(context.Background())
	require.NoError(t, err)
	require.Len(t, designs, 1)
	assert.False(t, designs[0].HasImage())
	assert.Equal(t, ".JPG", designs[0].Format)
}

func TestEditDesain_OversizedAbortsWholeWrite(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	d := &models.DesignFile{NamaProyek: "Villa"}
	require.NoError(t, h.repos.Designs.Create(ctx, d))

	w := h.do(postMultipart(t, "/api/edit_desain", map[string]string{"id": d.ID, "nama_proyek": "Villa Baru"},
		"besar.jpg", bytes.Repeat([]byte{1}, 900000)), h.cookie(t, roles.Arsitektur))
	assert.Equal(t, http.StatusFound, w.Code)

	got, err := h.repos.Designs.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Villa", got.NamaProyek)
}

func TestLogin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.identity.accounts["toko@example.com"] = account{uid: "uid-toko", password: "rahasia123"}
	h.identity.accounts["hantu@example.com"] = account{uid: "uid-hantu", password: "rahasia123"}
	require.NoError(t, h.repos.Users.Create(ctx, &models.User{UID: "uid-toko", Email: "toko@example.com", Role: "Toko Bangunan"}))

	w := h.do(postForm("/login", url.Values{"email": {"toko@example.com"}, "password": {"salah"}}))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Email atau password salah.")

	w = h.do(postForm("/login", url.Values{"email": {"hantu@example.com"}, "password": {"rahasia123"}}))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Data profil tidak ditemukan di database.")

	w = h.do(postForm("/login", url.Values{"email": {"toko@example.com"}, "password": {"rahasia123"}}))
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
	sessionCookie := findCookie(w, session.CookieName)
	require.NotNil(t, sessionCookie)

	ident, err := h.sessions.Decode(ctx, sessionCookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "uid-toko", ident.UID)
	assert.Equal(t, handlers.DefaultDisplayName, ident.Name)
	assert.Equal(t, roles.TokoBangunan, ident.Role)

	w = h.do(httptest.NewRequest(http.MethodGet, "/dashboard", nil), sessionCookie, findCookie(w, session.FlashCookieName))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Selamat datang kembali, Admin!")
	assert.Contains(t, w.Body.String(), "Dashboard Toko")
}

func TestRegister(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	w := h.do(postForm("/register", url.Values{
		"name": {"Sari"}, "email": {"sari@example.com"}, "password": {"rahasia123"}, "role": {"arsitekur"},
	}))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Peran tidak dikenal.")
	assert.Empty(t, h.identity.accounts)

	w = h.do(postForm("/register", url.Values{
		"name": {"Sari"}, "email": {"sari@example.com"}, "password": {"rahasia123"}, "role": {" Toko  Bangunan "},
	}))
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	uid := h.identity.accounts["sari@example.com"].uid
	user, err := h.repos.Users.Get(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "Sari", user.Name)
	assert.Equal(t, string(roles.TokoBangunan), user.Role)
	assert.False(t, user.CreatedAt.IsZero())

	w = h.do(postForm("/register", url.Values{
		"name": {"Sari"}, "email": {"sari@example.com"}, "password": {"rahasia123"},
	}))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "email sudah terdaftar")
	assert.Equal(t, []string{activity.EventRegistered}, h.events.types())
}

func TestLogout(t *testing.T) {
	h := newHarness(t)

	w := h.do(httptest.NewRequest(http.MethodGet, "/logout", nil), h.cookie(t, roles.Kontraktor))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	cleared := findCookie(w, session.CookieName)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
}

func TestDashboard_PerRole(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.repos.Stock.Create(ctx, &models.StockItem{NamaBarang: "Semen", Stok: 12}))
	require.NoError(t, h.repos.Stock.Create(ctx, &models.StockItem{NamaBarang: "Bata", Stok: 30}))
	require.NoError(t, h.mem.Create(ctx, models.CollectionOrders, store.Document{
		ID: "o1", Data: json.RawMessage(`{"status":"Menunggu","nama_pelanggan":"Pak Joko"}`), CreatedAt: time.Now(),
	}))

	w := h.do(httptest.NewRequest(http.MethodGet, "/dashboard", nil), h.cookie(t, roles.TokoBangunan))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<h2>42</h2>")
	assert.Contains(t, body, "Pak Joko")

	w = h.do(httptest.NewRequest(http.MethodGet, "/dashboard", nil), h.cookie(t, roles.Tukang))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Dashboard Toko")
	assert.Contains(t, w.Body.String(), "Tukang")
}

func TestViews_RenderForEveryRole(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.repos.Users.Create(context.Background(), &models.User{UID: "uid-1", Name: "Budi", Email: "user@example.com"}))

	for _, role := range append(roles.All(), roles.Role("mandor")) {
		cookie := h.cookie(t, role)
		for _, page := range handlers.Pages() {
			w := h.do(httptest.NewRequest(http.MethodGet, "/"+page, nil), cookie)
			assert.Equal(t, http.StatusOK, w.Code, "%s/%s", role, page)
		}
	}
}

func TestExport(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.repos.Stock.Create(context.Background(), &models.StockItem{NamaBarang: "Semen", Stok: 3}))

	w := h.do(httptest.NewRequest(http.MethodGet, "/laporan/export", nil), h.cookie(t, roles.TokoBangunan))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, report.ContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "laporan-rakitin-")
	assert.NotZero(t, w.Body.Len())
}

func TestNotFound_Redirects(t *testing.T) {
	h := newHarness(t)

	w := h.do(httptest.NewRequest(http.MethodGet, "/tidak-ada", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = h.do(httptest.NewRequest(http.MethodGet, "/tidak-ada", nil), h.cookie(t, roles.Tukang))
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	w := h.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
