// Package view renders the role-namespaced HTML pages. Every page is parsed
// together with layout.html; a page missing from a role folder falls back to
// the default folder.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin/render"
	"rakitin/internal/roles"
	"rakitin/internal/session"
)

//go:embed templates
var templatesFS embed.FS

const (
	layoutFile    = "templates/layout.html"
	DefaultFolder = "default"
	AuthFolder    = "auth"
)

// Page is the data every template receives.
type Page struct {
	Title   string
	Active  string
	User    *session.Identity
	Flashes []session.Flash
	Data    any
}

type NavItem struct {
	Key   string
	Label string
	Path  string
}

type Renderer struct {
	templates map[string]*template.Template
}

var _ render.HTMLRender = (*Renderer)(nil)

func New() (*Renderer, error) {
	funcs := template.FuncMap{
		"date":    formatDate,
		"rupiah":  formatRupiah,
		"dataURI": dataURI,
		"nav":     Nav,
		"roles":   roles.All,
	}

	templates := make(map[string]*template.Template)
	err := fs.WalkDir(templatesFS, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || p == layoutFile || !strings.HasSuffix(p, ".html") {
			return nil
		}
		t, err := template.New(path.Base(layoutFile)).Funcs(funcs).ParseFS(templatesFS, layoutFile, p)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", p, err)
		}
		name := strings.TrimSuffix(strings.TrimPrefix(p, "templates/"), ".html")
		templates[name] = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: templates}, nil
}

// Name joins a folder and a page into a template name.
func Name(folder, page string) string {
	return folder + "/" + page
}

// Has reports whether name resolves, directly or through the default folder.
func (r *Renderer) Has(name string) bool {
	_, ok := r.lookup(name)
	return ok
}

func (r *Renderer) Instance(name string, data any) render.Render {
	t, ok := r.lookup(name)
	if !ok {
		return missingTemplate{name: name}
	}
	return render.HTML{Template: t, Name: "layout", Data: data}
}

func (r *Renderer) lookup(name string) (*template.Template, bool) {
	if t, ok := r.templates[name]; ok {
		return t, true
	}
	if _, page, found := strings.Cut(name, "/"); found {
		t, ok := r.templates[Name(DefaultFolder, page)]
		return t, ok
	}
	return nil, false
}

type missingTemplate struct {
	name string
}

func (m missingTemplate) Render(http.ResponseWriter) error {
	return fmt.Errorf("template %q not found", m.name)
}

func (m missingTemplate) WriteContentType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
}

var navByRole = map[roles.Role][]string{
	roles.TokoBangunan: {"dashboard", "stok", "laporan", "chat", "logs", "profil"},
	roles.Arsitektur:   {"dashboard", "desain", "logrevisi", "manajemenproyek", "chat", "profil"},
	roles.Kontraktor:   {"dashboard", "manajemenproyek", "alat", "logpekerjaan", "chat", "laporan", "profil"},
	roles.Tukang:       {"dashboard", "alat", "logpekerjaan", "chat", "profil"},
}

var navLabels = map[string]string{
	"dashboard":       "Dashboard",
	"stok":            "Stok Barang",
	"laporan":         "Laporan",
	"chat":            "Chat",
	"logs":            "Log Aktivitas",
	"desain":          "Berkas Desain",
	"logrevisi":       "Log Revisi",
	"manajemenproyek": "Manajemen Proyek",
	"alat":            "Alat",
	"logpekerjaan":    "Log Pekerjaan",
	"profil":          "Profil",
}

// Nav lists the sidebar links for a role. Unknown roles get every page.
func Nav(r roles.Role) []NavItem {
	keys, ok := navByRole[r]
	if !ok {
		keys = []string{"dashboard", "stok", "alat", "desain", "logrevisi", "logpekerjaan",
			"manajemenproyek", "laporan", "chat", "logs", "profil"}
	}
	items := make([]NavItem, 0, len(keys))
	for _, k := range keys {
		items = append(items, NavItem{Key: k, Label: navLabels[k], Path: "/" + k})
	}
	return items
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02 Jan 2006 15:04")
}

func formatRupiah(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	var b strings.Builder
	for i, ch := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(ch)
	}
	if neg {
		return "-Rp " + b.String()
	}
	return "Rp " + b.String()
}

// dataURI marks a stored image data URI safe for src attributes. Anything
// that is not an inline image is dropped.
func dataURI(s string) template.URL {
	if !strings.HasPrefix(s, "data:image/") {
		return ""
	}
	return template.URL(s)
}
