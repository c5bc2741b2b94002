package roles_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"rakitin/internal/roles"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want roles.Role
	}{
		{"empty defaults to arsitektur", "", roles.Arsitektur},
		{"whitespace only defaults", "   ", roles.Arsitektur},
		{"canonical arsitektur", "arsitektur", roles.Arsitektur},
		{"misspelling corrected", "arsitekur", roles.Arsitektur},
		{"misspelling mixed case", "  ArsiteKur ", roles.Arsitektur},
		{"store with space", "toko bangunan", roles.TokoBangunan},
		{"store with underscore", "toko_bangunan", roles.TokoBangunan},
		{"store upper case", "TOKO BANGUNAN", roles.TokoBangunan},
		{"store padded", "\tToko  Bangunan\n", roles.TokoBangunan},
		{"kontraktor", "Kontraktor", roles.Kontraktor},
		{"unknown passes through", "Mandor Proyek", roles.Role("mandor_proyek")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, roles.Resolve(tt.raw))
		})
	}
}

func TestResolve_SynonymsShareFolder(t *testing.T) {
	variants := []string{"toko bangunan", "toko_bangunan", " Toko Bangunan ", "TOKO_BANGUNAN"}
	for _, v := range variants {
		assert.Equal(t, "toko_bangunan", roles.Resolve(v).Folder(), v)
	}
}

func TestParse(t *testing.T) {
	r, err := roles.Parse(" Toko Bangunan ")
	require.NoError(t, err)
	assert.Equal(t, roles.TokoBangunan, r)

	r, err = roles.Parse("tukang")
	require.NoError(t, err)
	assert.Equal(t, roles.Tukang, r)

	for _, bad := range []string{"", "arsitekur", "admin"} {
		_, err := roles.Parse(bad)
		assert.ErrorIs(t, err, roles.ErrUnknownRole, bad)
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Toko Bangunan", roles.TokoBangunan.Label())
	assert.Equal(t, "mandor", roles.Role("mandor").Label())
	assert.Len(t, roles.All(), 4)
}
