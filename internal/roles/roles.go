// Package roles maps free-text profession roles onto the canonical keys used
// for permission checks and template folders.
package roles

import (
	"errors"
	"strings"
)

type Role string

const (
	Arsitektur   Role = "arsitektur"
	Kontraktor   Role = "kontraktor"
	Tukang       Role = "tukang"
	TokoBangunan Role = "toko_bangunan"
)

// Default is assigned to users whose stored role is empty.
const Default = Arsitektur

var ErrUnknownRole = errors.New("unknown role")

var known = []Role{Arsitektur, Kontraktor, Tukang, TokoBangunan}

var labels = map[Role]string{
	Arsitektur:   "Arsitek",
	Kontraktor:   "Kontraktor",
	Tukang:       "Tukang",
	TokoBangunan: "Toko Bangunan",
}

// legacy spellings found in existing user documents
var synonyms = map[string]Role{
	"toko_bangunan": TokoBangunan,
	"arsitekur":     Arsitektur,
}

// Resolve never fails: empty input yields Default, unrecognised input is
// returned lowercased with whitespace runs joined by underscores.
func Resolve(raw string) Role {
	key := normalize(raw)
	if key == "" {
		return Default
	}
	if r, ok := synonyms[key]; ok {
		return r
	}
	return Role(key)
}

// Parse is the strict variant used when a role is chosen at registration.
// Misspellings are rejected instead of corrected.
func Parse(raw string) (Role, error) {
	r := Role(normalize(raw))
	if !r.Known() {
		return "", ErrUnknownRole
	}
	return r, nil
}

func normalize(raw string) string {
	return strings.Join(strings.Fields(strings.ToLower(raw)), "_")
}

// All returns the canonical roles in display order.
func All() []Role {
	out := make([]Role, len(known))
	copy(out, known)
	return out
}

func (r Role) Known() bool {
	_, ok := labels[r]
	return ok
}

// Folder is the template namespace for the role.
func (r Role) Folder() string {
	return string(r)
}

func (r Role) Label() string {
	if l, ok := labels[r]; ok {
		return l
	}
	return string(r)
}

func (r Role) String() string {
	return string(r)
}
