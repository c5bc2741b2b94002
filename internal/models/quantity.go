package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Quantity is a non-negative integer counter (stok, ketersediaan). It decodes
// leniently because older documents stored the raw form string.
type Quantity int

// ParseQuantity coerces a form value. Blank or unparseable input yields 0.
func ParseQuantity(s string) Quantity {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return clamp(n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return clamp(int(f))
	}
	return 0
}

func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*q = 0
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*q = 0
			return nil
		}
		*q = ParseQuantity(s)
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			*q = 0
			return nil
		}
		*q = clamp(int(f))
	}
	return nil
}

func (q Quantity) Int() int {
	return int(q)
}

func clamp(n int) Quantity {
	if n < 0 {
		return 0
	}
	return Quantity(n)
}
