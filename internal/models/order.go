package models

import "time"

// Order is a pesanan_toko document. The application only reads orders and
// changes their status.
type Order struct {
	ID            string    `json:"id"`
	Status        string    `json:"status"`
	NamaPelanggan string    `json:"nama_pelanggan,omitempty"`
	Total         float64   `json:"total,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
