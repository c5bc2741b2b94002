package models

import "time"

// StockItem is one document of stokbarang_toko.
type StockItem struct {
	ID            string    `json:"id"`
	NamaBarang    string    `json:"nama_barang"`
	SKU           string    `json:"sku"`
	Kategori      string    `json:"kategori"`
	Stok          Quantity  `json:"stok"`
	Satuan        string    `json:"satuan"`
	CreatedByUID  string    `json:"created_by_uid"`
	CreatedByName string    `json:"created_by_name"`
	CreatedAt     time.Time `json:"created_at"`
}

// Tool is one document of alat_tukang. Kode is random and not guaranteed unique.
type Tool struct {
	ID           string    `json:"id"`
	Kode         string    `json:"kode"`
	NamaAlat     string    `json:"nama_alat"`
	Merk         string    `json:"merk"`
	Kategori     string    `json:"kategori"`
	Ketersediaan Quantity  `json:"ketersediaan"`
	Kondisi      string    `json:"kondisi"`
	CreatedBy    string    `json:"created_by"`
	CreatedByUID string    `json:"created_by_uid"`
	CreatedAt    time.Time `json:"created_at"`
}
