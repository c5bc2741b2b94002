package models

// Document store collection names.
const (
	CollectionUsers   = "users"
	CollectionStock   = "stokbarang_toko"
	CollectionTools   = "alat_tukang"
	CollectionDesigns = "berkas_desain"
	CollectionOrders  = "pesanan_toko"
)
