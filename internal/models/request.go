package models

type LoginForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

type RegisterForm struct {
	Name     string `form:"name" binding:"required"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,min=6"`
	Role     string `form:"role"`
}

// StockForm carries both tambah_stok and edit_stok. Stok stays a string so a
// blank field coerces to zero instead of failing the bind.
type StockForm struct {
	ID         string `form:"id"`
	NamaBarang string `form:"nama_barang"`
	SKU        string `form:"sku"`
	Kategori   string `form:"kategori"`
	Stok       string `form:"stok"`
	Satuan     string `form:"satuan"`
}

type ToolForm struct {
	ID           string `form:"id"`
	NamaAlat     string `form:"nama_alat"`
	Merk         string `form:"merk"`
	Kategori     string `form:"kategori"`
	Ketersediaan string `form:"ketersediaan"`
	Kondisi      string `form:"kondisi"`
}

// DesignForm holds the text fields; the image arrives as the file_desain part.
type DesignForm struct {
	ID         string `form:"id"`
	NamaProyek string `form:"nama_proyek"`
	NamaKlien  string `form:"nama_klien"`
	Kategori   string `form:"kategori"`
	GayaDesain string `form:"gaya_desain"`
	Status     string `form:"status"`
}

const DesignFileField = "file_desain"

// StatusUpdateRequest is accepted as JSON or as a form post.
type StatusUpdateRequest struct {
	ID     string `json:"id" form:"id"`
	Status string `json:"status" form:"status"`
}
