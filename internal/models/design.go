package models

import "time"

const DesignStatusPending = "Menunggu Review"

// DesignFile is one document of berkas_desain. FileBase64 holds a data URI and
// is empty unless an image passed the upload size check.
type DesignFile struct {
	ID           string    `json:"id"`
	IDBerkas     string    `json:"id_berkas"`
	NamaProyek   string    `json:"nama_proyek"`
	NamaKlien    string    `json:"nama_klien"`
	Kategori     string    `json:"kategori"`
	GayaDesain   string    `json:"gaya_desain"`
	Format       string    `json:"format"`
	Ukuran       string    `json:"ukuran"`
	FileBase64   string    `json:"file_base64"`
	FileURL      string    `json:"file_url,omitempty"`
	Status       string    `json:"status"`
	NamaArsitek  string    `json:"nama_arsitek"`
	CreatedByUID string    `json:"created_by_uid"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasImage reports whether an inline image is attached.
func (d DesignFile) HasImage() bool {
	return d.FileBase64 != ""
}
