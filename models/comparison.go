package models

// PasalDetail describes one provision as it appears in a single KUHP
// edition. Every field may be null when the provision exists only in the
// other edition.
type PasalDetail struct {
	Pasal  *string `json:"pasal"`
	Judul  *string `json:"judul"`
	Isi    *string `json:"isi"`
	Sanksi *string `json:"sanksi"`
}

// PasalComparison pairs the old and new form of a provision under a named
// topic, with the stated differences between them.
type PasalComparison struct {
	Topik     string       `json:"topik"`
	KUHPLama  *PasalDetail `json:"kuhp_lama"`
	KUHPBaru  *PasalDetail `json:"kuhp_baru"`
	Perbedaan []string     `json:"perbedaan"`
}

// Valid reports whether the comparison references at least one provision.
// An entry with both sides null carries no information and must not be
// accepted.
func (c *PasalComparison) Valid() bool {
	return c != nil && (c.KUHPLama != nil || c.KUHPBaru != nil)
}

// ComparisonData is the structured side-by-side result extracted from a
// model response.
type ComparisonData struct {
	Ringkasan         string            `json:"ringkasan"`
	PasalTerkait      []PasalComparison `json:"pasal_terkait"`
	AnalisisPerubahan string            `json:"analisis_perubahan,omitempty"`
	Kesimpulan        string            `json:"kesimpulan,omitempty"`
}

// Validate drops comparison entries that reference no provision at all and
// reports whether anything meaningful remains.
func (d *ComparisonData) Validate() bool {
	if d == nil {
		return false
	}
	kept := d.PasalTerkait[:0]
	for i := range d.PasalTerkait {
		if d.PasalTerkait[i].Valid() {
			kept = append(kept, d.PasalTerkait[i])
		}
	}
	d.PasalTerkait = kept
	return len(d.PasalTerkait) > 0 || d.Ringkasan != "" ||
		d.AnalisisPerubahan != "" || d.Kesimpulan != ""
}
