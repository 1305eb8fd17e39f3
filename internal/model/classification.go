package model

// Classification is the category assigned to one vendor, as reported by the
// classify command.
type Classification struct {
	VendorID string   `json:"id"`
	Name     string   `json:"name"`
	Booth    string   `json:"booth,omitempty"`
	Category Category `json:"category"`
	Keyword  string   `json:"keyword,omitempty"` // matched keyword; empty for general
}
