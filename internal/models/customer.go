package models

import (
	"strings"
	"time"
)

// Customer is an entry in the tenant's customer directory. Document is the
// national ID or tax number, stored normalized so lookups at the till do not
// depend on spacing or hyphenation.
type Customer struct {
	ID        int       `json:"id"`
	TenantID  int       `json:"tenant_id"`
	Document  string    `json:"document,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NormalizeDocument strips spaces and hyphens so the same document always
// compares equal regardless of how it was typed.
func NormalizeDocument(document string) string {
	document = strings.TrimSpace(document)
	document = strings.ReplaceAll(document, "-", "")
	return strings.ReplaceAll(document, " ", "")
}

// LooksLikeDocument reports whether the search term reads as a document
// number rather than a name fragment.
func LooksLikeDocument(term string) bool {
	t := NormalizeDocument(term)
	if len(t) < 6 {
		return false
	}
	for _, r := range t {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
