package repo

// ProductFilter narrows a tenant's product listing. Query matches name, SKU or
// barcode, case-insensitively. LowStock keeps only products at or below their
// restock threshold.
type ProductFilter struct {
	Query    string
	LowStock bool
	Offset   *int
	Limit    *int
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
