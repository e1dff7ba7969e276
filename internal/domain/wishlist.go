package domain

// WishlistEntry is a saved product, keyed by ItemID.
type WishlistEntry struct {
	ItemID        string  `json:"item_id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Brand         string  `json:"brand,omitempty"`
	OriginalPrice float64 `json:"original_price,omitempty"`
	Image         string  `json:"image,omitempty"`
	PartNumber    string  `json:"part_number,omitempty"`
	InStock       *bool   `json:"in_stock,omitempty"`
}

// Wishlist is an ordered set of entries.
type Wishlist []WishlistEntry

// Contains reports whether itemID is saved.
func (w Wishlist) Contains(itemID string) bool {
	for _, e := range w {
		if e.ItemID == itemID {
			return true
		}
	}
	return false
}

// Add appends e unless its item is already saved; it reports whether the
// wishlist changed.
func (w *Wishlist) Add(e WishlistEntry) bool {
	if e.ItemID == "" || w.Contains(e.ItemID) {
		return false
	}
	*w = append(*w, e)
	return true
}

// Remove deletes itemID and reports whether it was present.
func (w *Wishlist) Remove(itemID string) bool {
	for i, e := range *w {
		if e.ItemID == itemID {
			*w = append((*w)[:i:i], (*w)[i+1:]...)
			return true
		}
	}
	return false
}

// Normalize drops duplicate and id-less entries read from storage.
func (w Wishlist) Normalize() Wishlist {
	out := make(Wishlist, 0, len(w))
	for _, e := range w {
		out.Add(e)
	}
	return out
}
