package models

// Registry maps a category name to its catalog. It replaces per-call
// string switching over the media variants: callers resolve the catalog
// once and use the same store contract for every variant.
type Registry struct {
	catalogs map[string]*Catalog
	order    []string
}

func NewRegistry() *Registry {
	order := []string{CategorySongs, CategoryAlbums, CategoryVideos}
	catalogs := make(map[string]*Catalog, len(order))
	for _, category := range order {
		catalogs[category] = NewCatalog()
	}
	return &Registry{catalogs: catalogs, order: order}
}

func (r *Registry) Catalog(category string) (*Catalog, bool) {
	c, ok := r.catalogs[category]
	return c, ok
}

// Categories returns the known category names in stable order.
func (r *Registry) Categories() []string {
	return append([]string(nil), r.order...)
}

// TotalItems sums item counts across all catalogs.
func (r *Registry) TotalItems() int {
	total := 0
	for _, c := range r.catalogs {
		total += c.Len()
	}
	return total
}
