package stereo

import "sync/atomic"

var defaultCatalog atomic.Pointer[Catalog]

func init() {
	defaultCatalog.Store(NewCatalog())
}

// SetDefaultCatalog replaces the catalog used by Register and by containers
// created without WithCatalog. This is similar to slog.SetDefault.
// Passing nil installs a fresh, empty catalog.
func SetDefaultCatalog(cat *Catalog) {
	if cat == nil {
		cat = NewCatalog()
	}
	defaultCatalog.Store(cat)
}

// DefaultCatalog returns the current default Catalog.
func DefaultCatalog() *Catalog {
	return defaultCatalog.Load()
}
