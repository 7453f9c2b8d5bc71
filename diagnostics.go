package stereo

// Diagnostics lists what a container build skipped, grouped by phase. A
// lenient container keeps these for inspection; a strict one returns the
// failures as a *WiringError instead of a container.
type Diagnostics struct {
	// Discovery holds NamespaceNotFoundError values for the root or any
	// namespace that could not be listed.
	Discovery []error

	// Load holds LoadError values for scanned names that did not load.
	Load []error

	Construction   []error
	Resolution     []error
	Initialization []error

	// Collisions and Overrides are the normal outcome of the key policies and
	// never count as failures.
	Collisions []AliasCollision
	Overrides  []ContractOverride
}

// Errors returns every failure in phase order.
func (d Diagnostics) Errors() []error {
	n := len(d.Discovery) + len(d.Load) + len(d.Construction) + len(d.Resolution) + len(d.Initialization)
	if n == 0 {
		return nil
	}

	errs := make([]error, 0, n)
	errs = append(errs, d.Discovery...)
	errs = append(errs, d.Load...)
	errs = append(errs, d.Construction...)
	errs = append(errs, d.Resolution...)
	errs = append(errs, d.Initialization...)
	return errs
}

// HasFailures reports whether any phase recorded a failure.
func (d Diagnostics) HasFailures() bool {
	return len(d.Errors()) > 0
}
