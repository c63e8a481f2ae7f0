// export_test.go exports private identifiers for white-box testing.
package tui

// MaxOffset exposes the private maxOffset for tests.
func (v *Vterm) MaxOffset() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.maxOffset()
}
