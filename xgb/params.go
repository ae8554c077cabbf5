package xgb

import "sort"

// Params accumulates booster parameters by name. Values are opaque strings
// passed through to the native library at fit time; the last write per name
// wins.
type Params struct {
	values map[string]string
}

// NewParams returns an empty parameter set.
func NewParams() *Params {
	return &Params{values: make(map[string]string)}
}

// DefaultRegressionParams returns the parameters of the reference regression
// setup: a gbtree squared-error regressor of depth 5 with eta 0.1.
func DefaultRegressionParams() *Params {
	p := NewParams()
	p.Set("booster", "gbtree")
	p.Set("objective", "reg:linear")
	p.Set("max_depth", "5")
	p.Set("eta", "0.1")
	p.Set("min_child_weight", "1")
	p.Set("subsample", "0.5")
	p.Set("colsample_bytree", "1")
	p.Set("num_parallel_tree", "1")
	return p
}

// Set inserts or overwrites name.
func (p *Params) Set(name, value string) *Params {
	p.values[name] = value
	return p
}

// Get returns the value stored for name.
func (p *Params) Get(name string) (string, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Len reports the number of distinct names.
func (p *Params) Len() int {
	return len(p.values)
}

// Names returns the parameter names in sorted order, the order they are
// applied in.
func (p *Params) Names() []string {
	names := make([]string, 0, len(p.values))
	for name := range p.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Each calls fn for every parameter in sorted name order and stops at the
// first error.
func (p *Params) Each(fn func(name, value string) error) error {
	for _, name := range p.Names() {
		if err := fn(name, p.values[name]); err != nil {
			return err
		}
	}
	return nil
}

// Merge copies every entry of other into p, overwriting duplicates.
func (p *Params) Merge(other *Params) *Params {
	if other == nil {
		return p
	}
	for name, value := range other.values {
		p.values[name] = value
	}
	return p
}

// Clone returns an independent copy.
func (p *Params) Clone() *Params {
	return NewParams().Merge(p)
}

// Map returns a copy of the parameters as a plain map.
func (p *Params) Map() map[string]string {
	out := make(map[string]string, len(p.values))
	for name, value := range p.values {
		out[name] = value
	}
	return out
}
