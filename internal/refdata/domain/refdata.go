// Package domain holds the small reference dimensions joined into report output
// for labels. Every contract and event is expected to match exactly one row in
// each relevant dimension; a violated match drops the row from the pipeline
// rather than raising an error.
package domain

// Dimension is a single reference row: an id and a display label.
// All eight dimension tables share this shape.
type Dimension struct {
	ID    string
	Label string
}

// Set holds one immutable copy of every dimension table for a run.
type Set struct {
	SignoffMethods    map[string]Dimension
	SignoffIdentities map[string]Dimension
	DeferReasons      map[string]Dimension
	ServiceTypes      map[string]Dimension
	BuyingPrograms    map[string]Dimension
	Theaters          map[string]Dimension
	PricingModels     map[string]Dimension
	EngagementHeaders map[string]Dimension
}

// NewSet returns a Set with all maps allocated.
func NewSet() *Set {
	return &Set{
		SignoffMethods:    map[string]Dimension{},
		SignoffIdentities: map[string]Dimension{},
		DeferReasons:      map[string]Dimension{},
		ServiceTypes:      map[string]Dimension{},
		BuyingPrograms:    map[string]Dimension{},
		Theaters:          map[string]Dimension{},
		PricingModels:     map[string]Dimension{},
		EngagementHeaders: map[string]Dimension{},
	}
}
