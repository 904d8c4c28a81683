package domain

import "fmt"

// Policy decides what happens to records whose city cannot be resolved.
type Policy string

const (
	// PolicyDrop leaves unresolved records without coordinates, so map views
	// filter them out.
	PolicyDrop Policy = "drop"
	// PolicyFallback plots unresolved records at a fixed coordinate so they
	// show up as an "unclassified" cluster.
	PolicyFallback Policy = "fallback"
)

// DefaultFallback is roughly the geographic centre of India.
var DefaultFallback = Geo{Lat: 22.0, Lon: 79.0}

// ParsePolicy validates a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case PolicyDrop, PolicyFallback:
		return p, nil
	default:
		return "", fmt.Errorf("unknown unresolved city policy %q", s)
	}
}

// Resolution is the outcome of resolving one clean city key.
type Resolution struct {
	Geo    *Geo
	Source string // one of the GeoSource constants
}

// Resolver turns clean city keys into coordinates under a fixed policy.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	policy   Policy
	fallback Geo
}

// NewResolver creates a Resolver. The fallback coordinate is only used by
// PolicyFallback.
func NewResolver(policy Policy, fallback Geo) Resolver {
	return Resolver{policy: policy, fallback: fallback}
}

// Policy returns the configured unresolved-city policy.
func (r Resolver) Policy() Policy { return r.policy }

// Resolve looks up clean in the city table. ok is the second result of
// CleanCityName; false means the record had no city at all.
func (r Resolver) Resolve(clean string, ok bool) Resolution {
	if ok {
		if g, found := LookupCity(clean); found {
			return Resolution{Geo: &g, Source: GeoSourceTable}
		}
	}

	if r.policy == PolicyFallback {
		g := r.fallback
		return Resolution{Geo: &g, Source: GeoSourceFallback}
	}

	if !ok {
		return Resolution{Source: GeoSourceMissing}
	}
	return Resolution{Source: GeoSourceUnresolved}
}
