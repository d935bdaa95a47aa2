// Package bead defines the parameter record for a coarse-grained interaction
// site and the library type that maps site names to records.
package bead

import (
	"fmt"
	"sort"
)

// Bead holds the Mie and multipole parameters of a single coarse-grained site.
// The record does not track its own unit state: callers are responsible for
// knowing whether a given record is dimensional (K, Angstroms, Debye, ...) or
// nondimensional (temperature-scaled). The same struct is used in both regimes.
//
// Sk and Polarizability are optional. HasSk and HasPolarizability report
// whether they were set; Sk defaults to 1.0 through EffectiveSk.
type Bead struct {
	Epsilon float64 // energy parameter
	Sigma   float64 // size parameter
	LambdaR float64 // repulsive Mie exponent
	LambdaA float64 // attractive Mie exponent

	Sk    float64 // shape factor
	HasSk bool

	Charge           float64 // signed partial charge
	Dipole           float64 // dipole moment
	Quadrupole       float64 // quadrupole moment
	IonizationEnergy float64

	Polarizability    float64 // derived, never an input
	HasPolarizability bool
}

// MissingShapeFactorError reports that shape-factor scaling was requested for
// a bead which does not carry an Sk value.
type MissingShapeFactorError struct {
	Name string
}

func (e *MissingShapeFactorError) Error() string {
	if e.Name == "" {
		return "shape factor scaling requested, but bead has no Sk value"
	}
	return fmt.Sprintf(
		"shape factor scaling requested, but bead %s has no Sk value", e.Name,
	)
}

// EffectiveSk returns the bead's shape factor, defaulting to 1 when unset.
func (b *Bead) EffectiveSk() float64 {
	if !b.HasSk {
		return 1.0
	}
	return b.Sk
}

// SetSk sets the shape factor and marks it present.
func (b *Bead) SetSk(sk float64) {
	b.Sk, b.HasSk = sk, true
}

// SetPolarizability sets the derived polarizability and marks it present.
func (b *Bead) SetPolarizability(alpha float64) {
	b.Polarizability, b.HasPolarizability = alpha, true
}

// Validate checks the physical validity conditions on a dimensional input
// record. It is meant to be called once at the boundary, before any
// computation, so interior code can assume well-formed records.
func (b *Bead) Validate() error {
	switch {
	case b.Epsilon <= 0:
		return fmt.Errorf("epsilon = %g must be positive", b.Epsilon)
	case b.Sigma <= 0:
		return fmt.Errorf("sigma = %g must be positive", b.Sigma)
	case b.LambdaA <= 3:
		return fmt.Errorf("lambdaa = %g must be greater than 3", b.LambdaA)
	case b.LambdaR <= b.LambdaA:
		return fmt.Errorf(
			"lambdar = %g must be greater than lambdaa = %g",
			b.LambdaR, b.LambdaA,
		)
	case b.Dipole < 0:
		return fmt.Errorf("dipole = %g must be nonnegative", b.Dipole)
	case b.Quadrupole < 0:
		return fmt.Errorf("quadrupole = %g must be nonnegative", b.Quadrupole)
	case b.IonizationEnergy < 0:
		return fmt.Errorf(
			"ionization energy = %g must be nonnegative", b.IonizationEnergy,
		)
	case b.HasSk && b.Sk <= 0:
		return fmt.Errorf("Sk = %g must be positive", b.Sk)
	}
	return nil
}

// Library maps bead names to parameter records. Names are unique and
// insertion order carries no meaning.
type Library map[string]Bead

// Names returns the bead names in sorted order. Every routine that iterates
// over a Library goes through this so pair enumeration is deterministic.
func (lib Library) Names() []string {
	names := make([]string, 0, len(lib))
	for name := range lib {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate validates every record in the library.
func (lib Library) Validate() error {
	for _, name := range lib.Names() {
		b := lib[name]
		if err := b.Validate(); err != nil {
			return fmt.Errorf("bead %s: %v", name, err)
		}
	}
	return nil
}

// Copy returns a library with fresh copies of every record, so per-pair
// computations can never alias the caller's records.
func (lib Library) Copy() Library {
	out := make(Library, len(lib))
	for name, b := range lib {
		out[name] = b
	}
	return out
}
