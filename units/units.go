// Package units converts bead parameters between dimensional units
// (K, Angstroms, Debye, kcal/mol, elementary charges) and the nondimensional,
// temperature-scaled forms used by the fitting engine.
//
// Nondimensional parameters are scaled using the vacuum permittivity, the
// Boltzmann constant, and the elementary charge. Converting to nondimensional
// form and back at the same temperature is the identity to floating tolerance.
package units

import (
	"fmt"
	"math"

	"github.com/kmbarrett/beadmix/bead"
)

// Kind names a convertible parameter type. Exponents (lambdar, lambdaa), shape
// factors, and kij values are already dimensionless and have no Kind.
type Kind int

const (
	Energy Kind = iota
	IonizationEnergy
	Size
	Dipole
	Quadrupole
	Charge
	Polarizability
	numKinds
)

var kindNames = [numKinds]string{
	"energy", "ionization-energy", "size", "dipole", "quadrupole", "charge",
	"polarizability",
}

func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// UnsupportedParameterError reports a conversion request for a parameter kind
// that is not in the conversion table. This is a caller bug, not a property of
// the input data.
type UnsupportedParameterError struct {
	Kind Kind
}

func (e *UnsupportedParameterError) Error() string {
	return fmt.Sprintf("parameter kind %s is not supported for unit conversion",
		e.Kind)
}

// Unit conversion constants, in the kcal/mol-Angstrom unit system.
const (
	cLength  = 1e+10            // Ang / m
	cDebye   = 3.33564e-20      // C Ang / Debye
	cEnergy  = 6.9477e-21       // J / (kcal/mol)
	eCharge  = 1.602176565e-19  // C
	epsilon0 = 8.854187817e-12 * cEnergy / cLength // C^2 mol / (kcal Ang)
	kBoltz   = 1.38064852e-23 / cEnergy            // kcal / (mol K)
)

// Converter holds the temperature-dependent scale factors for one temperature.
// Multiplying by a factor nondimensionalizes; dividing restores dimensions.
type Converter struct {
	Temperature float64
	factors     [numKinds]float64
}

// Override replaces the scale factor of a single parameter kind.
type Override struct {
	Kind   Kind
	Factor float64
}

// NewConverter builds the conversion table for the given temperature in
// Kelvin. Overrides, if any, replace the derived factors.
func NewConverter(temperature float64, overrides ...Override) (*Converter, error) {
	if temperature <= 0 {
		return nil, fmt.Errorf("temperature = %g K must be positive", temperature)
	}

	perm := math.Pow(4*math.Pi*epsilon0, 2)
	kT3 := 3 * kBoltz * temperature // kcal/mol

	c := &Converter{Temperature: temperature}
	c.factors[Energy] = 1 / (3 * temperature)
	c.factors[IonizationEnergy] = 1 / kT3
	c.factors[Size] = math.Sqrt(perm) * kT3 / (eCharge * eCharge)
	c.factors[Dipole] = cDebye * math.Sqrt(perm) * kT3 / math.Pow(eCharge, 3)
	c.factors[Quadrupole] = cDebye * perm * kT3 * kT3 / math.Pow(eCharge, 5)
	c.factors[Charge] = 1
	c.factors[Polarizability] =
		4 * math.Pi * epsilon0 * perm * math.Pow(kT3, 3) / math.Pow(eCharge, 6)

	for _, ov := range overrides {
		if ov.Kind < 0 || ov.Kind >= numKinds {
			return nil, &UnsupportedParameterError{ov.Kind}
		}
		c.factors[ov.Kind] = ov.Factor
	}

	return c, nil
}

// ToReduced nondimensionalizes a single scalar of the given kind.
func (c *Converter) ToReduced(x float64, kind Kind) (float64, error) {
	if kind < 0 || kind >= numKinds {
		return 0, &UnsupportedParameterError{kind}
	}
	return x * c.factors[kind], nil
}

// ToPhysical restores dimensional units for a single scalar of the given kind.
func (c *Converter) ToPhysical(x float64, kind Kind) (float64, error) {
	if kind < 0 || kind >= numKinds {
		return 0, &UnsupportedParameterError{kind}
	}
	return x / c.factors[kind], nil
}

// ReduceBead nondimensionalizes every convertible field of a record. The Mie
// exponents and shape factor pass through unchanged.
func (c *Converter) ReduceBead(b bead.Bead) bead.Bead {
	out := b
	out.Epsilon = b.Epsilon * c.factors[Energy]
	out.IonizationEnergy = b.IonizationEnergy * c.factors[IonizationEnergy]
	out.Sigma = b.Sigma * c.factors[Size]
	out.Dipole = b.Dipole * c.factors[Dipole]
	out.Quadrupole = b.Quadrupole * c.factors[Quadrupole]
	out.Charge = b.Charge * c.factors[Charge]
	if b.HasPolarizability {
		out.Polarizability = b.Polarizability * c.factors[Polarizability]
	}
	return out
}

// RestoreBead is the inverse of ReduceBead.
func (c *Converter) RestoreBead(b bead.Bead) bead.Bead {
	out := b
	out.Epsilon = b.Epsilon / c.factors[Energy]
	out.IonizationEnergy = b.IonizationEnergy / c.factors[IonizationEnergy]
	out.Sigma = b.Sigma / c.factors[Size]
	out.Dipole = b.Dipole / c.factors[Dipole]
	out.Quadrupole = b.Quadrupole / c.factors[Quadrupole]
	out.Charge = b.Charge / c.factors[Charge]
	if b.HasPolarizability {
		out.Polarizability = b.Polarizability / c.factors[Polarizability]
	}
	return out
}

// ReduceLibrary nondimensionalizes every record of a library into a new
// library. The input is not modified.
func (c *Converter) ReduceLibrary(lib bead.Library) bead.Library {
	out := make(bead.Library, len(lib))
	for name, b := range lib {
		out[name] = c.ReduceBead(b)
	}
	return out
}

// RestoreLibrary is the inverse of ReduceLibrary.
func (c *Converter) RestoreLibrary(lib bead.Library) bead.Library {
	out := make(bead.Library, len(lib))
	for name, b := range lib {
		out[name] = c.RestoreBead(b)
	}
	return out
}
