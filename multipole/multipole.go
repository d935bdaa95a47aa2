// Package multipole evaluates the extended multipole electrostatic potential
// between two beads. The cross interaction collapses to nine coefficients,
// one per physically distinct multipole pair, which attach to inverse powers
// of the separation distance between r^-4 and r^-10.
package multipole

import (
	"fmt"
	"math"

	"github.com/kmbarrett/beadmix/bead"
)

// NumTerms is the length of the full coefficient vector and Condensed the
// length of its power-law reduction.
const (
	NumTerms  = 9
	Condensed = 4
)

// Indices into the 9-element coefficient vector, in the fixed order used
// throughout the package.
const (
	ChargeDipole = iota
	ChargeInduced
	InducedInduced
	DipoleDipole
	DipoleInduced
	ChargeQuadrupole
	DipoleQuadrupole
	InducedQuadrupole
	QuadQuad
)

// powers[i] is the inverse power of r that coefficient i attaches to.
var powers = [NumTerms]float64{4, 4, 6, 6, 6, 6, 8, 8, 10}

// condensedPowers[i] is the inverse power of r for condensed coefficient i.
var condensedPowers = [Condensed]float64{4, 6, 8, 10}

// ShapeError reports a coefficient vector that is neither the full 9-element
// form nor the condensed 4-element form.
type ShapeError struct {
	Len int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf(
		"coefficient vector has length %d, must be %d or %d",
		e.Len, Condensed, NumTerms,
	)
}

// SelfPotential evaluates the extended multipole self-interaction potential
// of a bead at distance r for a trial polarizability. The bead supplies the
// charge, dipole, quadrupole, and ionization energy; the polarizability is
// passed separately because it is the free parameter of the self fit.
func SelfPotential(r, polarizability float64, b bead.Bead) float64 {
	q2 := b.Charge * b.Charge
	mu2 := b.Dipole * b.Dipole
	qd2 := b.Quadrupole * b.Quadrupole

	t11 := -q2 * mu2
	t12 := -q2

	t21 := -3 * b.IonizationEnergy / 4
	t22 := -2 * mu2
	t23 := -mu2*mu2 - 3*qd2*q2/5

	t31 := -3 * mu2 * qd2
	t32 := -3 * qd2

	t41 := -21.0 / 5.0 * qd2 * qd2

	a := polarizability
	r2 := r * r
	r4 := r2 * r2
	r6 := r4 * r2
	r8 := r4 * r4
	r10 := r8 * r2

	return (t11+a*t12)/r4 + (t21*a*a+t22*a+t23)/r6 + (t31+a*t32)/r8 + t41/r10
}

// SelfPotentialDeriv is the derivative of SelfPotential with respect to the
// polarizability, used as the Jacobian of the self fit.
func SelfPotentialDeriv(r, polarizability float64, b bead.Bead) float64 {
	q2 := b.Charge * b.Charge
	mu2 := b.Dipole * b.Dipole
	qd2 := b.Quadrupole * b.Quadrupole

	r2 := r * r
	r4 := r2 * r2
	r6 := r4 * r2
	r8 := r4 * r4

	return -q2/r4 +
		(-3*b.IonizationEnergy/2*polarizability-2*mu2)/r6 - 3*qd2/r8
}

// CrossTerms computes the 9-element coefficient vector for a bead pair. Both
// beads must carry a polarizability. The induced terms use the combined
// ionization energy Ia*Ib/(Ia+Ib).
func CrossTerms(a, b bead.Bead) []float64 {
	qa2, qb2 := a.Charge*a.Charge, b.Charge*b.Charge
	mua2, mub2 := a.Dipole*a.Dipole, b.Dipole*b.Dipole
	qda2, qdb2 := a.Quadrupole*a.Quadrupole, b.Quadrupole*b.Quadrupole

	ion := a.IonizationEnergy * b.IonizationEnergy /
		(a.IonizationEnergy + b.IonizationEnergy)

	terms := make([]float64, NumTerms)
	terms[ChargeDipole] = (qa2*mub2 + qb2*mua2) / 2
	terms[ChargeInduced] = (qa2*b.Polarizability + qb2*a.Polarizability) / 2
	terms[InducedInduced] = 3 * ion * a.Polarizability * b.Polarizability / 2
	terms[DipoleDipole] = mua2 * mub2
	terms[DipoleInduced] = a.Polarizability*mub2 + b.Polarizability*mua2
	terms[ChargeQuadrupole] = 3 * (qda2*qb2 + qdb2*qa2) / 10
	terms[DipoleQuadrupole] = 3 * (mua2*qdb2 + mub2*qda2) / 2
	terms[InducedQuadrupole] =
		3 * (qda2*b.Polarizability + qdb2*a.Polarizability) / 2
	terms[QuadQuad] = 21.0 / 5.0 * qda2 * qdb2
	return terms
}

// Condense reduces the 9-element coefficient vector to one coefficient per
// inverse power of r. Both r^-4 contributions, charge-dipole and
// charge-induced-dipole, land in the first slot.
func Condense(terms []float64) ([]float64, error) {
	if len(terms) != NumTerms {
		return nil, &ShapeError{len(terms)}
	}
	out := make([]float64, Condensed)
	out[0] = terms[ChargeDipole] + terms[ChargeInduced]
	out[1] = terms[InducedInduced] + terms[DipoleDipole] +
		terms[DipoleInduced] + terms[ChargeQuadrupole]
	out[2] = terms[DipoleQuadrupole] + terms[InducedQuadrupole]
	out[3] = terms[QuadQuad]
	return out, nil
}

func termPowers(n int) ([]float64, error) {
	switch n {
	case Condensed:
		return condensedPowers[:], nil
	case NumTerms:
		return powers[:], nil
	}
	return nil, &ShapeError{n}
}

// Potential evaluates the total multipole potential, -sum(c_i / r^p_i), for a
// 4- or 9-element coefficient vector.
func Potential(r float64, terms []float64) (float64, error) {
	ps, err := termPowers(len(terms))
	if err != nil {
		return 0, err
	}
	sum := 0.0
	for i, c := range terms {
		sum += -c / math.Pow(r, ps[i])
	}
	return sum, nil
}

// PotentialTerms evaluates the per-term decomposition of the multipole
// potential. Summing the result reproduces Potential.
func PotentialTerms(r float64, terms []float64) ([]float64, error) {
	ps, err := termPowers(len(terms))
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(terms))
	for i, c := range terms {
		out[i] = -c / math.Pow(r, ps[i])
	}
	return out, nil
}

// Potentials evaluates the total multipole potential over a distance grid.
func Potentials(rs []float64, terms []float64) ([]float64, error) {
	if _, err := termPowers(len(terms)); err != nil {
		return nil, err
	}
	out := make([]float64, len(rs))
	for i, r := range rs {
		out[i], _ = Potential(r, terms)
	}
	return out, nil
}

// Integral computes the definite integral of the multipole potential,
// weighted by 4 pi r^2, from sigma0 to infinity. Each power-law term
// integrates to -4 pi c / ((p-3) sigma0^(p-3)). Returns the total and the
// per-term breakdown.
func Integral(sigma0 float64, terms []float64) (float64, []float64, error) {
	ps, err := termPowers(len(terms))
	if err != nil {
		return 0, nil, err
	}
	out := make([]float64, len(terms))
	total := 0.0
	for i, c := range terms {
		p := ps[i]
		out[i] = -4 * math.Pi * c / ((p - 3) * math.Pow(sigma0, p-3))
		total += out[i]
	}
	return total, out, nil
}
