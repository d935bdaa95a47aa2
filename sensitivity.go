package beadmix

import (
	"fmt"
	"math"

	"github.com/kmbarrett/beadmix/bead"
	"github.com/kmbarrett/beadmix/mie"
	"github.com/kmbarrett/beadmix/polar"
	"github.com/kmbarrett/beadmix/units"
)

// SensitivityOptions configures the derivative diagnostics. Sigma0, when
// HasSigma0 is set, fixes the reduced-units lower bound directly; otherwise
// it is derived from LowerBound (RMin or Sigma).
type SensitivityOptions struct {
	LowerBound       mie.LowerBound
	Sigma0           float64
	HasSigma0        bool
	ShapeFactorScale bool
}

// PolarizabilitySensitivity holds the partial derivatives of a bead's fitted
// polarizability with respect to its multipole moments, in dimensional units
// (Angstrom^3 per unit of each moment).
type PolarizabilitySensitivity struct {
	Charge           float64
	Dipole           float64
	Quadrupole       float64
	IonizationEnergy float64
}

// EnergySensitivity holds the partial derivatives of a pair's integral-
// matched energy parameter with respect to one bead's multipole moments and
// polarizability, in dimensional units (K per unit of each quantity).
type EnergySensitivity struct {
	Charge           float64
	Dipole           float64
	Quadrupole       float64
	IonizationEnergy float64
	Polarizability   float64
}

// PartialPolarizability computes how strongly the integral-matched
// polarizability responds to each multipole moment of a dimensional bead at
// the given temperature. The polarizability enters the integral match
// quadratically, so the derivatives come from the closed-form root of that
// quadratic.
func PartialPolarizability(
	b bead.Bead, temperature float64, opts SensitivityOptions,
) (PolarizabilitySensitivity, error) {
	if err := b.Validate(); err != nil {
		return PolarizabilitySensitivity{}, err
	}
	conv, err := units.NewConverter(temperature)
	if err != nil {
		return PolarizabilitySensitivity{}, err
	}
	r := conv.ReduceBead(b)

	rm := opts.Sigma0
	if !opts.HasSigma0 {
		switch opts.LowerBound {
		case mie.RMin:
			rm = mie.PotentialMinimum(r)
		case mie.Sigma:
			rm = r.Sigma
		default:
			return PolarizabilitySensitivity{}, fmt.Errorf(
				"lower bound %v is not supported here", opts.LowerBound,
			)
		}
	}

	q, mu, qd, ion := r.Charge, r.Dipole, r.Quadrupole, r.IonizationEnergy
	q2, mu2, qd2 := q*q, mu*mu, qd*qd
	rm2 := rm * rm
	rm4 := rm2 * rm2

	a := -2 / ion * (q2*rm2 + 2*mu2/3 + 3*qd2*rm2)
	bq := 4 / (ion * ion) * (q2*q2*rm4 + 4*q2*mu2*rm2/3 + 6*qd2*q2/5 +
		4.0/9.0*mu2*mu2 + 4.0/5.0*mu2*qd2/rm2 + 9.0/25.0*qd2*qd2/rm4)
	c := 4 / ion * (q2*mu2*rm2 + mu2*mu2/3 + qd2*q2/5 +
		3.0/5.0*qd2*mu2/rm2 + 3.0/5.0*qd2*qd2/rm4 -
		mie.Prefactor(r.LambdaR, r.LambdaA)/(r.LambdaA-3)*
			r.Epsilon*math.Pow(r.Sigma, r.LambdaA)/
			math.Pow(rm, r.LambdaA-6))

	root := math.Sqrt(bq - c)

	// d alpha / d I
	dIon := -(a + root) / ion

	// d alpha / d q
	tmp1 := 4 / (ion * ion) *
		(4*q*q2*rm4 + 8.0/3.0*q*mu2*rm2 + q*qd2*12.0/5.0)
	tmp2 := 8 / ion * (q*mu2*rm2 + q*qd2/5)
	dCharge := -4*q*rm2/ion + (tmp1-tmp2)/(2*root)

	// d alpha / d mu
	tmp1 = 4 / (ion * ion) *
		(8.0/3.0*q2*rm2*mu + 16.0/9.0*mu*mu2 + 8.0/5.0*mu*qd2/rm2)
	tmp2 = 8 / ion * (q*mu2*rm2 + 4.0/3.0*mu*mu2 + 3.0/5.0*mu*qd2/rm2)
	dDipole := -8.0/3.0*mu/ion + (tmp1-tmp2)/(2*root)

	// d alpha / d Q
	tmp1 = 4 / (ion * ion) *
		(12.0/5.0*q2*qd + 8.0/5.0*mu2*qd/rm2 + 36.0/25.0*qd*qd2/rm4)
	tmp2 = 4 / ion *
		(2.0/5.0*q2*qd + 6.0/5.0*mu2*qd/rm2 + 12.0/5.0*qd*qd2/rm4)
	dQuad := -12.0/5.0*qd/ion/rm2 + (tmp1-tmp2)/(2*root)

	// Each derivative is reduced-polarizability per reduced-moment; rescale
	// both sides back to dimensional units.
	out := PolarizabilitySensitivity{}
	out.IonizationEnergy = rescale(conv, dIon, units.IonizationEnergy)
	out.Charge = rescale(conv, dCharge, units.Charge)
	out.Dipole = rescale(conv, dDipole, units.Dipole)
	out.Quadrupole = rescale(conv, dQuad, units.Quadrupole)
	return out, nil
}

func rescale(conv *units.Converter, dv float64, kind units.Kind) float64 {
	reduced, _ := conv.ToReduced(dv, kind)
	out, _ := conv.ToPhysical(reduced, units.Polarizability)
	return out
}

// PartialEnergyParameter computes how strongly the integral-matched cross
// energy parameter of a dimensional bead pair responds to each bead's
// multipole moments and polarizability at the given temperature. Beads
// without a polarizability get one from the integral strategy first.
func PartialEnergyParameter(
	a, b bead.Bead, temperature float64, opts SensitivityOptions,
) (EnergySensitivity, EnergySensitivity, error) {
	var zero EnergySensitivity
	if err := a.Validate(); err != nil {
		return zero, zero, err
	}
	if err := b.Validate(); err != nil {
		return zero, zero, err
	}
	conv, err := units.NewConverter(temperature)
	if err != nil {
		return zero, zero, err
	}

	ra, rb := conv.ReduceBead(a), conv.ReduceBead(b)
	polarOpts := polar.Options{ShapeFactorScale: opts.ShapeFactorScale}
	for _, r := range []*bead.Bead{&ra, &rb} {
		if r.HasPolarizability {
			continue
		}
		rs := mie.DistanceDomain(*r, mie.DefaultDomainOptions())
		alpha, err := polar.SolveIntegral(rs[0], *r, polarOpts)
		if err != nil {
			return zero, zero, &PolarizabilityError{"", err}
		}
		r.SetPolarizability(alpha)
	}

	mixed := mie.Mixed(ra, rb)
	rm := opts.Sigma0
	if !opts.HasSigma0 {
		switch opts.LowerBound {
		case mie.RMin:
			rm = mie.PotentialMinimum(mixed)
		case mie.Sigma:
			rm = mixed.Sigma
		default:
			return zero, zero, fmt.Errorf(
				"lower bound %v is not supported here", opts.LowerBound,
			)
		}
	}

	scale := mie.Prefactor(mixed.LambdaR, mixed.LambdaA) / (mixed.LambdaA - 3) *
		math.Pow(mixed.Sigma, mixed.LambdaA) / math.Pow(rm, mixed.LambdaA-3)
	if opts.ShapeFactorScale {
		if !a.HasSk || !b.HasSk {
			return zero, zero, &bead.MissingShapeFactorError{}
		}
		scale *= a.Sk * b.Sk
	}

	sa := energyPartials(conv, ra, rb, rm, scale)
	sb := energyPartials(conv, rb, ra, rm, scale)
	return sa, sb, nil
}

// energyPartials computes the dimensional energy-parameter derivatives with
// respect to one bead's quantities, with the partner bead held fixed.
func energyPartials(
	conv *units.Converter, self, other bead.Bead, rm, scale float64,
) EnergySensitivity {
	rm3 := rm * rm * rm
	rm5 := rm3 * rm * rm
	rm7 := rm5 * rm * rm

	qs, qo := self.Charge, other.Charge
	mus, muo2 := self.Dipole, other.Dipole*other.Dipole
	qds, qdo2 := self.Quadrupole, other.Quadrupole*other.Quadrupole
	as, ao := self.Polarizability, other.Polarizability

	dIon := as * ao / rm3 / 2 / scale

	dCharge := (qs/rm*(ao+muo2) + qs*qdo2/rm3/10) / scale

	dDipole := (qo*qo*mus/rm + 2.0/3.0*mus/rm3*(muo2+ao) +
		3.0/5.0/rm5*mus*qdo2) / scale

	dQuad := (qo*qo*qds/rm3/5 + 3.0/5.0*qds/rm5*(muo2+ao) +
		6.0/5.0/rm7*qds*qdo2) / scale

	ion := self.IonizationEnergy * other.IonizationEnergy /
		(self.IonizationEnergy + other.IonizationEnergy)
	dAlpha := (qo*qo/rm/2 + 1.0/3.0/rm3*(muo2+3.0/2.0*ao*ion) +
		3.0/10.0/rm5*qdo2) / scale

	toEnergy := func(dv float64, kind units.Kind) float64 {
		reduced, _ := conv.ToReduced(dv, kind)
		out, _ := conv.ToPhysical(reduced, units.Energy)
		return out
	}

	return EnergySensitivity{
		Charge:           toEnergy(dCharge, units.Charge),
		Dipole:           toEnergy(dDipole, units.Dipole),
		Quadrupole:       toEnergy(dQuad, units.Quadrupole),
		IonizationEnergy: toEnergy(dIon, units.IonizationEnergy),
		Polarizability:   toEnergy(dAlpha, units.Polarizability),
	}
}
