// Package mie evaluates the attractive branch of the Mie pair potential and
// the combining-rule geometry built on it. All quantities are
// nondimensional; see the units package.
package mie

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/kmbarrett/beadmix/bead"
	"github.com/kmbarrett/beadmix/math/solve"
)

// DomainPoints is the fixed size of every fitting-distance domain.
const DomainPoints = 10000

// LowerBound selects how the lower end of a distance domain is chosen.
type LowerBound int

const (
	// RMin places the lower bound at the potential-well distance.
	RMin LowerBound = iota
	// Sigma places the lower bound at the size parameter.
	Sigma
	// Tolerance places the lower bound where the repulsive term has decayed
	// to a given fraction of the attractive term.
	Tolerance
)

func (lb LowerBound) String() string {
	switch lb {
	case RMin:
		return "rmin"
	case Sigma:
		return "sigma"
	case Tolerance:
		return "tolerance"
	}
	return fmt.Sprintf("LowerBound(%d)", int(lb))
}

// ParseLowerBound converts a configuration string to a LowerBound.
func ParseLowerBound(s string) (LowerBound, error) {
	switch s {
	case "rmin":
		return RMin, nil
	case "sigma":
		return Sigma, nil
	case "tolerance":
		return Tolerance, nil
	}
	return 0, fmt.Errorf("unknown lower bound mode %q", s)
}

// DomainOptions configures distance-domain construction.
type DomainOptions struct {
	LowerBound LowerBound
	Tol        float64 // repulsive/attractive ratio for Tolerance mode
	MaxFactor  float64 // upper bound as a multiple of the lower bound
}

// DefaultDomainOptions returns the documented defaults: rmin lower bound,
// tol = 0.01, and an upper bound at twice the lower bound.
func DefaultDomainOptions() DomainOptions {
	return DomainOptions{LowerBound: RMin, Tol: 0.01, MaxFactor: 2}
}

// Prefactor computes the Mie prefactor
// C = lamr/(lamr-lama) * (lamr/lama)^(lama/(lamr-lama)).
func Prefactor(lamR, lamA float64) float64 {
	return lamR / (lamR - lamA) * math.Pow(lamR/lamA, lamA/(lamR-lamA))
}

// PotentialMinimum returns the distance of the Mie potential well,
// sigma * (lamr/lama)^(1/(lamr-lama)).
func PotentialMinimum(b bead.Bead) float64 {
	return b.Sigma * math.Pow(b.LambdaR/b.LambdaA, 1/(b.LambdaR-b.LambdaA))
}

// Mixed applies the combining rules to two beads: arithmetic-mean sigma,
// geometric-mean epsilon, and 3 + sqrt((la-3)(lb-3)) on each exponent. The
// result is symmetric in its arguments.
func Mixed(b1, b2 bead.Bead) bead.Bead {
	return bead.Bead{
		Sigma:   (b1.Sigma + b2.Sigma) / 2,
		LambdaR: 3 + math.Sqrt((b1.LambdaR-3)*(b2.LambdaR-3)),
		LambdaA: 3 + math.Sqrt((b1.LambdaA-3)*(b2.LambdaA-3)),
		Epsilon: math.Sqrt(b1.Epsilon * b2.Epsilon),
	}
}

// DistanceDomain builds the fixed-size fitting grid for a bead: DomainPoints
// evenly spaced distances from the lower bound rm to opts.MaxFactor*rm.
func DistanceDomain(b bead.Bead, opts DomainOptions) []float64 {
	var rm float64
	switch opts.LowerBound {
	case RMin:
		rm = PotentialMinimum(b)
	case Sigma:
		rm = b.Sigma
	case Tolerance:
		rm = b.Sigma * math.Pow(1/opts.Tol, 1/(b.LambdaR-b.LambdaA))
	}
	return floats.Span(make([]float64, DomainPoints), rm, opts.MaxFactor*rm)
}

// AttractivePotential evaluates the attractive term of the Mie potential,
// -C * epsilon * (sigma/r)^lama, at a single distance.
func AttractivePotential(r float64, b bead.Bead) float64 {
	return -Prefactor(b.LambdaR, b.LambdaA) * b.Epsilon *
		math.Pow(b.Sigma/r, b.LambdaA)
}

// AttractivePotentials evaluates the attractive term over a distance grid.
func AttractivePotentials(rs []float64, b bead.Bead) []float64 {
	c := -Prefactor(b.LambdaR, b.LambdaA) * b.Epsilon
	out := make([]float64, len(rs))
	for i, r := range rs {
		out[i] = c * math.Pow(b.Sigma/r, b.LambdaA)
	}
	return out
}

// EpsilonFromLambdaA inverts the attractive-exponent combining rule: it
// returns the cross energy parameter consistent with a fitted attractive
// exponent for the pair (b1, b2).
func EpsilonFromLambdaA(lamA float64, b1, b2 bead.Bead) float64 {
	sigmaMean := (b1.Sigma + b2.Sigma) / 2
	tmpSigma := math.Sqrt(math.Pow(b1.Sigma, 3)*math.Pow(b2.Sigma, 3)) /
		math.Pow(sigmaMean, 3)
	tmpLambda := (lamA - 3) / math.Sqrt((b1.LambdaA-3)*(b2.LambdaA-3))
	return math.Sqrt(b1.Epsilon*b2.Epsilon) * tmpSigma * tmpLambda
}

// LambdaFromEpsilon inverts the energy combining rule: given a cross energy
// parameter it returns the pair of exponents consistent with it.
func LambdaFromEpsilon(epsij float64, b1, b2 bead.Bead) (lamR, lamA float64) {
	sigmaMean := (b1.Sigma + b2.Sigma) / 2
	tmp := epsij * math.Pow(sigmaMean, 3) /
		math.Sqrt(math.Pow(b1.Sigma, 3)*math.Pow(b2.Sigma, 3)) /
		math.Sqrt(b1.Epsilon*b2.Epsilon)
	lamR = 3 + tmp*math.Sqrt((b1.LambdaR-3)*(b2.LambdaR-3))
	lamA = 3 + tmp*math.Sqrt((b1.LambdaA-3)*(b2.LambdaA-3))
	return lamR, lamA
}

// LambdaRFromLambdaA finds the repulsive exponent for which the Mie
// van-der-Waals-like relation
// vdw = C(lamr, lama) * (1/(lama-3) - 1/(lamr-3))
// holds, by a bracketed root-find on (1.01*lama, 1e4).
func LambdaRFromLambdaA(lamA, vdw float64) (float64, error) {
	return solve.Brent(func(x float64) float64 {
		return vdw - Prefactor(x, lamA)*(1/(lamA-3)-1/(x-3))
	}, 1.01*lamA, 1e4, 1e-12)
}

// LambdaRFromPrefactorRatio finds lamr such that C(lamr, lama) equals the
// given ratio. Used by the cross fit, where the ratio is K/epsilon.
func LambdaRFromPrefactorRatio(lamA, ratio float64) (float64, error) {
	return solve.Brent(func(x float64) float64 {
		return ratio - Prefactor(x, lamA)
	}, 1.01*lamA, 1e4, 1e-12)
}

// Integral is the definite integral of the attractive term, weighted by
// 4 pi r^2, from sigma0 to infinity:
// -4 pi epsilon C sigma^lama / (sigma0^(lama-3) (lama-3)).
func Integral(sigma0 float64, b bead.Bead) float64 {
	return -4 * math.Pi * b.Epsilon * Prefactor(b.LambdaR, b.LambdaA) *
		math.Pow(b.Sigma, b.LambdaA) /
		math.Pow(sigma0, b.LambdaA-3) / (b.LambdaA - 3)
}
