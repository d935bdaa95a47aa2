package cross

import (
	"math"

	"github.com/kmbarrett/beadmix/bead"
	"github.com/kmbarrett/beadmix/mie"
	"github.com/kmbarrett/beadmix/multipole"
)

// SelfOptions configures SelfFromMultipole.
type SelfOptions struct {
	// LambdaR is the repulsive exponent assumed for the refit bead. Ignored
	// when HasVdW is set.
	LambdaR float64
	// MieVdW, when HasVdW is set, fixes the repulsive exponent through the
	// Mie van-der-Waals-like relation instead of LambdaR.
	MieVdW float64
	HasVdW bool

	ShapeFactorScale bool
	Distance         mie.DomainOptions
	DistanceArray    []float64
}

// DefaultSelfOptions assumes a Lennard-Jones-like repulsive exponent of 12.
func DefaultSelfOptions() SelfOptions {
	return SelfOptions{LambdaR: 12, Distance: mie.DefaultDomainOptions()}
}

// SelfFromMultipole refits a bead's own attractive exponent and energy
// parameter so its Mie attractive branch reproduces the bead's multipole
// potential. The bead must carry a polarizability; it is returned with
// Epsilon, LambdaA, and LambdaR replaced. Input and output are
// nondimensional.
func SelfFromMultipole(b bead.Bead, opts SelfOptions) (bead.Bead, error) {
	if opts.ShapeFactorScale && !b.HasSk {
		b.SetSk(1.0)
	}

	terms := multipole.CrossTerms(b, b)
	rs := opts.DistanceArray
	if rs == nil {
		rs = mie.DistanceDomain(b, opts.Distance)
	}
	w, err := multipole.Potentials(rs, terms)
	if err != nil {
		return bead.Bead{}, err
	}

	logS := 0.0
	if opts.ShapeFactorScale {
		logS = math.Log(b.Sk * b.Sk)
	}
	k, lamA, _, _, err := fitLogAttractive(rs, w, b.Sigma, logS)
	if err != nil {
		return bead.Bead{}, err
	}

	b.LambdaA = lamA
	if opts.HasVdW {
		lamR, err := mie.LambdaRFromLambdaA(lamA, opts.MieVdW)
		if err != nil {
			return bead.Bead{}, err
		}
		b.LambdaR = lamR
	} else {
		b.LambdaR = opts.LambdaR
	}

	b.Epsilon = k / mie.Prefactor(b.LambdaR, b.LambdaA)
	if opts.ShapeFactorScale {
		b.Epsilon /= b.Sk * b.Sk
	}
	return b, nil
}
