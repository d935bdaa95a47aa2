package cross

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kmbarrett/beadmix/bead"
)

// dipoleBead carries only a permanent dipole, so its multipole potential is a
// pure r^-6 power law and the fit must recover it exactly.
func dipoleBead(mu2 float64) bead.Bead {
	b := bead.Bead{
		Epsilon: 0.01, Sigma: 1, LambdaR: 12, LambdaA: 6,
		Dipole: math.Sqrt(mu2), IonizationEnergy: 1,
	}
	b.SetPolarizability(0)
	return b
}

func TestFitPurePowerLaw(t *testing.T) {
	// mu^2 = 0.2 per bead gives a dipole-dipole coefficient of 0.04, so the
	// prefactor ratio is 0.04 / sqrt(0.01 * 0.01) = 4 and the repulsive
	// exponent must come back as exactly 12.
	a, b := dipoleBead(0.2), dipoleBead(0.2)

	out, err := Fit(a, b, DefaultOptions())
	if err != nil {
		t.Fatal(err.Error())
	}

	assert.InDelta(t, 6.0, out.LambdaA, 1e-9, "attractive exponent")
	assert.InDelta(t, 12.0, out.LambdaR, 1e-6, "repulsive exponent")
	assert.InDelta(t, 0.01, out.Epsilon, 1e-9, "energy parameter")
	assert.InDelta(t, 0.0, out.Kij, 1e-9, "kij")
	assert.InDelta(t, 0.0, out.VarianceLambdaA, 1e-12, "exponent variance")

	// sigma_a = sigma_b means the SAFT correction is the identity.
	assert.InDelta(t, 0.01, out.EpsilonSAFT, 1e-12, "saft epsilon")
	assert.InDelta(t, 0.0, out.KijSAFT, 1e-12, "saft kij")
}

func TestFitSymmetry(t *testing.T) {
	a, b := dipoleBead(0.2), dipoleBead(0.15)
	ab, err := Fit(a, b, DefaultOptions())
	if err != nil {
		t.Fatal(err.Error())
	}
	ba, err := Fit(b, a, DefaultOptions())
	if err != nil {
		t.Fatal(err.Error())
	}
	assert.InDelta(t, ab.Epsilon, ba.Epsilon, 1e-12, "epsilon symmetry")
	assert.InDelta(t, ab.LambdaA, ba.LambdaA, 1e-12, "exponent symmetry")
}

func TestFitInfeasibleExponent(t *testing.T) {
	// Equal energies of 1 and a unit dipole coefficient force a prefactor
	// ratio of exactly 1, below the feasibility threshold.
	a, b := dipoleBead(1), dipoleBead(1)
	a.Epsilon, b.Epsilon = 1, 1

	_, err := Fit(a, b, DefaultOptions())
	if _, ok := err.(*InfeasibleExponentError); !ok {
		t.Fatalf("infeasible pair returned %v", err)
	}
}

func TestFitDistanceArray(t *testing.T) {
	a, b := dipoleBead(0.2), dipoleBead(0.2)
	opts := DefaultOptions()
	opts.DistanceArray = []float64{1.1, 1.3, 1.5, 1.7, 1.9, 2.1}

	out, err := Fit(a, b, opts)
	if err != nil {
		t.Fatal(err.Error())
	}
	// A pure power law fits exactly on any grid.
	assert.InDelta(t, 6.0, out.LambdaA, 1e-9, "attractive exponent")
}

func TestFitShapeFactorDefault(t *testing.T) {
	// With unit shape factors, scaling must not change the fit.
	a, b := dipoleBead(0.2), dipoleBead(0.2)

	plain, err := Fit(a, b, DefaultOptions())
	if err != nil {
		t.Fatal(err.Error())
	}

	opts := DefaultOptions()
	opts.ShapeFactorScale = true
	scaled, err := Fit(a, b, opts) // no Sk set: defaults to 1
	if err != nil {
		t.Fatal(err.Error())
	}

	assert.InDelta(t, plain.Epsilon, scaled.Epsilon, 1e-9, "epsilon")
	assert.InDelta(t, plain.LambdaA, scaled.LambdaA, 1e-9, "exponent")
}

func TestFitLogAttractiveBound(t *testing.T) {
	// Observations whose magnitude grows with distance would fit a negative
	// exponent. The exponent lands on its lower bound of zero instead and
	// the prefactor refits alone, to the mean of the log observations.
	rs := []float64{1.0, 1.25, 1.5, 1.75, 2.0}
	w := make([]float64, len(rs))
	mean := 0.0
	for i, r := range rs {
		y := 2 + 0.5*math.Log(r)
		w[i] = -math.Exp(y)
		mean += y
	}
	mean /= float64(len(rs))

	k, lamA, _, _, err := fitLogAttractive(rs, w, 1, 0)
	if err != nil {
		t.Fatal(err.Error())
	}
	if lamA != 0 {
		t.Errorf("bounded exponent fit returned lambdaa = %g", lamA)
	}
	assert.InEpsilon(t, math.Exp(mean), k, 1e-12, "prefactor")
}

func TestSolveIntegral(t *testing.T) {
	// With a dipole-dipole coefficient of 0.04 the multipole integral equals
	// the combining-rule Mie integral, so the matched energy parameter is the
	// combining-rule value itself.
	a, b := dipoleBead(0.2), dipoleBead(0.2)

	out, err := SolveIntegral(a, b, DefaultOptions())
	if err != nil {
		t.Fatal(err.Error())
	}
	assert.InDelta(t, 0.01, out.Epsilon, 1e-9, "energy parameter")
	assert.InDelta(t, 12.0, out.LambdaR, 1e-12, "combining-rule lambda r")
	assert.InDelta(t, 6.0, out.LambdaA, 1e-12, "combining-rule lambda a")
	assert.InDelta(t, 0.0, out.Kij, 1e-9, "kij")
}

func TestSolveIntegralMissingShapeFactor(t *testing.T) {
	a, b := dipoleBead(0.2), dipoleBead(0.2)
	opts := DefaultOptions()
	opts.ShapeFactorScale = true

	_, err := SolveIntegral(a, b, opts)
	if _, ok := err.(*bead.MissingShapeFactorError); !ok {
		t.Fatalf("missing shape factor returned %v", err)
	}
}
