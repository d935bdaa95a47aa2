package mie

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kmbarrett/beadmix/bead"
)

func lj() bead.Bead {
	return bead.Bead{Epsilon: 1, Sigma: 1, LambdaR: 12, LambdaA: 6}
}

func TestPrefactor(t *testing.T) {
	// The 12-6 prefactor is exactly 4.
	assert.InDelta(t, 4.0, Prefactor(12, 6), 1e-12, "12-6 prefactor")
}

func TestPotentialMinimum(t *testing.T) {
	// The 12-6 well sits at 2^(1/6) sigma.
	b := lj()
	b.Sigma = 3.5
	assert.InDelta(t, 3.5*math.Pow(2, 1.0/6), PotentialMinimum(b), 1e-12,
		"12-6 well distance")
}

func TestMixed(t *testing.T) {
	b1 := bead.Bead{Epsilon: 2, Sigma: 1, LambdaR: 23, LambdaA: 6.66}
	b2 := bead.Bead{Epsilon: 8, Sigma: 3, LambdaR: 15.05, LambdaA: 6}

	m12, m21 := Mixed(b1, b2), Mixed(b2, b1)
	assert.Equal(t, m12, m21, "symmetry")
	assert.Equal(t, 2.0, m12.Sigma, "arithmetic sigma")
	assert.Equal(t, 4.0, m12.Epsilon, "geometric epsilon")
	assert.InDelta(t, 3+math.Sqrt(20*12.05), m12.LambdaR, 1e-12, "lambda r")

	// A bead mixed with itself is itself.
	self := Mixed(b1, b1)
	assert.InDelta(t, b1.Epsilon, self.Epsilon, 1e-12, "self epsilon")
	assert.InDelta(t, b1.LambdaR, self.LambdaR, 1e-12, "self lambda r")
}

func TestDistanceDomain(t *testing.T) {
	b := lj()
	table := []struct {
		opts  DomainOptions
		lower float64
	}{
		{DomainOptions{RMin, 0.01, 2}, PotentialMinimum(b)},
		{DomainOptions{Sigma, 0.01, 2}, b.Sigma},
		{DomainOptions{Tolerance, 0.01, 2}, math.Pow(100, 1.0/6)},
	}

	for i, test := range table {
		rs := DistanceDomain(b, test.opts)
		if len(rs) != DomainPoints {
			t.Errorf("%d) domain has %d points", i, len(rs))
		}
		if math.Abs(rs[0]-test.lower) > 1e-12 {
			t.Errorf("%d) domain starts at %g, not %g", i, rs[0], test.lower)
		}
		if math.Abs(rs[len(rs)-1]-2*test.lower) > 1e-12 {
			t.Errorf("%d) domain ends at %g, not %g",
				i, rs[len(rs)-1], 2*test.lower)
		}
	}
}

func TestAttractivePotential(t *testing.T) {
	b := lj()
	assert.InDelta(t, -4.0, AttractivePotential(1, b), 1e-12, "at sigma")

	// Strictly increasing toward zero with distance.
	rs := DistanceDomain(b, DefaultDomainOptions())
	ws := AttractivePotentials(rs, b)
	for i := 1; i < len(ws); i++ {
		if ws[i] <= ws[i-1] {
			t.Fatalf("attractive term not increasing at r = %g", rs[i])
		}
		if ws[i] >= 0 {
			t.Fatalf("attractive term not negative at r = %g", rs[i])
		}
	}
}

func TestEpsilonLambdaInverses(t *testing.T) {
	b1 := bead.Bead{Epsilon: 1.2, Sigma: 0.9, LambdaR: 23, LambdaA: 6.66}
	b2 := bead.Bead{Epsilon: 0.7, Sigma: 1.1, LambdaR: 15.05, LambdaA: 6}

	// The two combining-rule inversions agree with each other.
	lamA := 6.3
	eps := EpsilonFromLambdaA(lamA, b1, b2)
	_, lamABack := LambdaFromEpsilon(eps, b1, b2)
	assert.InDelta(t, lamA, lamABack, 1e-12, "exponent round trip")

	// At the combining-rule exponent the combining-rule epsilon comes back.
	mixed := Mixed(b1, b2)
	eps = EpsilonFromLambdaA(mixed.LambdaA, b1, b2)
	sigmaFrac := math.Sqrt(math.Pow(b1.Sigma, 3)*math.Pow(b2.Sigma, 3)) /
		math.Pow(mixed.Sigma, 3)
	assert.InDelta(t, mixed.Epsilon*sigmaFrac, eps, 1e-12, "combining epsilon")
}

func TestLambdaRFromPrefactorRatio(t *testing.T) {
	lamR, err := LambdaRFromPrefactorRatio(6, 4)
	if err != nil {
		t.Fatal(err.Error())
	}
	assert.InDelta(t, 12.0, lamR, 1e-9, "12-6 recovered from C = 4")
}

func TestLambdaRFromLambdaA(t *testing.T) {
	// Round trip: compute the van der Waals relation at 12-6, then invert.
	vdw := Prefactor(12, 6) * (1/(6.0-3) - 1/(12.0-3))
	lamR, err := LambdaRFromLambdaA(6, vdw)
	if err != nil {
		t.Fatal(err.Error())
	}
	assert.InDelta(t, 12.0, lamR, 1e-9, "12-6 recovered")
}

func TestIntegral(t *testing.T) {
	// For the 12-6 potential from sigma: -4 pi * 4 / 3 = -16 pi / 3.
	got := Integral(1, lj())
	assert.InDelta(t, -16*math.Pi/3, got, 1e-12, "12-6 integral")
}
