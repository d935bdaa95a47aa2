// Package solve implements the scalar numeric kernels used by the fitting
// engine: a bracketed Brent root finder and a bounded one-parameter
// least-squares driver.
package solve

import (
	"errors"
	"math"
)

// ErrNoBracket is returned when the objective has the same sign at both ends
// of the requested bracket, so no root is guaranteed to exist inside it.
var ErrNoBracket = errors.New("objective does not change sign over the bracket")

const maxIter = 200

// Brent finds a root of f in [a, b] with Brent's method. f(a) and f(b) must
// have opposite signs; a NaN at either end also fails the bracket check. The
// returned root is accurate to roughly xtol.
func Brent(f func(float64) float64, a, b, xtol float64) (float64, error) {
	fa, fb := f(a), f(b)
	if math.IsNaN(fa) || math.IsNaN(fb) || fa*fb > 0 {
		return 0, ErrNoBracket
	}
	if fa == 0 {
		return a, nil
	}
	if fb == 0 {
		return b, nil
	}

	c, fc := a, fa
	d, e := b-a, b-a

	for i := 0; i < maxIter; i++ {
		if (fb > 0) == (fc > 0) {
			c, fc = a, fa
			d, e = b-a, b-a
		}
		if math.Abs(fc) < math.Abs(fb) {
			a, b, c = b, c, b
			fa, fb, fc = fb, fc, fb
		}

		tol1 := 2*eps*math.Abs(b) + 0.5*xtol
		xm := 0.5 * (c - b)
		if math.Abs(xm) <= tol1 || fb == 0 {
			return b, nil
		}

		if math.Abs(e) >= tol1 && math.Abs(fa) > math.Abs(fb) {
			// Inverse quadratic interpolation, or secant if only two points
			// are distinct.
			var p, q float64
			s := fb / fa
			if a == c {
				p = 2 * xm * s
				q = 1 - s
			} else {
				q = fa / fc
				r := fb / fc
				p = s * (2*xm*q*(q-r) - (b-a)*(r-1))
				q = (q - 1) * (r - 1) * (s - 1)
			}
			if p > 0 {
				q = -q
			}
			p = math.Abs(p)
			min1 := 3*xm*q - math.Abs(tol1*q)
			min2 := math.Abs(e * q)
			if 2*p < math.Min(min1, min2) {
				e, d = d, p/q
			} else {
				d, e = xm, xm
			}
		} else {
			d, e = xm, xm
		}

		a, fa = b, fb
		if math.Abs(d) > tol1 {
			b += d
		} else {
			b += math.Copysign(tol1, xm)
		}
		fb = f(b)
	}

	return b, nil
}

var eps = math.Nextafter(1, 2) - 1

// FitScalar minimizes the sum of squared residuals over a single parameter
// constrained to [0, inf), by damped Gauss-Newton iteration. eval fills resid
// with the residuals at the trial parameter and jac with their derivatives.
// Both slices have length n.
//
// The second return value is the estimated parameter variance,
// ssr/(n-1) / sum(jac^2), the single-parameter analogue of the covariance
// matrix of a nonlinear least-squares fit.
func FitScalar(
	n int, a0 float64, eval func(a float64, resid, jac []float64),
) (a, variance float64) {
	resid := make([]float64, n)
	jac := make([]float64, n)

	a = math.Max(a0, 0)
	eval(a, resid, jac)
	ssr := sqrSum(resid)

	for i := 0; i < maxIter; i++ {
		num, den := 0.0, 0.0
		for j := range resid {
			num += resid[j] * jac[j]
			den += jac[j] * jac[j]
		}
		if den == 0 {
			break
		}

		step := -num / den
		next := math.Max(a+step, 0)

		// Halve the step until the residual norm stops increasing.
		eval(next, resid, jac)
		nextSSR := sqrSum(resid)
		for k := 0; k < 60 && nextSSR > ssr; k++ {
			step /= 2
			next = math.Max(a+step, 0)
			eval(next, resid, jac)
			nextSSR = sqrSum(resid)
		}

		done := math.Abs(next-a) <= 1e-14*(1+math.Abs(a))
		a, ssr = next, nextSSR
		if done {
			break
		}
	}

	eval(a, resid, jac)
	den := sqrSum(jac)
	if den == 0 || n < 2 {
		return a, math.Inf(1)
	}
	return a, sqrSum(resid) / float64(n-1) / den
}

func sqrSum(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x * x
	}
	return sum
}
