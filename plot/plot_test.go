package plot

import (
	"bytes"
	"testing"

	"github.com/kmbarrett/beadmix/multipole"
)

func TestPotentialPNG(t *testing.T) {
	rs := make([]float64, 50)
	for i := range rs {
		rs[i] = 1 + 0.05*float64(i)
	}

	full := make([]float64, multipole.NumTerms)
	for i := range full {
		full[i] = float64(i + 1)
	}
	cond, err := multipole.Condense(full)
	if err != nil {
		t.Fatal(err.Error())
	}

	for _, terms := range [][]float64{full, cond} {
		buf := &bytes.Buffer{}
		if err := PotentialPNG(buf, rs, terms); err != nil {
			t.Fatalf("render failed for %d terms: %s", len(terms), err.Error())
		}
		if buf.Len() == 0 {
			t.Fatalf("empty image for %d terms", len(terms))
		}
		// PNG magic bytes.
		if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
			t.Fatalf("output for %d terms is not a PNG", len(terms))
		}
	}
}

func TestPotentialPNGBadShape(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := PotentialPNG(buf, []float64{1, 2}, make([]float64, 5)); err == nil {
		t.Fatal("length-5 coefficient vector rendered without error")
	}
}
