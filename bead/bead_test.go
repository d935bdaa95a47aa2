package bead

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func valid() Bead {
	return Bead{Epsilon: 300, Sigma: 3.7, LambdaR: 12, LambdaA: 6}
}

func TestValidate(t *testing.T) {
	table := []struct {
		name   string
		mangle func(*Bead)
		ok     bool
	}{
		{"valid", func(b *Bead) {}, true},
		{"zero epsilon", func(b *Bead) { b.Epsilon = 0 }, false},
		{"negative sigma", func(b *Bead) { b.Sigma = -1 }, false},
		{"lambdaa at 3", func(b *Bead) { b.LambdaA = 3 }, false},
		{"lambdar below lambdaa", func(b *Bead) { b.LambdaR = 5 }, false},
		{"negative dipole", func(b *Bead) { b.Dipole = -0.1 }, false},
		{"negative quadrupole", func(b *Bead) { b.Quadrupole = -0.1 }, false},
		{"negative ionization",
			func(b *Bead) { b.IonizationEnergy = -1 }, false},
		{"zero shape factor", func(b *Bead) { b.SetSk(0) }, false},
		{"negative charge ok", func(b *Bead) { b.Charge = -0.5 }, true},
	}

	for _, test := range table {
		b := valid()
		test.mangle(&b)
		err := b.Validate()
		if test.ok && err != nil {
			t.Errorf("%s: unexpected error: %s", test.name, err.Error())
		} else if !test.ok && err == nil {
			t.Errorf("%s: validated without error", test.name)
		}
	}
}

func TestEffectiveSk(t *testing.T) {
	b := valid()
	assert.Equal(t, 1.0, b.EffectiveSk(), "default shape factor")
	b.SetSk(0.57)
	assert.Equal(t, 0.57, b.EffectiveSk(), "explicit shape factor")
	assert.True(t, b.HasSk, "presence flag")
}

func TestLibraryNames(t *testing.T) {
	lib := Library{"CO2": valid(), "AR": valid(), "CH3": valid()}
	assert.Equal(t, []string{"AR", "CH3", "CO2"}, lib.Names(), "sorted names")
}

func TestLibraryValidate(t *testing.T) {
	bad := valid()
	bad.LambdaA = 2
	lib := Library{"OK": valid(), "BAD": bad}

	err := lib.Validate()
	if err == nil {
		t.Fatal("invalid library validated without error")
	}
	assert.Contains(t, err.Error(), "BAD", "names the failing bead")
}

func TestLibraryCopy(t *testing.T) {
	lib := Library{"CO2": valid()}
	cp := lib.Copy()

	b := cp["CO2"]
	b.Epsilon = 1
	cp["CO2"] = b

	assert.Equal(t, 300.0, lib["CO2"].Epsilon, "copy does not alias")
}
