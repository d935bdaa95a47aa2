package beadmix

import (
	"math"
	"testing"

	"github.com/kmbarrett/beadmix/mie"
)

func TestPartialPolarizability(t *testing.T) {
	co2 := testLibrary()["CO2"]
	opts := SensitivityOptions{LowerBound: mie.RMin}

	out, err := PartialPolarizability(co2, temperature, opts)
	if err != nil {
		t.Fatal(err.Error())
	}

	// CO2 has no charge and no dipole, so those partials vanish.
	if out.Charge != 0 {
		t.Errorf("charge partial is %g for a chargeless bead", out.Charge)
	}
	if out.Dipole != 0 {
		t.Errorf("dipole partial is %g for a dipoleless bead", out.Dipole)
	}
	if out.Quadrupole == 0 || math.IsNaN(out.Quadrupole) {
		t.Errorf("quadrupole partial is %g", out.Quadrupole)
	}
	if out.IonizationEnergy == 0 || math.IsNaN(out.IonizationEnergy) {
		t.Errorf("ionization partial is %g", out.IonizationEnergy)
	}
}

func TestPartialPolarizabilityLowerBounds(t *testing.T) {
	co2 := testLibrary()["CO2"]

	rmin, err := PartialPolarizability(
		co2, temperature, SensitivityOptions{LowerBound: mie.RMin},
	)
	if err != nil {
		t.Fatal(err.Error())
	}
	sigma, err := PartialPolarizability(
		co2, temperature, SensitivityOptions{LowerBound: mie.Sigma},
	)
	if err != nil {
		t.Fatal(err.Error())
	}
	// Different lower bounds give different, but both finite, sensitivities.
	if rmin.Quadrupole == sigma.Quadrupole {
		t.Errorf("lower bound has no effect: %g", rmin.Quadrupole)
	}

	// The tolerance mode needs a domain, which this diagnostic has none of.
	_, err = PartialPolarizability(
		co2, temperature, SensitivityOptions{LowerBound: mie.Tolerance},
	)
	if err == nil {
		t.Error("tolerance lower bound accepted")
	}
}

func TestPartialEnergyParameter(t *testing.T) {
	lib := testLibrary()
	opts := SensitivityOptions{LowerBound: mie.RMin}

	sCO2, sCH3, err := PartialEnergyParameter(
		lib["CO2"], lib["CH3"], temperature, opts,
	)
	if err != nil {
		t.Fatal(err.Error())
	}

	// CO2 side: no charge, no dipole.
	if sCO2.Charge != 0 {
		t.Errorf("CO2 charge partial is %g", sCO2.Charge)
	}
	if sCO2.Dipole != 0 {
		t.Errorf("CO2 dipole partial is %g", sCO2.Dipole)
	}
	finite := []struct {
		name string
		v    float64
	}{
		{"CO2 quadrupole", sCO2.Quadrupole},
		{"CO2 alpha", sCO2.Polarizability},
		{"CH3 charge", sCH3.Charge},
		{"CH3 dipole", sCH3.Dipole},
		{"CH3 quadrupole", sCH3.Quadrupole},
		{"CH3 alpha", sCH3.Polarizability},
	}
	for _, test := range finite {
		if test.v == 0 || math.IsNaN(test.v) || math.IsInf(test.v, 0) {
			t.Errorf("%s partial is %g", test.name, test.v)
		}
	}

	// Swapping the argument order swaps the outputs.
	sB, sA, err := PartialEnergyParameter(
		lib["CH3"], lib["CO2"], temperature, opts,
	)
	if err != nil {
		t.Fatal(err.Error())
	}
	if sA.Quadrupole != sCO2.Quadrupole || sB.Charge != sCH3.Charge {
		t.Error("sensitivities are not symmetric under argument swap")
	}
}
