package io

import (
	"fmt"

	"github.com/phil-mansfield/table"

	"github.com/kmbarrett/beadmix/bead"
)

// Column order of a bead parameter table. Tables are whitespace-separated
// numeric files with one row per bead; bead names are supplied separately
// since the table format is numeric-only.
const (
	epsilonCol = iota
	sigmaCol
	lambdaRCol
	lambdaACol
	skCol
	chargeCol
	dipoleCol
	quadrupoleCol
	ionizationCol
	numCols
)

// ReadBeadTable reads a numeric bead-parameter table whose rows correspond,
// in order, to the given bead names. The columns are epsilon, sigma,
// lambdar, lambdaa, Sk, charge, dipole, quadrupole, and ionization energy,
// all dimensional. A zero Sk column entry marks the shape factor as absent.
func ReadBeadTable(file string, names []string) (bead.Library, error) {
	colIdxs := make([]int, numCols)
	for i := range colIdxs {
		colIdxs[i] = i
	}
	cols, err := table.ReadTable(file, colIdxs, nil)
	if err != nil {
		return nil, err
	}

	if len(cols[0]) != len(names) {
		return nil, fmt.Errorf(
			"table %s has %d rows, but %d bead names were given",
			file, len(cols[0]), len(names),
		)
	}

	lib := make(bead.Library, len(names))
	for i, name := range names {
		if _, ok := lib[name]; ok {
			return nil, fmt.Errorf("duplicate bead name %s", name)
		}
		b := bead.Bead{
			Epsilon:          cols[epsilonCol][i],
			Sigma:            cols[sigmaCol][i],
			LambdaR:          cols[lambdaRCol][i],
			LambdaA:          cols[lambdaACol][i],
			Charge:           cols[chargeCol][i],
			Dipole:           cols[dipoleCol][i],
			Quadrupole:       cols[quadrupoleCol][i],
			IonizationEnergy: cols[ionizationCol][i],
		}
		if sk := cols[skCol][i]; sk != 0 {
			b.SetSk(sk)
		}
		lib[name] = b
	}

	if err := lib.Validate(); err != nil {
		return nil, err
	}
	return lib, nil
}
