// Package io reads bead libraries and run configuration for the mixing-rule
// engine, either from gcfg-format configuration files or from plain numeric
// parameter tables.
package io

import (
	"fmt"

	"gopkg.in/gcfg.v1"

	"github.com/kmbarrett/beadmix/bead"
	"github.com/kmbarrett/beadmix/mie"
)

const ExampleConfigFile = `[run]

#######################
# Required Parameters #
#######################

# Temperature of the system in Kelvin.
Temperature = 273

# Solution path for the cross-interaction parameters. Can be "fit"
# (log-linearized curve fit of the attractive branch) or "analytical"
# (closed-form integral matching).
Method = fit

#######################
# Optional Parameters #
#######################

# Scale energy parameters by the bead shape factors (epsilon*Si*Sj).
# ShapeFactorScale = false

# Lower bound of the fitting-distance domain. Can be "rmin" (potential-well
# distance), "sigma" (size parameter), or "tolerance".
# LowerBound = rmin

# Repulsive/attractive ratio defining the lower bound in "tolerance" mode.
# Tol = 0.01

# Upper bound of the domain as a multiple of the lower bound.
# MaxFactor = 2

# Write the cross-interaction dictionary to this file as JSON.
# CrossFile = cross.json

# Write the run summary table to this file instead of standard output.
# SummaryFile = summary.txt

# One section per bead. All values are dimensional: epsilon in K, sigma in
# Angstroms, dipole in Debye, quadrupole in Debye*Angstrom, the ionization
# energy in kcal/mol, and the charge in elementary charges. Sk is the
# optional shape factor; omit it (or leave it zero) for beads without one.
[bead "CO2"]
Epsilon = 353.55
Sigma = 3.741
LambdaR = 23.0
LambdaA = 6.66
Sk = 1.0
Charge = 0.0
Dipole = 0.0
Quadrupole = 4.62033
IonizationEnergy = 316.3969563680995

[bead "CH3"]
Epsilon = 256.77
Sigma = 4.0773
LambdaR = 15.05
LambdaA = 6.0
Sk = 0.57255
Charge = -0.03278
Dipole = 0.068168573
Quadrupole = 0.060537996
IonizationEnergy = 254.80129735161324`

// RunConfig is the [run] section of a configuration file.
type RunConfig struct {
	Temperature      float64
	Method           string
	ShapeFactorScale bool
	LowerBound       string
	Tol              float64
	MaxFactor        float64
	CrossFile        string
	SummaryFile      string
}

type beadSection struct {
	Epsilon          float64
	Sigma            float64
	LambdaR          float64
	LambdaA          float64
	Sk               float64
	Charge           float64
	Dipole           float64
	Quadrupole       float64
	IonizationEnergy float64
}

type configFile struct {
	Run  RunConfig
	Bead map[string]*beadSection
}

// CheckInit validates the run section and fills in the documented defaults.
func (run *RunConfig) CheckInit() error {
	if run.Temperature <= 0 {
		return fmt.Errorf(
			"need a positive Temperature in the [run] section, got %g",
			run.Temperature,
		)
	}
	switch run.Method {
	case "fit", "analytical":
	case "":
		run.Method = "fit"
	default:
		return fmt.Errorf(
			"Method must be \"fit\" or \"analytical\", got %q", run.Method,
		)
	}
	if run.LowerBound == "" {
		run.LowerBound = "rmin"
	}
	if _, err := mie.ParseLowerBound(run.LowerBound); err != nil {
		return err
	}
	if run.Tol == 0 {
		run.Tol = 0.01
	}
	if run.MaxFactor == 0 {
		run.MaxFactor = 2
	}
	return nil
}

// DomainOptions converts the run section's domain fields.
func (run *RunConfig) DomainOptions() mie.DomainOptions {
	lb, _ := mie.ParseLowerBound(run.LowerBound)
	return mie.DomainOptions{
		LowerBound: lb, Tol: run.Tol, MaxFactor: run.MaxFactor,
	}
}

func (cfg *configFile) library() (bead.Library, error) {
	lib := make(bead.Library, len(cfg.Bead))
	for name, sec := range cfg.Bead {
		b := bead.Bead{
			Epsilon:          sec.Epsilon,
			Sigma:            sec.Sigma,
			LambdaR:          sec.LambdaR,
			LambdaA:          sec.LambdaA,
			Charge:           sec.Charge,
			Dipole:           sec.Dipole,
			Quadrupole:       sec.Quadrupole,
			IonizationEnergy: sec.IonizationEnergy,
		}
		// A zero shape factor is never physical, so zero means "not given".
		if sec.Sk != 0 {
			b.SetSk(sec.Sk)
		}
		lib[name] = b
	}
	if err := lib.Validate(); err != nil {
		return nil, err
	}
	return lib, nil
}

// ReadConfig reads a configuration file, returning the bead library and the
// validated run section.
func ReadConfig(file string) (bead.Library, *RunConfig, error) {
	cfg := &configFile{}
	if err := gcfg.ReadFileInto(cfg, file); err != nil {
		return nil, nil, err
	}
	return finishConfig(cfg)
}

// ParseConfig parses configuration text, returning the bead library and the
// validated run section.
func ParseConfig(text string) (bead.Library, *RunConfig, error) {
	cfg := &configFile{}
	if err := gcfg.ReadStringInto(cfg, text); err != nil {
		return nil, nil, err
	}
	return finishConfig(cfg)
}

func finishConfig(cfg *configFile) (bead.Library, *RunConfig, error) {
	if err := cfg.Run.CheckInit(); err != nil {
		return nil, nil, err
	}
	if len(cfg.Bead) < 2 {
		return nil, nil, fmt.Errorf(
			"need at least two [bead \"...\"] sections, got %d", len(cfg.Bead),
		)
	}
	lib, err := cfg.library()
	if err != nil {
		return nil, nil, err
	}
	return lib, &cfg.Run, nil
}
