// Package greenfactor scores regulatory Green Factor compliance.
//
// The Green Factor (Factor Verde) is the PECV index
// FV = (Ct x Co x Ci x Sgreen) / Stotal, computed from the static
// coefficient tables in the standards package. Evaluation is a pure
// function of its inputs.
package greenfactor

import (
	"fmt"

	"github.com/verdialabs/verdia/internal/standards"
)

// Context names the coefficient table rows a site is scored with.
type Context struct {
	RoofType       standards.RoofType           `json:"roof_type"`
	Orientation    standards.Orientation        `json:"orientation"`
	Infrastructure standards.InfrastructureType `json:"infrastructure_type"`
}

// Score is the computed factor plus the two regulatory compliance
// flags it is checked against.
type Score struct {
	Factor            float64 `json:"factor"`
	MeetsExtensiveMin bool    `json:"meets_extensive_min"`
	MeetsIntensiveMin bool    `json:"meets_intensive_min"`
	// Compliant holds against the threshold matching the requested
	// roof type (extensive and semi-intensive roofs are held to the
	// extensive minimum).
	Compliant bool `json:"compliant"`
}

// Evaluate computes the Green Factor for greenM2 of vegetated surface
// on a totalM2 site. Unknown context keys surface as
// standards.ErrUnknownCoefficient.
func Evaluate(tables *standards.Tables, totalM2, greenM2 float64, ctx Context) (*Score, error) {
	if totalM2 <= 0 {
		return nil, fmt.Errorf("greenfactor: total area must be positive, got %.2f", totalM2)
	}
	if greenM2 < 0 {
		return nil, fmt.Errorf("greenfactor: green area must be non-negative, got %.2f", greenM2)
	}
	if greenM2 > totalM2 {
		greenM2 = totalM2
	}

	ct, err := tables.GreenFactor.RoofCoefficient(ctx.RoofType)
	if err != nil {
		return nil, err
	}
	co, err := tables.GreenFactor.OrientationCoefficient(ctx.Orientation)
	if err != nil {
		return nil, err
	}
	ci, err := tables.GreenFactor.InfrastructureCoefficient(ctx.Infrastructure)
	if err != nil {
		return nil, err
	}

	factor := ct * co * ci * greenM2 / totalM2

	score := &Score{
		Factor:            factor,
		MeetsExtensiveMin: factor >= tables.GreenFactor.MinFactorExtensive,
		MeetsIntensiveMin: factor >= tables.GreenFactor.MinFactorIntensive,
	}
	if ctx.RoofType == standards.RoofIntensive {
		score.Compliant = score.MeetsIntensiveMin
	} else {
		score.Compliant = score.MeetsExtensiveMin
	}
	return score, nil
}
