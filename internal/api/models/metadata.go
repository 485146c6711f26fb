package models

import (
	"github.com/verdialabs/verdia/internal/budget"
	"github.com/verdialabs/verdia/internal/species"
)

// SpeciesList is the response of GET /v1/metadata/species.
type SpeciesList struct {
	Items []species.Species `json:"items"`
	Meta  PagedResponseMeta `json:"meta"`
}

// SubsidyZoneList is the response of GET /v1/metadata/subsidy-zones.
type SubsidyZoneList struct {
	Items []budget.Zone     `json:"items"`
	Meta  PagedResponseMeta `json:"meta"`
}

// Enums lists the enumerated values accepted by the API.
type Enums struct {
	RoofTypes           []string `json:"roof_types"`
	Orientations        []string `json:"orientations"`
	Infrastructures     []string `json:"infrastructures"`
	SpeciesPriorities   []string `json:"species_priorities"`
	SiteTypes           []string `json:"site_types"`
	SpecializationTypes []string `json:"specialization_types"`
	ViabilityLevels     []string `json:"viability_levels"`
	SurfaceTypes        []string `json:"surface_types"`
}
