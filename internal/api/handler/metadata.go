package handler

import (
	"net/http"

	"github.com/verdialabs/verdia/internal/api/models"
	"github.com/verdialabs/verdia/internal/api/response"
	"github.com/verdialabs/verdia/internal/budget"
	"github.com/verdialabs/verdia/internal/retrospective"
	"github.com/verdialabs/verdia/internal/specialization"
	"github.com/verdialabs/verdia/internal/species"
	"github.com/verdialabs/verdia/internal/standards"
)

// MetadataHandler handles metadata endpoints.
type MetadataHandler struct {
	catalog []species.Species
	zones   []budget.Zone
}

// NewMetadataHandler creates a new MetadataHandler.
func NewMetadataHandler() *MetadataHandler {
	return &MetadataHandler{
		catalog: species.DefaultCatalog(),
		zones:   budget.MadridZones(),
	}
}

// ListSpecies handles GET /v1/metadata/species.
func (h *MetadataHandler) ListSpecies(w http.ResponseWriter, r *http.Request) {
	list := models.SpeciesList{
		Items: h.catalog,
		Meta:  models.PagedResponseMeta{Limit: len(h.catalog), Count: len(h.catalog)},
	}
	response.JSON(w, r, http.StatusOK, list)
}

// ListSubsidyZones handles GET /v1/metadata/subsidy-zones.
func (h *MetadataHandler) ListSubsidyZones(w http.ResponseWriter, r *http.Request) {
	list := models.SubsidyZoneList{
		Items: h.zones,
		Meta:  models.PagedResponseMeta{Limit: len(h.zones), Count: len(h.zones)},
	}
	response.JSON(w, r, http.StatusOK, list)
}

// GetEnums handles GET /v1/metadata/enums - enum values used by the API.
func (h *MetadataHandler) GetEnums(w http.ResponseWriter, r *http.Request) {
	enums := models.Enums{
		RoofTypes: []string{
			string(standards.RoofExtensive),
			string(standards.RoofSemiIntensive),
			string(standards.RoofIntensive),
		},
		Orientations: []string{
			string(standards.OrientationN),
			string(standards.OrientationNE),
			string(standards.OrientationE),
			string(standards.OrientationSE),
			string(standards.OrientationS),
			string(standards.OrientationSW),
			string(standards.OrientationW),
			string(standards.OrientationNW),
		},
		Infrastructures: []string{
			string(standards.InfraExtensiveRoof),
			string(standards.InfraIntensiveRoof),
			string(standards.InfraVerticalGarden),
			string(standards.InfraTreeCover),
			string(standards.InfraGroundcover),
			string(standards.InfraShrubs),
			string(standards.InfraMeadow),
		},
		SpeciesPriorities: []string{
			string(species.PriorityEconomia),
			string(species.PriorityBiodiversidad),
			string(species.PriorityComestible),
			string(species.PriorityEstetica),
		},
		SiteTypes: []string{
			string(species.SiteRoof),
			string(species.SiteVerticalGarden),
			string(species.SiteGround),
		},
		SpecializationTypes: []string{
			string(specialization.TypeRoof),
			string(specialization.TypeVerticalGarden),
			string(specialization.TypeAbandonedLot),
			string(specialization.TypeVacantLot),
			string(specialization.TypeDegradedPark),
		},
		ViabilityLevels: []string{
			specialization.ViabilityNula.String(),
			specialization.ViabilityBaja.String(),
			specialization.ViabilityMedia.String(),
			specialization.ViabilityAlta.String(),
		},
		SurfaceTypes: []string{
			string(retrospective.SurfaceAsphalt),
			string(retrospective.SurfaceConcrete),
			string(retrospective.SurfaceGravel),
			string(retrospective.SurfaceMixed),
		},
	}
	response.JSON(w, r, http.StatusOK, enums)
}
