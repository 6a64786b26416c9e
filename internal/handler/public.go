package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/tedris-portal/internal/catalog"
	"github.com/iliyamo/tedris-portal/internal/repository"
	"github.com/iliyamo/tedris-portal/internal/validation"
)

// PublicHandler exposes the unauthenticated lookups the registration form
// needs: the closed lists and the school picker.
type PublicHandler struct {
	Schools *repository.SchoolRepo
	Log     *zap.Logger
}

func NewPublicHandler(schools *repository.SchoolRepo, log *zap.Logger) *PublicHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &PublicHandler{Schools: schools, Log: log}
}

type schoolPart struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	Region    string `json:"region"`
	SubRegion string `json:"subRegion"`
}

// GetSchools lists active schools, optionally filtered by ?region= and
// ?subRegion=. A filter outside the catalog is rejected.
func (h *PublicHandler) GetSchools(c echo.Context) error {
	region := strings.TrimSpace(c.QueryParam("region"))
	sub := strings.TrimSpace(c.QueryParam("subRegion"))
	if region != "" && !catalog.KnownRegion(region) {
		return c.JSON(http.StatusBadRequest, errorBody(string(validation.CodeInvalidSelection)))
	}
	if sub != "" && (region == "" || !catalog.ValidSubRegion(region, sub)) {
		return c.JSON(http.StatusBadRequest, errorBody(string(validation.CodeInvalidSelection)))
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	schools, err := h.Schools.List(ctx, region, sub)
	if err != nil {
		h.Log.Error("list schools", zap.Error(err))
		return internalError(c)
	}
	out := make([]schoolPart, 0, len(schools))
	for _, s := range schools {
		out = append(out, schoolPart{ID: s.ID, Name: s.Name, Region: s.Region, SubRegion: s.SubRegion})
	}
	return c.JSON(http.StatusOK, out)
}

// GetCatalog returns categories with their roles and regions with their
// sub-regions, each labelled in Arabic and French.
func (h *PublicHandler) GetCatalog(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"categories": catalog.Categories(),
		"regions":    catalog.Regions(),
	})
}
