package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tedris-portal/internal/model"
)

// dbTimeout bounds the storage work of a single request.
const dbTimeout = 5 * time.Second

func dbCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// errorBody is the uniform error envelope. Code is one of the stable
// machine-readable strings the front-ends translate.
func errorBody(code string) echo.Map { return echo.Map{"error": code} }

func internalError(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, errorBody("internal"))
}

// userPart is the public projection of a user; the password hash never
// leaves the service.
type userPart struct {
	ID           uint64    `json:"id"`
	Phone        string    `json:"phone"`
	NationalID   string    `json:"nationalId"`
	EmployeeID   string    `json:"employeeId"`
	FullName     string    `json:"fullName"`
	UserCategory string    `json:"userCategory"`
	SpecificRole string    `json:"specificRole"`
	Region       string    `json:"region"`
	SubRegion    string    `json:"subRegion"`
	School       string    `json:"school"`
	IsNewSchool  bool      `json:"isNewSchool"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toUserPart(u model.User) userPart {
	return userPart{
		ID:           u.ID,
		Phone:        u.Phone,
		NationalID:   u.NationalID,
		EmployeeID:   u.EmployeeID,
		FullName:     u.FullName,
		UserCategory: u.UserCategory,
		SpecificRole: u.SpecificRole,
		Region:       u.Region,
		SubRegion:    u.SubRegion,
		School:       u.School,
		IsNewSchool:  u.IsNewSchool,
		CreatedAt:    u.CreatedAt,
	}
}
