package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/academics"
	"github.com/trezcool/shule/core/user"
)

type schoolApi struct {
	svc *academics.SchoolService
}

func registerSchoolAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := schoolApi{svc: deps.SchoolSvc}

	sg := g.Group("/schools", jwt)

	// reads have no role floor
	sg.GET("/getAllSchools", api.queryAll)
	sg.GET("/getSchool/:id", api.retrieve)

	// mutations are admin-only
	admin := requireRole(user.RoleAdmin)
	sg.POST("/addSchool", api.create, admin)
	sg.PUT("/assignClassesToSchool/:id", api.assignClasses, admin)
	sg.DELETE("/deleteSchool/:id", api.destroy, admin)
}

// Handlers

func (api *schoolApi) create(ctx echo.Context) error {
	var data academics.NewSchool
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSchool")
	}

	sch, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, schoolResponse{School: sch})
}

func (api *schoolApi) queryAll(ctx echo.Context) error {
	schools, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying schools")
	}
	if schools == nil {
		schools = []academics.SchoolDetail{}
	}
	return ctx.JSON(http.StatusOK, schoolListResponse{Schools: schools})
}

func (api *schoolApi) retrieve(ctx echo.Context) error {
	sch, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, schoolDetailResponse{School: sch})
}

func (api *schoolApi) assignClasses(ctx echo.Context) error {
	var data academics.AssignClasses
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AssignClasses")
	}

	sch, err := api.svc.AssignClasses(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, schoolResponse{School: sch})
}

func (api *schoolApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, messageResponse{Message: "school deleted"})
}

type (
	schoolResponse struct {
		School academics.School `json:"school"`
	}

	schoolDetailResponse struct {
		School academics.SchoolDetail `json:"school"`
	}

	schoolListResponse struct {
		Schools []academics.SchoolDetail `json:"schools"`
	}
)
