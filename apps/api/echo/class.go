package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/academics"
	"github.com/trezcool/shule/core/user"
)

type classApi struct {
	svc *academics.ClassService
}

func registerClassAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := classApi{svc: deps.ClassSvc}

	cg := g.Group("/classes", jwt)

	cg.GET("/getAllClasses", api.queryAll)

	admin := requireRole(user.RoleAdmin)
	cg.POST("/addClass", api.create, admin)
	cg.PUT("/assignStudentsToClass/:id", api.assignStudents, admin)
	cg.DELETE("/deleteClass/:id", api.destroy, admin)
}

// Handlers

func (api *classApi) create(ctx echo.Context) error {
	var data academics.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}

	cls, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, classResponse{Class: cls})
}

func (api *classApi) queryAll(ctx echo.Context) error {
	classes, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	if classes == nil {
		classes = []academics.ClassDetail{}
	}
	return ctx.JSON(http.StatusOK, classListResponse{Classes: classes})
}

func (api *classApi) assignStudents(ctx echo.Context) error {
	var data academics.AssignStudents
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AssignStudents")
	}

	cls, err := api.svc.AssignStudents(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, classResponse{Class: cls})
}

func (api *classApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, messageResponse{Message: "class deleted"})
}

type (
	classResponse struct {
		Class academics.Class `json:"class"`
	}

	classListResponse struct {
		Classes []academics.ClassDetail `json:"classes"`
	}
)
