package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/academics"
	"github.com/trezcool/shule/core/user"
)

type studentApi struct {
	svc *academics.StudentService
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := studentApi{svc: deps.StudentSvc}

	stg := g.Group("/students", jwt)

	// creation carries no role floor, matching the reads
	stg.POST("/addStudent", api.create)
	stg.GET("/getAllStudents", api.queryAll)
	stg.GET("/getStudent/:id", api.retrieve)

	admin := requireRole(user.RoleAdmin)
	stg.PUT("/updateStudent/:id", api.update, admin)
	stg.DELETE("/deleteStudent/:id", api.destroy, admin)
}

// Handlers

func (api *studentApi) create(ctx echo.Context) error {
	var data academics.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}

	std, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, studentResponse{Student: std})
}

func (api *studentApi) queryAll(ctx echo.Context) error {
	students, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []academics.StudentDetail{}
	}
	return ctx.JSON(http.StatusOK, studentListResponse{Students: students})
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	std, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, studentDetailResponse{Student: std})
}

func (api *studentApi) update(ctx echo.Context) error {
	var data academics.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}

	if err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, messageResponse{Message: "student updated"})
}

func (api *studentApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, messageResponse{Message: "student deleted"})
}

type (
	studentResponse struct {
		Student academics.Student `json:"student"`
	}

	studentDetailResponse struct {
		Student academics.StudentDetail `json:"student"`
	}

	studentListResponse struct {
		Students []academics.StudentDetail `json:"students"`
	}
)
