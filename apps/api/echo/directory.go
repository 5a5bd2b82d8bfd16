package echoapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/directory"
)

type DirectoryService interface {
	AddTeacher(ctx context.Context, nt directory.NewTeacher) (directory.Teacher, error)
	AddStudent(ctx context.Context, ns directory.NewStudent) (directory.Student, error)
	Teachers(ctx context.Context) ([]directory.Teacher, error)
	Students(ctx context.Context) ([]directory.Student, error)
	GetStudent(ctx context.Context, id string) (directory.Student, error)
	Enrollments(ctx context.Context, filter directory.EnrollmentFilter) ([]directory.EnrollmentDetail, error)
	SetEnrollmentActive(ctx context.Context, id string, active bool) (directory.Enrollment, error)
}

type enrollmentUpdate struct {
	Active *bool `json:"active"`
}

type directoryApi struct {
	svc DirectoryService
}

func registerDirectoryAPI(g *echo.Group, svc DirectoryService) {
	api := directoryApi{svc: svc}

	g.GET("/teachers", api.queryTeachers)
	g.POST("/teachers", api.createTeacher)
	g.GET("/students", api.queryStudents)
	g.POST("/students", api.createStudent)
	g.GET("/students/:id", api.retrieveStudent)
	g.GET("/enrollments", api.queryEnrollments)
	g.PATCH("/enrollments/:id", api.updateEnrollment)
}

func (api *directoryApi) queryTeachers(ctx echo.Context) error {
	teachers, err := api.svc.Teachers(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *directoryApi) createTeacher(ctx echo.Context) error {
	var data directory.NewTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeacher")
	}
	tchr, err := api.svc.AddTeacher(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "adding teacher")
	}
	return ctx.JSON(http.StatusCreated, tchr)
}

func (api *directoryApi) queryStudents(ctx echo.Context) error {
	students, err := api.svc.Students(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *directoryApi) createStudent(ctx echo.Context) error {
	var data directory.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	std, err := api.svc.AddStudent(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "adding student")
	}
	return ctx.JSON(http.StatusCreated, std)
}

func (api *directoryApi) retrieveStudent(ctx echo.Context) error {
	std, err := api.svc.GetStudent(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting student")
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *directoryApi) queryEnrollments(ctx echo.Context) error {
	filter := directory.EnrollmentFilter{
		OfferingID: ctx.QueryParam("offering_id"),
		StudentID:  ctx.QueryParam("student_id"),
		ActiveOnly: true,
	}
	if v := ctx.QueryParam("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			return core.NewValidationError(nil, core.FieldError{Field: "active", Error: "must be a boolean"})
		}
		filter.ActiveOnly = active
	}

	enrollments, err := api.svc.Enrollments(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying enrollments")
	}
	return ctx.JSON(http.StatusOK, enrollments)
}

func (api *directoryApi) updateEnrollment(ctx echo.Context) error {
	var data enrollmentUpdate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to enrollmentUpdate")
	}
	if data.Active == nil {
		return core.NewValidationError(nil, core.FieldError{Field: "active", Error: "this field is required"})
	}
	enr, err := api.svc.SetEnrollmentActive(ctx.Request().Context(), ctx.Param("id"), *data.Active)
	if err != nil {
		return errors.Wrap(err, "updating enrollment")
	}
	return ctx.JSON(http.StatusOK, enr)
}
