package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/attendance"
)

type AttendanceService interface {
	RecordSession(ctx context.Context, ns attendance.NewSession) error
	Query(ctx context.Context, filter attendance.QueryFilter) (attendance.Records, error)
	SessionRoster(ctx context.Context, subjectID, levelID string) (attendance.Roster, error)
}

// sessionRequest is attendance.NewSession with a calendar date.
type sessionRequest struct {
	OfferingID           string                   `json:"offering_id"`
	Date                 Date                     `json:"date"`
	TeacherID            string                   `json:"teacher_id"`
	TeacherPresent       bool                     `json:"teacher_present"`
	ReplacementTeacherID string                   `json:"replacement_teacher_id"`
	Students             []attendance.StudentMark `json:"students"`
}

func (r sessionRequest) session() attendance.NewSession {
	return attendance.NewSession{
		OfferingID:           r.OfferingID,
		Date:                 r.Date.Time,
		TeacherID:            r.TeacherID,
		TeacherPresent:       r.TeacherPresent,
		ReplacementTeacherID: r.ReplacementTeacherID,
		Students:             r.Students,
	}
}

type attendanceApi struct {
	svc AttendanceService
}

func registerAttendanceAPI(g *echo.Group, svc AttendanceService) {
	api := attendanceApi{svc: svc}

	ag := g.Group("/attendance")
	ag.GET("", api.query)
	ag.GET("/roster", api.roster)
	ag.POST("/sessions", api.recordSession)
}

func (api *attendanceApi) query(ctx echo.Context) error {
	filter, err := bindAttendanceFilter(ctx)
	if err != nil {
		return err
	}
	records, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	return ctx.JSON(http.StatusOK, records)
}

func (api *attendanceApi) roster(ctx echo.Context) error {
	if err := requireParams(ctx, "subject_id", "level_id"); err != nil {
		return err
	}
	roster, err := api.svc.SessionRoster(ctx.Request().Context(), ctx.QueryParam("subject_id"), ctx.QueryParam("level_id"))
	if err != nil {
		return errors.Wrap(err, "loading session roster")
	}
	return ctx.JSON(http.StatusOK, roster)
}

func (api *attendanceApi) recordSession(ctx echo.Context) error {
	var data sessionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSession")
	}
	if err := api.svc.RecordSession(ctx.Request().Context(), data.session()); err != nil {
		return errors.Wrap(err, "recording session")
	}
	return ctx.JSON(http.StatusCreated, successResponse{Success: "attendance recorded"})
}
