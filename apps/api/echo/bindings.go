package echoapi

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/attendance"
)

const invalidDateText = "must be a date formatted as YYYY-MM-DD"

// Date accepts both YYYY-MM-DD and RFC3339 JSON strings.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := parseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return core.Day(t), nil
	}
	return core.ParseDate(s)
}

// queryDates parses the named date query params, collecting one FieldError per bad value.
func queryDates(ctx echo.Context, names ...string) ([]time.Time, error) {
	dates := make([]time.Time, len(names))
	var fldErrs []core.FieldError
	for i, name := range names {
		t, err := parseDate(ctx.QueryParam(name))
		if err != nil {
			fldErrs = append(fldErrs, core.FieldError{Field: name, Error: invalidDateText})
			continue
		}
		dates[i] = t
	}
	if len(fldErrs) > 0 {
		return nil, core.NewValidationError(nil, fldErrs...)
	}
	return dates, nil
}

func bindAttendanceFilter(ctx echo.Context) (attendance.QueryFilter, error) {
	dates, err := queryDates(ctx, "date_from", "date_to")
	if err != nil {
		return attendance.QueryFilter{}, err
	}
	return attendance.QueryFilter{
		DateFrom:   dates[0],
		DateTo:     dates[1],
		TeacherID:  ctx.QueryParam("teacher_id"),
		StudentID:  ctx.QueryParam("student_id"),
		OfferingID: ctx.QueryParam("offering_id"),
		SubjectID:  ctx.QueryParam("subject_id"),
		LevelID:    ctx.QueryParam("level_id"),
		Search:     ctx.QueryParam("search"),
	}, nil
}

// requireParams fails with a field error for each missing query param.
func requireParams(ctx echo.Context, names ...string) error {
	var fldErrs []core.FieldError
	for _, name := range names {
		if strings.TrimSpace(ctx.QueryParam(name)) == "" {
			fldErrs = append(fldErrs, core.FieldError{Field: name, Error: "this field is required"})
		}
	}
	if len(fldErrs) > 0 {
		return core.NewValidationError(nil, fldErrs...)
	}
	return nil
}
