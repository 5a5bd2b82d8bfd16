package attendance

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/catalog"
	"github.com/trezcool/academia/core/directory"
)

type (
	Repository interface {
		// UpsertTeacherAttendance writes the (TeacherID, Date) row, overwriting Present if it exists.
		UpsertTeacherAttendance(ctx context.Context, ta TeacherAttendance) (TeacherAttendance, error)
		// UpsertStudentAttendance writes the (StudentID, OfferingID, Date) row, overwriting Present if it exists.
		UpsertStudentAttendance(ctx context.Context, sa StudentAttendance) (StudentAttendance, error)
		QueryTeacherAttendance(ctx context.Context, filter QueryFilter) ([]TeacherAttendanceRow, error)
		QueryStudentAttendance(ctx context.Context, filter QueryFilter) ([]StudentAttendanceRow, error)
		// CountPresent counts the present rows of a student in an offering within [from, to].
		CountPresent(ctx context.Context, studentID, offeringID string, from, to time.Time) (int, error)
	}

	Catalog interface {
		GetOffering(ctx context.Context, id string) (catalog.OfferingDetail, error)
		ResolveOffering(ctx context.Context, subjectID, levelID string) (string, error)
	}

	Directory interface {
		Enrollments(ctx context.Context, filter directory.EnrollmentFilter) ([]directory.EnrollmentDetail, error)
	}

	Service struct {
		repo      Repository
		catalog   Catalog
		directory Directory
		validate  *validator.Validate
	}
)

func NewService(repo Repository, cat Catalog, dir Directory, validate *validator.Validate) *Service {
	return &Service{repo: repo, catalog: cat, directory: dir, validate: validate}
}

// RecordSession persists the attendance of one session.
// Student rows are written in order; on failure, rows written before it stay committed.
func (svc *Service) RecordSession(ctx context.Context, ns NewSession) error {
	ns.Clean()
	if err := svc.validate.Struct(ns); err != nil {
		return err
	}
	if _, err := svc.catalog.GetOffering(ctx, ns.OfferingID); err != nil {
		return errors.Wrap(err, "resolving offering")
	}

	if _, err := svc.repo.UpsertTeacherAttendance(ctx, TeacherAttendance{
		TeacherID: ns.TeacherID,
		Date:      ns.Date,
		Present:   ns.TeacherPresent,
	}); err != nil {
		return errors.Wrap(err, "recording teacher attendance")
	}
	if !ns.TeacherPresent {
		if _, err := svc.repo.UpsertTeacherAttendance(ctx, TeacherAttendance{
			TeacherID: ns.ReplacementTeacherID,
			Date:      ns.Date,
			Present:   true,
		}); err != nil {
			return errors.Wrap(err, "recording replacement teacher attendance")
		}
	}

	for _, mark := range ns.Students {
		if _, err := svc.repo.UpsertStudentAttendance(ctx, StudentAttendance{
			StudentID:  mark.StudentID,
			OfferingID: ns.OfferingID,
			Date:       ns.Date,
			Present:    mark.Present,
		}); err != nil {
			return errors.Wrapf(err, "recording attendance of student %q", mark.StudentID)
		}
	}
	return nil
}

// Query returns the teacher and student attendance matching `filter`, newest first.
func (svc *Service) Query(ctx context.Context, filter QueryFilter) (Records, error) {
	filter.Clean()
	teachers, err := svc.repo.QueryTeacherAttendance(ctx, filter)
	if err != nil {
		return Records{}, errors.Wrap(err, "querying teacher attendance")
	}
	students, err := svc.repo.QueryStudentAttendance(ctx, filter)
	if err != nil {
		return Records{}, errors.Wrap(err, "querying student attendance")
	}
	return Records{TeacherAttendance: teachers, StudentAttendance: students}, nil
}

// SessionRoster loads what a session of the subject x level pair is recorded against.
func (svc *Service) SessionRoster(ctx context.Context, subjectID, levelID string) (Roster, error) {
	offeringID, err := svc.catalog.ResolveOffering(ctx, subjectID, levelID)
	if err != nil {
		return Roster{}, errors.Wrap(err, "resolving offering")
	}
	off, err := svc.catalog.GetOffering(ctx, offeringID)
	if err != nil {
		return Roster{}, errors.Wrap(err, "loading offering")
	}
	students, err := svc.directory.Enrollments(ctx, directory.EnrollmentFilter{OfferingID: offeringID, ActiveOnly: true})
	if err != nil {
		return Roster{}, errors.Wrap(err, "loading enrolled students")
	}
	return Roster{OfferingID: offeringID, TeacherID: off.TeacherID, Students: students}, nil
}

// CountPresent is used by the payment alerts.
func (svc *Service) CountPresent(ctx context.Context, studentID, offeringID string, from, to time.Time) (int, error) {
	return svc.repo.CountPresent(ctx, studentID, offeringID, from, to)
}
