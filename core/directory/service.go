package directory

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/catalog"
)

type (
	Repository interface {
		CreateTeacher(ctx context.Context, tchr Teacher) (Teacher, error)
		GetTeacher(ctx context.Context, id string) (Teacher, error)
		// QueryTeachers returns teachers ordered by first name.
		QueryTeachers(ctx context.Context) ([]Teacher, error)
		CreateStudent(ctx context.Context, std Student) (Student, error)
		GetStudent(ctx context.Context, id string) (Student, error)
		// QueryStudents returns students ordered by first name.
		QueryStudents(ctx context.Context) ([]Student, error)
		// Enroll activates the (student, offering) enrollment, creating it if needed.
		Enroll(ctx context.Context, studentID, offeringID string) (Enrollment, error)
		// SetEnrollmentActive (de)activates an existing enrollment.
		SetEnrollmentActive(ctx context.Context, id string, active bool) (Enrollment, error)
		// QueryEnrollments applies AND operation on available EnrollmentFilter fields.
		QueryEnrollments(ctx context.Context, filter EnrollmentFilter) ([]EnrollmentDetail, error)
	}

	// Catalog is the part of the catalog the directory writes through.
	Catalog interface {
		GetOffering(ctx context.Context, id string) (catalog.OfferingDetail, error)
		AssignTeacher(ctx context.Context, offeringID, teacherID string) error
	}

	Service struct {
		repo     Repository
		catalog  Catalog
		validate *validator.Validate
	}
)

func NewService(repo Repository, cat Catalog, validate *validator.Validate) *Service {
	return &Service{repo: repo, catalog: cat, validate: validate}
}

func (svc *Service) checkOfferings(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if _, err := svc.catalog.GetOffering(ctx, id); err != nil {
			return errors.Wrap(err, "checking offering")
		}
	}
	return nil
}

// AddTeacher registers a teacher and assigns them to the given offerings.
func (svc *Service) AddTeacher(ctx context.Context, nt NewTeacher) (Teacher, error) {
	nt.Clean()
	if err := svc.validate.Struct(nt); err != nil {
		return Teacher{}, err
	}
	if err := svc.checkOfferings(ctx, nt.OfferingIDs); err != nil {
		return Teacher{}, err
	}

	tchr, err := svc.repo.CreateTeacher(ctx, Teacher{
		FirstName:    nt.FirstName,
		LastName:     nt.LastName,
		PaymentType:  nt.PaymentType,
		PaymentValue: nt.PaymentValue,
	})
	if err != nil {
		return Teacher{}, errors.Wrap(err, "creating teacher")
	}
	for _, id := range nt.OfferingIDs {
		if err := svc.catalog.AssignTeacher(ctx, id, tchr.ID); err != nil {
			return Teacher{}, errors.Wrap(err, "assigning teacher")
		}
	}
	return tchr, nil
}

// AddStudent registers a student and enrols them into the given offerings.
func (svc *Service) AddStudent(ctx context.Context, ns NewStudent) (Student, error) {
	ns.Clean()
	if err := svc.validate.Struct(ns); err != nil {
		return Student{}, err
	}
	if err := svc.checkOfferings(ctx, ns.OfferingIDs); err != nil {
		return Student{}, err
	}

	std, err := svc.repo.CreateStudent(ctx, Student{
		FirstName:   ns.FirstName,
		LastName:    ns.LastName,
		ParentName:  ns.ParentName,
		ParentPhone: ns.ParentPhone,
		ParentEmail: ns.ParentEmail,
	})
	if err != nil {
		return Student{}, errors.Wrap(err, "creating student")
	}
	for _, id := range ns.OfferingIDs {
		if _, err := svc.repo.Enroll(ctx, std.ID, id); err != nil {
			return Student{}, errors.Wrap(err, "enrolling student")
		}
	}
	return std, nil
}

func (svc *Service) Teachers(ctx context.Context) ([]Teacher, error) {
	return svc.repo.QueryTeachers(ctx)
}

func (svc *Service) GetTeacher(ctx context.Context, id string) (Teacher, error) {
	return svc.repo.GetTeacher(ctx, id)
}

func (svc *Service) Students(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryStudents(ctx)
}

func (svc *Service) GetStudent(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudent(ctx, id)
}

func (svc *Service) Enrollments(ctx context.Context, filter EnrollmentFilter) ([]EnrollmentDetail, error) {
	return svc.repo.QueryEnrollments(ctx, filter)
}

// SetEnrollmentActive (de)activates an enrollment. Inactive enrollments keep their
// attendance and payments but leave rosters and payment alerts.
func (svc *Service) SetEnrollmentActive(ctx context.Context, id string, active bool) (Enrollment, error) {
	enr, err := svc.repo.SetEnrollmentActive(ctx, core.CleanString(id), active)
	if err != nil {
		return Enrollment{}, errors.Wrap(err, "updating enrollment")
	}
	return enr, nil
}

// ActiveEnrollments lists every active enrollment with its joined display fields.
func (svc *Service) ActiveEnrollments(ctx context.Context) ([]EnrollmentDetail, error) {
	return svc.repo.QueryEnrollments(ctx, EnrollmentFilter{ActiveOnly: true})
}
