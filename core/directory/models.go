package directory

import (
	"github.com/shopspring/decimal"

	"github.com/trezcool/academia/core"
)

// Teacher payment types
const (
	PaymentPercentage = "percentage"
	PaymentFixed      = "fixed"
)

var PaymentTypes = []string{PaymentPercentage, PaymentFixed}

type Teacher struct {
	ID           string          `json:"id" db:"id"`
	FirstName    string          `json:"first_name" db:"first_name"`
	LastName     string          `json:"last_name" db:"last_name"`
	PaymentType  string          `json:"payment_type" db:"payment_type"`
	PaymentValue decimal.Decimal `json:"payment_value" db:"payment_value"`
}

func (t Teacher) Name() string { return core.FullName(t.FirstName, t.LastName) }

type Student struct {
	ID          string `json:"id" db:"id"`
	FirstName   string `json:"first_name" db:"first_name"`
	LastName    string `json:"last_name" db:"last_name"`
	ParentName  string `json:"parent_name" db:"parent_name"`
	ParentPhone string `json:"parent_phone" db:"parent_phone"`
	ParentEmail string `json:"parent_email" db:"parent_email"`
}

func (s Student) Name() string { return core.FullName(s.FirstName, s.LastName) }

// Enrollment is a student's membership in an offering.
type Enrollment struct {
	ID         string `json:"id" db:"id"`
	StudentID  string `json:"student_id" db:"student_id"`
	OfferingID string `json:"offering_id" db:"offering_id"`
	Active     bool   `json:"active" db:"active"`
}

// EnrollmentDetail is an Enrollment joined with student and offering display fields.
type EnrollmentDetail struct {
	Enrollment
	StudentFirstName string          `json:"student_first_name" db:"student_first_name"`
	StudentLastName  string          `json:"student_last_name" db:"student_last_name"`
	SubjectID        string          `json:"subject_id" db:"subject_id"`
	SubjectName      string          `json:"subject_name" db:"subject_name"`
	LevelID          string          `json:"level_id" db:"level_id"`
	LevelName        string          `json:"level_name" db:"level_name"`
	PricePerMonth    decimal.Decimal `json:"price_per_month" db:"price_per_month"`
	SessionsPerWeek  int             `json:"sessions_per_week" db:"sessions_per_week"`
}

func (ed EnrollmentDetail) StudentName() string {
	return core.FullName(ed.StudentFirstName, ed.StudentLastName)
}

type EnrollmentFilter struct {
	OfferingID string
	StudentID  string
	ActiveOnly bool
}

// NewTeacher contains information needed to register a Teacher.
type NewTeacher struct {
	FirstName    string          `json:"first_name" validate:"required,notblank"`
	LastName     string          `json:"last_name" validate:"required,notblank"`
	PaymentType  string          `json:"payment_type" validate:"required,oneof=percentage fixed"`
	PaymentValue decimal.Decimal `json:"payment_value"`
	OfferingIDs  []string        `json:"offering_ids" validate:"omitempty,dive,required"`
}

func (nt *NewTeacher) Clean() {
	nt.FirstName = core.CleanString(nt.FirstName)
	nt.LastName = core.CleanString(nt.LastName)
	nt.PaymentType = core.CleanString(nt.PaymentType, true /* lower */)
}

// NewStudent contains information needed to register a Student and enrol them.
type NewStudent struct {
	FirstName   string   `json:"first_name" validate:"required,notblank"`
	LastName    string   `json:"last_name" validate:"required,notblank"`
	ParentName  string   `json:"parent_name"`
	ParentPhone string   `json:"parent_phone"`
	ParentEmail string   `json:"parent_email" validate:"omitempty,email"`
	OfferingIDs []string `json:"offering_ids" validate:"omitempty,dive,required"`
}

func (ns *NewStudent) Clean() {
	ns.FirstName = core.CleanString(ns.FirstName)
	ns.LastName = core.CleanString(ns.LastName)
	ns.ParentName = core.CleanString(ns.ParentName)
	ns.ParentPhone = core.CleanString(ns.ParentPhone)
	ns.ParentEmail = core.CleanString(ns.ParentEmail, true /* lower */)
}
