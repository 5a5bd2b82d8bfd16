package attendance

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/directory"
)

type TeacherAttendance struct {
	ID        string    `json:"id" db:"id"`
	TeacherID string    `json:"teacher_id" db:"teacher_id"`
	Date      time.Time `json:"date" db:"attendance_date"`
	Present   bool      `json:"present" db:"present"`
}

type StudentAttendance struct {
	ID         string    `json:"id" db:"id"`
	StudentID  string    `json:"student_id" db:"student_id"`
	OfferingID string    `json:"offering_id" db:"offering_id"`
	Date       time.Time `json:"date" db:"attendance_date"`
	Present    bool      `json:"present" db:"present"`
}

type TeacherAttendanceRow struct {
	TeacherAttendance
	TeacherFirstName string `json:"teacher_first_name" db:"teacher_first_name"`
	TeacherLastName  string `json:"teacher_last_name" db:"teacher_last_name"`
}

func (r TeacherAttendanceRow) TeacherName() string {
	return core.FullName(r.TeacherFirstName, r.TeacherLastName)
}

type StudentAttendanceRow struct {
	StudentAttendance
	StudentFirstName string `json:"student_first_name" db:"student_first_name"`
	StudentLastName  string `json:"student_last_name" db:"student_last_name"`
	SubjectID        string `json:"subject_id" db:"subject_id"`
	SubjectName      string `json:"subject_name" db:"subject_name"`
	LevelID          string `json:"level_id" db:"level_id"`
	LevelName        string `json:"level_name" db:"level_name"`
}

func (r StudentAttendanceRow) StudentName() string {
	return core.FullName(r.StudentFirstName, r.StudentLastName)
}

// Records is the result of an attendance Query.
type Records struct {
	TeacherAttendance []TeacherAttendanceRow `json:"teacher_attendance"`
	StudentAttendance []StudentAttendanceRow `json:"student_attendance"`
}

// QueryFilter fields are AND-ed; zero values impose nothing.
// Date bounds are inclusive.
type QueryFilter struct {
	DateFrom   time.Time
	DateTo     time.Time
	TeacherID  string
	StudentID  string
	OfferingID string
	SubjectID  string
	LevelID    string
	Search     string
}

func (f *QueryFilter) Clean() {
	if !f.DateFrom.IsZero() {
		f.DateFrom = core.Day(f.DateFrom)
	}
	if !f.DateTo.IsZero() {
		f.DateTo = core.Day(f.DateTo)
	}
	f.Search = core.CleanString(f.Search, true /* lower */)
}

// Roster is what a session is recorded against: the offering, its teacher and its active students.
type Roster struct {
	OfferingID string                       `json:"offering_id"`
	TeacherID  null.String                  `json:"teacher_id"`
	Students   []directory.EnrollmentDetail `json:"students"`
}

type StudentMark struct {
	StudentID string `json:"student_id" validate:"required"`
	Present   bool   `json:"present"`
}

// NewSession contains the attendance of one session of an offering.
type NewSession struct {
	OfferingID           string        `json:"offering_id" validate:"required"`
	Date                 time.Time     `json:"date" validate:"required"`
	TeacherID            string        `json:"teacher_id" validate:"required"`
	TeacherPresent       bool          `json:"teacher_present"`
	ReplacementTeacherID string        `json:"replacement_teacher_id" validate:"omitempty,nefield=TeacherID"`
	Students             []StudentMark `json:"students" validate:"dive"`
}

func (ns *NewSession) Clean() {
	ns.OfferingID = core.CleanString(ns.OfferingID)
	ns.TeacherID = core.CleanString(ns.TeacherID)
	ns.ReplacementTeacherID = core.CleanString(ns.ReplacementTeacherID)
	if !ns.Date.IsZero() {
		ns.Date = core.Day(ns.Date)
	}
	for i := range ns.Students {
		ns.Students[i].StudentID = core.CleanString(ns.Students[i].StudentID)
	}
}
