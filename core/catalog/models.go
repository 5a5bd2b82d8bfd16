package catalog

import (
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/academia/core"
)

// WeeksPerMonth is the billing approximation: a month always counts as 4 weeks.
const WeeksPerMonth = 4

type Subject struct {
	ID          string      `json:"id" db:"id"`
	Name        string      `json:"name" db:"name"`
	Description null.String `json:"description" db:"description"`
}

type Level struct {
	ID           string `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	DisplayOrder int    `json:"display_order" db:"display_order"`
}

type SubjectsAndLevels struct {
	Subjects []Subject `json:"subjects"`
	Levels   []Level   `json:"levels"`
}

// Offering is a priced subject x level combination.
type Offering struct {
	ID              string          `json:"id" db:"id"`
	SubjectID       string          `json:"subject_id" db:"subject_id"`
	LevelID         string          `json:"level_id" db:"level_id"`
	PricePerMonth   decimal.Decimal `json:"price_per_month" db:"price_per_month"`
	SessionsPerWeek int             `json:"sessions_per_week" db:"sessions_per_week"`
}

// WeeklySessions defaults unset values to 1.
func (o Offering) WeeklySessions() int {
	if o.SessionsPerWeek < 1 {
		return 1
	}
	return o.SessionsPerWeek
}

// ExpectedAttendance is the number of sessions after which a month is owed.
func (o Offering) ExpectedAttendance() int {
	return o.WeeklySessions() * WeeksPerMonth
}

// OfferingDetail is an Offering joined with its catalog names and assigned teacher.
type OfferingDetail struct {
	Offering
	SubjectName string      `json:"subject_name" db:"subject_name"`
	LevelName   string      `json:"level_name" db:"level_name"`
	TeacherID   null.String `json:"teacher_id" db:"teacher_id"`
	TeacherName null.String `json:"teacher_name" db:"teacher_name"`
}

// NewSubject contains information needed to create a new Subject.
type NewSubject struct {
	Name        string `json:"name" validate:"required,notblank"`
	Description string `json:"description"`
}

func (ns *NewSubject) Clean() {
	ns.Name = core.CleanString(ns.Name)
	ns.Description = core.CleanString(ns.Description)
}

// NewLevel contains information needed to create a new Level.
type NewLevel struct {
	Name         string `json:"name" validate:"required,notblank"`
	DisplayOrder int    `json:"display_order" validate:"gte=0"`
}

func (nl *NewLevel) Clean() {
	nl.Name = core.CleanString(nl.Name)
}

// SaveOffering creates or reprices the offering of a subject x level pair,
// and (re)assigns its teacher when TeacherID is set.
type SaveOffering struct {
	SubjectID       string          `json:"subject_id" validate:"required"`
	LevelID         string          `json:"level_id" validate:"required"`
	TeacherID       string          `json:"teacher_id"`
	PricePerMonth   decimal.Decimal `json:"price_per_month"`
	SessionsPerWeek int             `json:"sessions_per_week" validate:"gte=1"`
}

func (so *SaveOffering) Clean() {
	so.SubjectID = core.CleanString(so.SubjectID)
	so.LevelID = core.CleanString(so.LevelID)
	so.TeacherID = core.CleanString(so.TeacherID)
}
