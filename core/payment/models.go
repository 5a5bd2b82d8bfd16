package payment

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/trezcool/academia/core"
)

// Payment is one month of tuition paid for an enrollment.
type Payment struct {
	ID           string          `json:"id" db:"id"`
	StudentID    string          `json:"student_id" db:"student_id"`
	OfferingID   string          `json:"offering_id" db:"offering_id"`
	Amount       decimal.Decimal `json:"amount" db:"amount"`
	PaymentDate  time.Time       `json:"payment_date" db:"payment_date"`
	MonthPaidFor string          `json:"month_paid_for" db:"month_paid_for"`
}

// PaymentDetail is a Payment joined with its offering display fields.
type PaymentDetail struct {
	Payment
	SubjectName string `json:"subject_name" db:"subject_name"`
	LevelName   string `json:"level_name" db:"level_name"`
}

// NewPayment contains information needed to record a Payment.
type NewPayment struct {
	StudentID    string          `json:"student_id" validate:"required"`
	OfferingID   string          `json:"offering_id" validate:"required"`
	Amount       decimal.Decimal `json:"amount"`
	PaymentDate  time.Time       `json:"payment_date" validate:"required"`
	MonthPaidFor string          `json:"month_paid_for" validate:"required,yearmonth"`
}

func (np *NewPayment) Clean() {
	np.StudentID = core.CleanString(np.StudentID)
	np.OfferingID = core.CleanString(np.OfferingID)
	np.MonthPaidFor = core.CleanString(np.MonthPaidFor)
	if !np.PaymentDate.IsZero() {
		np.PaymentDate = core.Day(np.PaymentDate)
	}
}

// Alert flags an active enrollment whose student attended a full month without paying for it.
type Alert struct {
	EnrollmentID       string          `json:"enrollment_id"`
	StudentID          string          `json:"student_id"`
	StudentName        string          `json:"student_name"`
	OfferingID         string          `json:"offering_id"`
	SubjectName        string          `json:"subject_name"`
	LevelName          string          `json:"level_name"`
	AttendanceCount    int             `json:"attendance_count"`
	ExpectedAttendance int             `json:"expected_attendance"`
	AmountDue          decimal.Decimal `json:"amount_due"`
	SessionsPerWeek    int             `json:"sessions_per_week"`
}
