package sqlxrepos

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/payment"
)

type paymentRepository struct {
	db core.DBExecutor
}

func NewPaymentRepository(db core.DBExecutor) payment.Repository {
	return &paymentRepository{db: db}
}

func (repo *paymentRepository) UpsertPayment(ctx context.Context, pmt payment.Payment) (payment.Payment, error) {
	q := `
INSERT INTO payments (id, student_id, subject_level_id, amount, payment_date, month_paid_for)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (student_id, subject_level_id, month_paid_for) DO UPDATE
SET amount = EXCLUDED.amount,
    payment_date = EXCLUDED.payment_date
RETURNING id`
	var id string
	err := repo.db.GetContext(
		ctx, &id, q,
		uuid.New().String(), pmt.StudentID, pmt.OfferingID, pmt.Amount, date(pmt.PaymentDate), pmt.MonthPaidFor,
	)
	if err != nil {
		return payment.Payment{}, storeError(err, "upserting payment", "student", pmt.StudentID)
	}
	pmt.ID = id
	pmt.PaymentDate = core.Day(pmt.PaymentDate)
	return pmt, nil
}

func (repo *paymentRepository) PaymentExists(ctx context.Context, studentID, offeringID, month string) (bool, error) {
	if matchesNothing(studentID, offeringID) {
		return false, nil
	}
	q := `
SELECT EXISTS (
    SELECT 1 FROM payments
    WHERE student_id = $1 AND subject_level_id = $2 AND month_paid_for = $3
)`
	var exists bool
	if err := repo.db.GetContext(ctx, &exists, q, studentID, offeringID, month); err != nil {
		return false, storeError(err, "checking payment", "student", studentID)
	}
	return exists, nil
}

func (repo *paymentRepository) QueryStudentPayments(ctx context.Context, studentID string) ([]payment.PaymentDetail, error) {
	if matchesNothing(studentID) {
		return []payment.PaymentDetail{}, nil
	}
	q := `
SELECT p.id, p.student_id, p.subject_level_id AS offering_id, p.amount, p.payment_date, p.month_paid_for,
       s.name AS subject_name,
       l.name AS level_name
FROM payments p
JOIN subject_levels sl ON sl.id = p.subject_level_id
JOIN subjects s ON s.id = sl.subject_id
JOIN levels l ON l.id = sl.level_id
WHERE p.student_id = $1
ORDER BY p.payment_date DESC, p.month_paid_for DESC, p.id`
	payments := make([]payment.PaymentDetail, 0)
	if err := repo.db.SelectContext(ctx, &payments, q, studentID); err != nil {
		return nil, storeError(err, "querying payments", "student", studentID)
	}
	return payments, nil
}
