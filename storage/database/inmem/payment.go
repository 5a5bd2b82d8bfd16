package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/payment"
)

type paymentRepository struct {
	db *DB
}

func NewPaymentRepository(db *DB) payment.Repository {
	return &paymentRepository{db: db}
}

func (repo *paymentRepository) UpsertPayment(_ context.Context, pmt payment.Payment) (payment.Payment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.students[pmt.StudentID]; !ok {
		return payment.Payment{}, core.NewNotFoundError("student", pmt.StudentID)
	}
	if _, ok := repo.db.offerings[pmt.OfferingID]; !ok {
		return payment.Payment{}, core.NewNotFoundError("offering", pmt.OfferingID)
	}
	pmt.PaymentDate = core.Day(pmt.PaymentDate)
	k := key(pmt.StudentID, pmt.OfferingID, pmt.MonthPaidFor)
	if existing, ok := repo.db.payments[k]; ok {
		pmt.ID = existing.ID
	} else {
		pmt.ID = newID()
	}
	repo.db.payments[k] = pmt
	return pmt, nil
}

func (repo *paymentRepository) PaymentExists(_ context.Context, studentID, offeringID, month string) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	_, ok := repo.db.payments[key(studentID, offeringID, month)]
	return ok, nil
}

func (repo *paymentRepository) QueryStudentPayments(_ context.Context, studentID string) ([]payment.PaymentDetail, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	payments := make([]payment.PaymentDetail, 0)
	for _, pmt := range repo.db.payments {
		if pmt.StudentID != studentID {
			continue
		}
		off := repo.db.offerings[pmt.OfferingID]
		payments = append(payments, payment.PaymentDetail{
			Payment:     pmt,
			SubjectName: repo.db.subjects[off.SubjectID].Name,
			LevelName:   repo.db.levels[off.LevelID].Name,
		})
	}
	sort.Slice(payments, func(i, j int) bool {
		a, b := payments[i], payments[j]
		if !a.PaymentDate.Equal(b.PaymentDate) {
			return a.PaymentDate.After(b.PaymentDate)
		}
		if a.MonthPaidFor != b.MonthPaidFor {
			return a.MonthPaidFor > b.MonthPaidFor
		}
		return a.ID < b.ID
	})
	return payments, nil
}
