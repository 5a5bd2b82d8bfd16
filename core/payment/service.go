package payment

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/catalog"
	"github.com/trezcool/academia/core/directory"
)

var NowFunc = time.Now // mockable

type (
	Repository interface {
		// UpsertPayment writes the (StudentID, OfferingID, MonthPaidFor) row,
		// overwriting Amount and PaymentDate if it exists. The returned ID is the row's.
		UpsertPayment(ctx context.Context, pmt Payment) (Payment, error)
		PaymentExists(ctx context.Context, studentID, offeringID, month string) (bool, error)
		// QueryStudentPayments returns the payments of a student, latest payment date first.
		QueryStudentPayments(ctx context.Context, studentID string) ([]PaymentDetail, error)
	}

	Directory interface {
		ActiveEnrollments(ctx context.Context) ([]directory.EnrollmentDetail, error)
	}

	Attendance interface {
		CountPresent(ctx context.Context, studentID, offeringID string, from, to time.Time) (int, error)
	}

	Service struct {
		repo       Repository
		directory  Directory
		attendance Attendance
		validate   *validator.Validate
		logger     core.Logger
		workers    int
	}
)

func NewService(
	repo Repository,
	dir Directory,
	att Attendance,
	validate *validator.Validate,
	logger core.Logger,
	conf *core.Config,
) *Service {
	workers := conf.Alerts.Workers
	if workers < 1 {
		workers = 1
	}
	return &Service{
		repo:       repo,
		directory:  dir,
		attendance: att,
		validate:   validate,
		logger:     logger,
		workers:    workers,
	}
}

// RecordPayment records the payment of a month, replacing any earlier payment of the same month.
func (svc *Service) RecordPayment(ctx context.Context, np NewPayment) (Payment, error) {
	np.Clean()
	if err := svc.validate.Struct(np); err != nil {
		return Payment{}, err
	}
	pmt, err := svc.repo.UpsertPayment(ctx, Payment{
		StudentID:    np.StudentID,
		OfferingID:   np.OfferingID,
		Amount:       np.Amount,
		PaymentDate:  np.PaymentDate,
		MonthPaidFor: np.MonthPaidFor,
	})
	if err != nil {
		return Payment{}, errors.Wrap(err, "recording payment")
	}
	return pmt, nil
}

func (svc *Service) StudentPayments(ctx context.Context, studentID string) ([]PaymentDetail, error) {
	return svc.repo.QueryStudentPayments(ctx, core.CleanString(studentID))
}

// ComputeAlerts lists the active enrollments that attended at least a month's worth of
// sessions since the start of the current month and have no payment for it.
// Enrollments that fail to evaluate are logged and left out.
func (svc *Service) ComputeAlerts(ctx context.Context) ([]Alert, error) {
	enrollments, err := svc.directory.ActiveEnrollments(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "loading active enrollments")
	}

	now := NowFunc()
	today := core.Day(now)
	monthStart := core.MonthStart(now)
	month := core.Month(now)

	var (
		mu     sync.Mutex
		alerts = make(map[string]Alert)
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(svc.workers)
	for _, enr := range enrollments {
		enr := enr
		g.Go(func() error {
			alert, due, err := svc.evaluate(gctx, enr, monthStart, today, month)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				svc.logger.Error("payment alert: "+err.Error(), core.LogFields{
					"enrollment_id": enr.ID,
					"student_id":    enr.StudentID,
					"offering_id":   enr.OfferingID,
				})
				return nil
			}
			if due {
				mu.Lock()
				alerts[alert.EnrollmentID] = alert
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "computing payment alerts")
	}

	result := make([]Alert, 0, len(alerts))
	for _, alert := range alerts {
		result = append(result, alert)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].StudentName != result[j].StudentName {
			return result[i].StudentName < result[j].StudentName
		}
		return result[i].EnrollmentID < result[j].EnrollmentID
	})
	return result, nil
}

func (svc *Service) evaluate(
	ctx context.Context,
	enr directory.EnrollmentDetail,
	monthStart, today time.Time,
	month string,
) (Alert, bool, error) {
	off := catalog.Offering{
		ID:              enr.OfferingID,
		PricePerMonth:   enr.PricePerMonth,
		SessionsPerWeek: enr.SessionsPerWeek,
	}
	expected := off.ExpectedAttendance()

	attended, err := svc.attendance.CountPresent(ctx, enr.StudentID, enr.OfferingID, monthStart, today)
	if err != nil {
		return Alert{}, false, errors.Wrap(err, "counting attendance")
	}
	if attended < expected {
		return Alert{}, false, nil
	}

	paid, err := svc.repo.PaymentExists(ctx, enr.StudentID, enr.OfferingID, month)
	if err != nil {
		return Alert{}, false, errors.Wrap(err, "checking payment")
	}
	if paid {
		return Alert{}, false, nil
	}

	return Alert{
		EnrollmentID:       enr.ID,
		StudentID:          enr.StudentID,
		StudentName:        enr.StudentName(),
		OfferingID:         enr.OfferingID,
		SubjectName:        enr.SubjectName,
		LevelName:          enr.LevelName,
		AttendanceCount:    attended,
		ExpectedAttendance: expected,
		AmountDue:          enr.PricePerMonth,
		SessionsPerWeek:    off.WeeklySessions(),
	}, true, nil
}
