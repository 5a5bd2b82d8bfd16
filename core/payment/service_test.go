package payment_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/catalog"
	"github.com/trezcool/academia/core/directory"
	"github.com/trezcool/academia/core/payment"
	"github.com/trezcool/academia/storage/database/inmem"
	"github.com/trezcool/academia/tests"
)

type failingAttendance struct {
	payment.Attendance
	failStudentID string
}

func (fa failingAttendance) CountPresent(ctx context.Context, studentID, offeringID string, from, to time.Time) (int, error) {
	if studentID == fa.failStudentID {
		return 0, core.NewStoreError(errors.New("timeout"), "counting attendance")
	}
	return fa.Attendance.CountPresent(ctx, studentID, offeringID, from, to)
}

type failingDirectory struct{}

func (failingDirectory) ActiveEnrollments(context.Context) ([]directory.EnrollmentDetail, error) {
	return nil, core.NewStoreError(errors.New("database is down"), "querying enrollments")
}

type fixture struct {
	app     *testutil.App
	off     catalog.OfferingDetail
	teacher directory.Teacher
	student directory.Student
}

// setup freezes the clock at 2024-03-20 and enrols one student into a twice-weekly offering.
func setup(t *testing.T) fixture {
	app := testutil.NewApp(t)
	testutil.FreezeTime(t, time.Date(2024, time.March, 20, 15, 30, 0, 0, time.UTC))

	subj := testutil.CreateSubject(t, app.Catalog, "Maths")
	lvl := testutil.CreateLevel(t, app.Catalog, "Beginner", 1)
	off := testutil.CreateOffering(t, app.Catalog, subj, lvl, "5000", 2)
	tchr := testutil.CreateTeacher(t, app.Directory, "Jean", "Mukendi", off.ID)
	std := testutil.CreateStudent(t, app.Directory, "Alice", "Ilunga", off.ID)
	return fixture{app: app, off: off, teacher: tchr, student: std}
}

func (f fixture) pay(t *testing.T, month string, amount int64) payment.Payment {
	t.Helper()
	pmt, err := f.app.Payment.RecordPayment(context.Background(), payment.NewPayment{
		StudentID:    f.student.ID,
		OfferingID:   f.off.ID,
		Amount:       decimal.NewFromInt(amount),
		PaymentDate:  testutil.Date(t, "2024-03-05"),
		MonthPaidFor: month,
	})
	require.NoError(t, err)
	return pmt
}

func TestService_ComputeAlerts(t *testing.T) {
	ctx := context.Background()

	t.Run("full month attended and unpaid", func(t *testing.T) {
		f := setup(t)
		testutil.MarkPresent(t, f.app, f.off, f.teacher.ID, f.student.ID, testutil.Date(t, "2024-03-01"), 8)

		alerts, err := f.app.Payment.ComputeAlerts(ctx)
		require.NoError(t, err)
		require.Len(t, alerts, 1)
		alert := alerts[0]
		assert.Equal(t, f.student.ID, alert.StudentID)
		assert.Equal(t, "Alice Ilunga", alert.StudentName)
		assert.Equal(t, f.off.ID, alert.OfferingID)
		assert.Equal(t, "Maths", alert.SubjectName)
		assert.Equal(t, "Beginner", alert.LevelName)
		assert.Equal(t, 8, alert.AttendanceCount)
		assert.Equal(t, 8, alert.ExpectedAttendance)
		assert.Equal(t, 2, alert.SessionsPerWeek)
		assert.True(t, decimal.NewFromInt(5000).Equal(alert.AmountDue))
	})

	t.Run("paid for the current month", func(t *testing.T) {
		f := setup(t)
		testutil.MarkPresent(t, f.app, f.off, f.teacher.ID, f.student.ID, testutil.Date(t, "2024-03-01"), 8)
		f.pay(t, "2024-03", 5000)

		alerts, err := f.app.Payment.ComputeAlerts(ctx)
		require.NoError(t, err)
		assert.Empty(t, alerts)
	})

	t.Run("inactive enrollment", func(t *testing.T) {
		f := setup(t)
		testutil.MarkPresent(t, f.app, f.off, f.teacher.ID, f.student.ID, testutil.Date(t, "2024-03-01"), 10)
		enr := testutil.Deactivate(t, f.app.Directory, f.student.ID, f.off.ID)

		alerts, err := f.app.Payment.ComputeAlerts(ctx)
		require.NoError(t, err)
		assert.Empty(t, alerts)

		_, err = f.app.Directory.SetEnrollmentActive(ctx, enr.ID, true)
		require.NoError(t, err)
		alerts, err = f.app.Payment.ComputeAlerts(ctx)
		require.NoError(t, err)
		assert.Len(t, alerts, 1)
	})

	t.Run("paid for another month", func(t *testing.T) {
		f := setup(t)
		testutil.MarkPresent(t, f.app, f.off, f.teacher.ID, f.student.ID, testutil.Date(t, "2024-03-01"), 8)
		f.pay(t, "2024-02", 5000)

		alerts, err := f.app.Payment.ComputeAlerts(ctx)
		require.NoError(t, err)
		assert.Len(t, alerts, 1)
	})

	t.Run("not enough attendance", func(t *testing.T) {
		f := setup(t)
		testutil.MarkPresent(t, f.app, f.off, f.teacher.ID, f.student.ID, testutil.Date(t, "2024-03-01"), 7)

		alerts, err := f.app.Payment.ComputeAlerts(ctx)
		require.NoError(t, err)
		assert.Empty(t, alerts)
	})

	t.Run("only counts the current month up to today", func(t *testing.T) {
		f := setup(t)
		testutil.MarkPresent(t, f.app, f.off, f.teacher.ID, f.student.ID, testutil.Date(t, "2024-02-20"), 6)
		testutil.MarkPresent(t, f.app, f.off, f.teacher.ID, f.student.ID, testutil.Date(t, "2024-03-18"), 6)

		alerts, err := f.app.Payment.ComputeAlerts(ctx)
		require.NoError(t, err)
		assert.Empty(t, alerts, "3 sessions fall in [2024-03-01, 2024-03-20]")
	})

	t.Run("absences do not count", func(t *testing.T) {
		f := setup(t)
		testutil.MarkPresent(t, f.app, f.off, f.teacher.ID, f.student.ID, testutil.Date(t, "2024-03-01"), 8)
		testutil.MarkAbsent(t, f.app, f.off, f.teacher.ID, f.student.ID, testutil.Date(t, "2024-03-08"))

		alerts, err := f.app.Payment.ComputeAlerts(ctx)
		require.NoError(t, err)
		assert.Empty(t, alerts)
	})

	t.Run("one alert per enrollment, sorted by student name", func(t *testing.T) {
		f := setup(t)
		bob := testutil.CreateStudent(t, f.app.Directory, "Bob", "Tshala", f.off.ID)
		aaron := testutil.CreateStudent(t, f.app.Directory, "Aaron", "Zola", f.off.ID)
		for _, id := range []string{bob.ID, f.student.ID, aaron.ID} {
			testutil.MarkPresent(t, f.app, f.off, f.teacher.ID, id, testutil.Date(t, "2024-03-01"), 10)
		}

		alerts, err := f.app.Payment.ComputeAlerts(ctx)
		require.NoError(t, err)
		names := make([]string, 0, len(alerts))
		seen := make(map[string]bool)
		for _, a := range alerts {
			assert.False(t, seen[a.EnrollmentID], "duplicate alert for %s", a.EnrollmentID)
			seen[a.EnrollmentID] = true
			names = append(names, a.StudentName)
		}
		assert.Equal(t, []string{"Aaron Zola", "Alice Ilunga", "Bob Tshala"}, names)
	})

	t.Run("skips enrollments that fail to evaluate", func(t *testing.T) {
		f := setup(t)
		bob := testutil.CreateStudent(t, f.app.Directory, "Bob", "Tshala", f.off.ID)
		for _, id := range []string{bob.ID, f.student.ID} {
			testutil.MarkPresent(t, f.app, f.off, f.teacher.ID, id, testutil.Date(t, "2024-03-01"), 8)
		}
		svc := payment.NewService(
			inmemdb.NewPaymentRepository(f.app.DB),
			f.app.Directory,
			failingAttendance{Attendance: f.app.Attendance, failStudentID: f.student.ID},
			f.app.Validate,
			f.app.Logger,
			f.app.Conf,
		)

		alerts, err := svc.ComputeAlerts(ctx)
		require.NoError(t, err)
		require.Len(t, alerts, 1)
		assert.Equal(t, bob.ID, alerts[0].StudentID)
	})

	t.Run("fails when enrollments cannot be loaded", func(t *testing.T) {
		f := setup(t)
		svc := payment.NewService(
			inmemdb.NewPaymentRepository(f.app.DB),
			failingDirectory{},
			f.app.Attendance,
			f.app.Validate,
			f.app.Logger,
			f.app.Conf,
		)

		alerts, err := svc.ComputeAlerts(ctx)
		assert.Nil(t, alerts)
		assert.Equal(t, core.KindStore, core.KindOf(err))
	})
}

func TestExpectedAttendance(t *testing.T) {
	tests := []struct {
		sessionsPerWeek int
		want            int
	}{
		{sessionsPerWeek: 0, want: 4},
		{sessionsPerWeek: 1, want: 4},
		{sessionsPerWeek: 2, want: 8},
		{sessionsPerWeek: 3, want: 12},
		{sessionsPerWeek: 5, want: 20},
	}
	for _, tt := range tests {
		off := catalog.Offering{SessionsPerWeek: tt.sessionsPerWeek}
		assert.Equal(t, tt.want, off.ExpectedAttendance(), "sessionsPerWeek=%d", tt.sessionsPerWeek)
	}
}

func TestService_RecordPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("upserts on student, offering and month", func(t *testing.T) {
		f := setup(t)
		np := payment.NewPayment{
			StudentID:    f.student.ID,
			OfferingID:   f.off.ID,
			Amount:       decimal.NewFromInt(5000),
			PaymentDate:  testutil.Date(t, "2024-04-05"),
			MonthPaidFor: "2024-04",
		}
		first, err := f.app.Payment.RecordPayment(ctx, np)
		require.NoError(t, err)

		np.Amount = decimal.NewFromInt(5500)
		second, err := f.app.Payment.RecordPayment(ctx, np)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		history, err := f.app.Payment.StudentPayments(ctx, f.student.ID)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.True(t, decimal.NewFromInt(5500).Equal(history[0].Amount))
		assert.Equal(t, "2024-04", history[0].MonthPaidFor)
		assert.Equal(t, "Maths", history[0].SubjectName)
	})

	t.Run("different months are different rows", func(t *testing.T) {
		f := setup(t)
		feb := f.pay(t, "2024-02", 5000)
		mar := f.pay(t, "2024-03", 5000)
		assert.NotEqual(t, feb.ID, mar.ID)

		history, err := f.app.Payment.StudentPayments(ctx, f.student.ID)
		require.NoError(t, err)
		assert.Len(t, history, 2)
	})

	t.Run("invalid payments", func(t *testing.T) {
		f := setup(t)
		valid := payment.NewPayment{
			StudentID:    f.student.ID,
			OfferingID:   f.off.ID,
			Amount:       decimal.NewFromInt(5000),
			PaymentDate:  testutil.Date(t, "2024-04-05"),
			MonthPaidFor: "2024-04",
		}
		tests := []struct {
			name   string
			mutate func(np *payment.NewPayment)
			kind   core.Kind
		}{
			{name: "negative amount", mutate: func(np *payment.NewPayment) { np.Amount = decimal.NewFromInt(-1) }, kind: core.KindValidation},
			{name: "bad month", mutate: func(np *payment.NewPayment) { np.MonthPaidFor = "2024-13" }, kind: core.KindValidation},
			{name: "month with day", mutate: func(np *payment.NewPayment) { np.MonthPaidFor = "2024-04-05" }, kind: core.KindValidation},
			{name: "missing date", mutate: func(np *payment.NewPayment) { np.PaymentDate = time.Time{} }, kind: core.KindValidation},
			{name: "missing student", mutate: func(np *payment.NewPayment) { np.StudentID = "" }, kind: core.KindValidation},
			{name: "unknown student", mutate: func(np *payment.NewPayment) { np.StudentID = "ghost" }, kind: core.KindNotFound},
			{name: "unknown offering", mutate: func(np *payment.NewPayment) { np.OfferingID = "ghost" }, kind: core.KindNotFound},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				np := valid
				tt.mutate(&np)
				_, err := f.app.Payment.RecordPayment(ctx, np)
				assert.Equal(t, tt.kind, core.KindOf(err))
			})
		}

		history, err := f.app.Payment.StudentPayments(ctx, f.student.ID)
		require.NoError(t, err)
		assert.Empty(t, history)
	})

	t.Run("zero amount is accepted", func(t *testing.T) {
		f := setup(t)
		f.pay(t, "2024-03", 0)
	})
}
