package testutil

import (
	"context"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/attendance"
	"github.com/trezcool/academia/core/catalog"
	"github.com/trezcool/academia/core/directory"
	"github.com/trezcool/academia/core/payment"
	"github.com/trezcool/academia/services/logger"
	"github.com/trezcool/academia/storage/database/inmem"
)

// App holds every service wired on top of one in-memory store.
type App struct {
	DB         *inmemdb.DB
	Conf       *core.Config
	Validate   *validator.Validate
	Translator ut.Translator
	Logger     core.Logger

	Catalog    *catalog.Service
	Directory  *directory.Service
	Attendance *attendance.Service
	Payment    *payment.Service
}

func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	catalog.InitValidators(validate, translator)
	directory.InitValidators(validate, translator)
	attendance.InitValidators(validate, translator)
	payment.InitValidators(validate, translator)
	return validate, translator
}

func NewConfig() *core.Config {
	return &core.Config{
		Env:      "TEST",
		AppName:  "Academia",
		Debug:    true,
		TestMode: true,
		Storage:  core.StorageMemory,
		Alerts:   core.AlertsConfig{Workers: 4},
	}
}

func NewApp(t *testing.T) *App {
	t.Helper()

	db := inmemdb.NewDB()
	conf := NewConfig()
	validate, translator := NewValidator()
	logger := logsvc.NewNopLogger()

	catSvc := catalog.NewService(inmemdb.NewCatalogRepository(db), validate)
	dirSvc := directory.NewService(inmemdb.NewDirectoryRepository(db), catSvc, validate)
	attSvc := attendance.NewService(inmemdb.NewAttendanceRepository(db), catSvc, dirSvc, validate)
	pmtSvc := payment.NewService(inmemdb.NewPaymentRepository(db), dirSvc, attSvc, validate, logger, conf)

	return &App{
		DB:         db,
		Conf:       conf,
		Validate:   validate,
		Translator: translator,
		Logger:     logger,
		Catalog:    catSvc,
		Directory:  dirSvc,
		Attendance: attSvc,
		Payment:    pmtSvc,
	}
}

// Date parses a YYYY-MM-DD date or fails the test.
func Date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := core.ParseDate(s)
	if err != nil {
		t.Fatalf("Date() failed: %v", err)
	}
	return d
}

// FreezeTime pins payment.NowFunc to `now` for the duration of the test.
func FreezeTime(t *testing.T, now time.Time) {
	t.Helper()
	payment.NowFunc = func() time.Time { return now }
	t.Cleanup(func() { payment.NowFunc = time.Now })
}

func CreateSubject(t *testing.T, svc *catalog.Service, name string) catalog.Subject {
	t.Helper()
	subj, err := svc.CreateSubject(context.Background(), catalog.NewSubject{Name: name})
	if err != nil {
		t.Fatalf("CreateSubject() failed: %v", err)
	}
	return subj
}

func CreateLevel(t *testing.T, svc *catalog.Service, name string, order int) catalog.Level {
	t.Helper()
	lvl, err := svc.CreateLevel(context.Background(), catalog.NewLevel{Name: name, DisplayOrder: order})
	if err != nil {
		t.Fatalf("CreateLevel() failed: %v", err)
	}
	return lvl
}

func CreateOffering(
	t *testing.T,
	svc *catalog.Service,
	subj catalog.Subject,
	lvl catalog.Level,
	price string,
	sessionsPerWeek int,
	teacherID ...string,
) catalog.OfferingDetail {
	t.Helper()
	so := catalog.SaveOffering{
		SubjectID:       subj.ID,
		LevelID:         lvl.ID,
		PricePerMonth:   decimal.RequireFromString(price),
		SessionsPerWeek: sessionsPerWeek,
	}
	if len(teacherID) > 0 {
		so.TeacherID = teacherID[0]
	}
	off, err := svc.SaveOffering(context.Background(), so)
	if err != nil {
		t.Fatalf("CreateOffering() failed: %v", err)
	}
	return off
}

func CreateTeacher(t *testing.T, svc *directory.Service, first, last string, offeringIDs ...string) directory.Teacher {
	t.Helper()
	tchr, err := svc.AddTeacher(context.Background(), directory.NewTeacher{
		FirstName:    first,
		LastName:     last,
		PaymentType:  directory.PaymentPercentage,
		PaymentValue: decimal.NewFromInt(50),
		OfferingIDs:  offeringIDs,
	})
	if err != nil {
		t.Fatalf("CreateTeacher() failed: %v", err)
	}
	return tchr
}

func CreateStudent(t *testing.T, svc *directory.Service, first, last string, offeringIDs ...string) directory.Student {
	t.Helper()
	std, err := svc.AddStudent(context.Background(), directory.NewStudent{
		FirstName:   first,
		LastName:    last,
		ParentName:  "Parent " + last,
		ParentPhone: "+243000000000",
		OfferingIDs: offeringIDs,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return std
}

// MarkPresent records `n` consecutive days of attendance for one student, starting at `from`.
func MarkPresent(t *testing.T, app *App, off catalog.OfferingDetail, teacherID, studentID string, from time.Time, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		mark(t, app, off, teacherID, studentID, from.AddDate(0, 0, i), true)
	}
}

func MarkAbsent(t *testing.T, app *App, off catalog.OfferingDetail, teacherID, studentID string, date time.Time) {
	t.Helper()
	mark(t, app, off, teacherID, studentID, date, false)
}

func mark(t *testing.T, app *App, off catalog.OfferingDetail, teacherID, studentID string, date time.Time, present bool) {
	t.Helper()
	err := app.Attendance.RecordSession(context.Background(), attendance.NewSession{
		OfferingID:     off.ID,
		Date:           date,
		TeacherID:      teacherID,
		TeacherPresent: true,
		Students:       []attendance.StudentMark{{StudentID: studentID, Present: present}},
	})
	if err != nil {
		t.Fatalf("mark() failed: %v", err)
	}
}

// Deactivate switches off the enrollment of a student in an offering.
func Deactivate(t *testing.T, svc *directory.Service, studentID, offeringID string) directory.Enrollment {
	t.Helper()
	ctx := context.Background()
	enrs, err := svc.Enrollments(ctx, directory.EnrollmentFilter{StudentID: studentID, OfferingID: offeringID})
	if err != nil || len(enrs) != 1 {
		t.Fatalf("Deactivate() found %d enrollments: %v", len(enrs), err)
	}
	enr, err := svc.SetEnrollmentActive(ctx, enrs[0].ID, false)
	if err != nil {
		t.Fatalf("Deactivate() failed: %v", err)
	}
	return enr
}
