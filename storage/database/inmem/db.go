package inmemdb

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/attendance"
	"github.com/trezcool/academia/core/catalog"
	"github.com/trezcool/academia/core/directory"
	"github.com/trezcool/academia/core/payment"
)

// DB is an in-memory store holding every table behind one lock.
// Each write runs in a single critical section, so upserts on one key never duplicate rows.
type DB struct {
	mutex sync.RWMutex

	subjects          map[string]catalog.Subject
	levels            map[string]catalog.Level
	offerings         map[string]catalog.Offering
	offeringTeachers  map[string]string // offering id -> teacher id
	teachers          map[string]directory.Teacher
	students          map[string]directory.Student
	enrollments       map[string]directory.Enrollment
	teacherAttendance map[string]attendance.TeacherAttendance
	studentAttendance map[string]attendance.StudentAttendance
	payments          map[string]payment.Payment
}

func NewDB() *DB {
	db := &DB{}
	db.reset()
	return db
}

// Reset empties every table.
func (db *DB) Reset() {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.reset()
}

func (db *DB) reset() {
	db.subjects = make(map[string]catalog.Subject)
	db.levels = make(map[string]catalog.Level)
	db.offerings = make(map[string]catalog.Offering)
	db.offeringTeachers = make(map[string]string)
	db.teachers = make(map[string]directory.Teacher)
	db.students = make(map[string]directory.Student)
	db.enrollments = make(map[string]directory.Enrollment)
	db.teacherAttendance = make(map[string]attendance.TeacherAttendance)
	db.studentAttendance = make(map[string]attendance.StudentAttendance)
	db.payments = make(map[string]payment.Payment)
}

func newID() string {
	return uuid.New().String()
}

func key(parts ...string) string {
	return strings.Join(parts, "|")
}

func dateKey(t time.Time) string {
	return core.Day(t).Format(core.DateLayout)
}

func contains(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}

func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && t.After(to) {
		return false
	}
	return true
}
