package sqlxrepos

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/attendance"
)

type attendanceRepository struct {
	db core.DBExecutor
}

func NewAttendanceRepository(db core.DBExecutor) attendance.Repository {
	return &attendanceRepository{db: db}
}

func date(t time.Time) string {
	return core.Day(t).Format(core.DateLayout)
}

func (repo *attendanceRepository) UpsertTeacherAttendance(ctx context.Context, ta attendance.TeacherAttendance) (attendance.TeacherAttendance, error) {
	q := `
INSERT INTO teacher_attendance (id, teacher_id, attendance_date, present)
VALUES ($1, $2, $3, $4)
ON CONFLICT (teacher_id, attendance_date) DO UPDATE
SET present = EXCLUDED.present
RETURNING id`
	var id string
	if err := repo.db.GetContext(ctx, &id, q, uuid.New().String(), ta.TeacherID, date(ta.Date), ta.Present); err != nil {
		return attendance.TeacherAttendance{}, storeError(err, "upserting teacher attendance", "teacher", ta.TeacherID)
	}
	ta.ID = id
	ta.Date = core.Day(ta.Date)
	return ta, nil
}

func (repo *attendanceRepository) UpsertStudentAttendance(ctx context.Context, sa attendance.StudentAttendance) (attendance.StudentAttendance, error) {
	q := `
INSERT INTO student_attendance (id, student_id, subject_level_id, attendance_date, present)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (student_id, subject_level_id, attendance_date) DO UPDATE
SET present = EXCLUDED.present
RETURNING id`
	var id string
	err := repo.db.GetContext(ctx, &id, q, uuid.New().String(), sa.StudentID, sa.OfferingID, date(sa.Date), sa.Present)
	if err != nil {
		return attendance.StudentAttendance{}, storeError(err, "upserting student attendance", "student", sa.StudentID)
	}
	sa.ID = id
	sa.Date = core.Day(sa.Date)
	return sa, nil
}

// dateRange appends the inclusive date bounds of `filter` on `column`.
func dateRange(where []string, args map[string]interface{}, column string, filter attendance.QueryFilter) []string {
	if !filter.DateFrom.IsZero() {
		where = append(where, column+" >= :date_from")
		args["date_from"] = date(filter.DateFrom)
	}
	if !filter.DateTo.IsZero() {
		where = append(where, column+" <= :date_to")
		args["date_to"] = date(filter.DateTo)
	}
	return where
}

func (repo *attendanceRepository) QueryTeacherAttendance(ctx context.Context, filter attendance.QueryFilter) ([]attendance.TeacherAttendanceRow, error) {
	if matchesNothing(filter.TeacherID) {
		return []attendance.TeacherAttendanceRow{}, nil
	}
	args := make(map[string]interface{})
	where := dateRange(make([]string, 0, 4), args, "ta.attendance_date", filter)
	if filter.TeacherID != "" {
		where = append(where, "ta.teacher_id = :teacher_id")
		args["teacher_id"] = filter.TeacherID
	}
	if filter.Search != "" {
		where = append(where, "(t.first_name || ' ' || t.last_name) ILIKE :search")
		args["search"] = containsPattern(filter.Search)
	}

	q := `
SELECT ta.id, ta.teacher_id, ta.attendance_date, ta.present,
       t.first_name AS teacher_first_name,
       t.last_name AS teacher_last_name
FROM teacher_attendance ta
JOIN teachers t ON t.id = ta.teacher_id`
	if len(where) > 0 {
		q += "\nWHERE " + strings.Join(where, " AND ")
	}
	q += "\nORDER BY ta.attendance_date DESC, t.first_name, t.last_name, ta.id"

	rows := make([]attendance.TeacherAttendanceRow, 0)
	if err := selectNamed(ctx, repo.db, &rows, q, args); err != nil {
		return nil, storeError(err, "querying teacher attendance", "teacher", filter.TeacherID)
	}
	return rows, nil
}

func (repo *attendanceRepository) QueryStudentAttendance(ctx context.Context, filter attendance.QueryFilter) ([]attendance.StudentAttendanceRow, error) {
	if matchesNothing(filter.StudentID, filter.OfferingID, filter.SubjectID, filter.LevelID) {
		return []attendance.StudentAttendanceRow{}, nil
	}
	args := make(map[string]interface{})
	where := dateRange(make([]string, 0, 7), args, "sa.attendance_date", filter)
	if filter.StudentID != "" {
		where = append(where, "sa.student_id = :student_id")
		args["student_id"] = filter.StudentID
	}
	if filter.OfferingID != "" {
		where = append(where, "sa.subject_level_id = :offering_id")
		args["offering_id"] = filter.OfferingID
	}
	if filter.SubjectID != "" {
		where = append(where, "sl.subject_id = :subject_id")
		args["subject_id"] = filter.SubjectID
	}
	if filter.LevelID != "" {
		where = append(where, "sl.level_id = :level_id")
		args["level_id"] = filter.LevelID
	}
	if filter.Search != "" {
		where = append(where, "((st.first_name || ' ' || st.last_name) ILIKE :search OR s.name ILIKE :search OR l.name ILIKE :search)")
		args["search"] = containsPattern(filter.Search)
	}

	q := `
SELECT sa.id, sa.student_id, sa.subject_level_id AS offering_id, sa.attendance_date, sa.present,
       st.first_name AS student_first_name,
       st.last_name AS student_last_name,
       sl.subject_id, s.name AS subject_name,
       sl.level_id, l.name AS level_name
FROM student_attendance sa
JOIN students st ON st.id = sa.student_id
JOIN subject_levels sl ON sl.id = sa.subject_level_id
JOIN subjects s ON s.id = sl.subject_id
JOIN levels l ON l.id = sl.level_id`
	if len(where) > 0 {
		q += "\nWHERE " + strings.Join(where, " AND ")
	}
	q += "\nORDER BY sa.attendance_date DESC, st.first_name, st.last_name, sa.id"

	rows := make([]attendance.StudentAttendanceRow, 0)
	if err := selectNamed(ctx, repo.db, &rows, q, args); err != nil {
		return nil, storeError(err, "querying student attendance", "student", filter.StudentID)
	}
	return rows, nil
}

func (repo *attendanceRepository) CountPresent(ctx context.Context, studentID, offeringID string, from, to time.Time) (int, error) {
	if matchesNothing(studentID, offeringID) {
		return 0, nil
	}
	q := `
SELECT COUNT(*)
FROM student_attendance
WHERE student_id = $1 AND subject_level_id = $2 AND present
  AND attendance_date BETWEEN $3 AND $4`
	var count int
	if err := repo.db.GetContext(ctx, &count, q, studentID, offeringID, date(from), date(to)); err != nil {
		return 0, storeError(err, "counting attendance", "student", studentID)
	}
	return count, nil
}
