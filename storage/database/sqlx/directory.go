package sqlxrepos

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/directory"
)

type directoryRepository struct {
	db core.DBExecutor
}

func NewDirectoryRepository(db core.DBExecutor) directory.Repository {
	return &directoryRepository{db: db}
}

func (repo *directoryRepository) CreateTeacher(ctx context.Context, tchr directory.Teacher) (directory.Teacher, error) {
	tchr.ID = uuid.New().String()
	q := `
INSERT INTO teachers (id, first_name, last_name, payment_type, payment_value)
VALUES (:id, :first_name, :last_name, :payment_type, :payment_value)`
	if _, err := repo.db.NamedExecContext(ctx, q, tchr); err != nil {
		return directory.Teacher{}, storeError(err, "creating teacher", "teacher", tchr.ID)
	}
	return tchr, nil
}

func (repo *directoryRepository) GetTeacher(ctx context.Context, id string) (directory.Teacher, error) {
	var tchr directory.Teacher
	q := `SELECT id, first_name, last_name, payment_type, payment_value FROM teachers WHERE id = $1`
	if err := repo.db.GetContext(ctx, &tchr, q, id); err != nil {
		return directory.Teacher{}, storeError(err, "getting teacher", "teacher", id)
	}
	return tchr, nil
}

func (repo *directoryRepository) QueryTeachers(ctx context.Context) ([]directory.Teacher, error) {
	teachers := make([]directory.Teacher, 0)
	q := `
SELECT id, first_name, last_name, payment_type, payment_value
FROM teachers
ORDER BY first_name, last_name, id`
	if err := repo.db.SelectContext(ctx, &teachers, q); err != nil {
		return nil, storeError(err, "querying teachers", "teacher", "")
	}
	return teachers, nil
}

func (repo *directoryRepository) CreateStudent(ctx context.Context, std directory.Student) (directory.Student, error) {
	std.ID = uuid.New().String()
	q := `
INSERT INTO students (id, first_name, last_name, parent_name, parent_phone, parent_email)
VALUES (:id, :first_name, :last_name, :parent_name, :parent_phone, :parent_email)`
	if _, err := repo.db.NamedExecContext(ctx, q, std); err != nil {
		return directory.Student{}, storeError(err, "creating student", "student", std.ID)
	}
	return std, nil
}

func (repo *directoryRepository) GetStudent(ctx context.Context, id string) (directory.Student, error) {
	var std directory.Student
	q := `
SELECT id, first_name, last_name, parent_name, parent_phone, parent_email
FROM students
WHERE id = $1`
	if err := repo.db.GetContext(ctx, &std, q, id); err != nil {
		return directory.Student{}, storeError(err, "getting student", "student", id)
	}
	return std, nil
}

func (repo *directoryRepository) QueryStudents(ctx context.Context) ([]directory.Student, error) {
	students := make([]directory.Student, 0)
	q := `
SELECT id, first_name, last_name, parent_name, parent_phone, parent_email
FROM students
ORDER BY first_name, last_name, id`
	if err := repo.db.SelectContext(ctx, &students, q); err != nil {
		return nil, storeError(err, "querying students", "student", "")
	}
	return students, nil
}

func (repo *directoryRepository) Enroll(ctx context.Context, studentID, offeringID string) (directory.Enrollment, error) {
	var enr directory.Enrollment
	q := `
INSERT INTO student_subject_levels (id, student_id, subject_level_id, active)
VALUES ($1, $2, $3, TRUE)
ON CONFLICT (student_id, subject_level_id) DO UPDATE
SET active = TRUE
RETURNING id, student_id, subject_level_id AS offering_id, active`
	if err := repo.db.GetContext(ctx, &enr, q, uuid.New().String(), studentID, offeringID); err != nil {
		return directory.Enrollment{}, storeError(err, "enrolling student", "student", studentID)
	}
	return enr, nil
}

func (repo *directoryRepository) SetEnrollmentActive(ctx context.Context, id string, active bool) (directory.Enrollment, error) {
	var enr directory.Enrollment
	q := `
UPDATE student_subject_levels
SET active = $2
WHERE id = $1
RETURNING id, student_id, subject_level_id AS offering_id, active`
	if err := repo.db.GetContext(ctx, &enr, q, id, active); err != nil {
		return directory.Enrollment{}, storeError(err, "updating enrollment", "enrollment", id)
	}
	return enr, nil
}

func (repo *directoryRepository) QueryEnrollments(ctx context.Context, filter directory.EnrollmentFilter) ([]directory.EnrollmentDetail, error) {
	if matchesNothing(filter.OfferingID, filter.StudentID) {
		return []directory.EnrollmentDetail{}, nil
	}
	where := make([]string, 0, 3)
	args := make(map[string]interface{})
	if filter.ActiveOnly {
		where = append(where, "ssl.active")
	}
	if filter.OfferingID != "" {
		where = append(where, "ssl.subject_level_id = :offering_id")
		args["offering_id"] = filter.OfferingID
	}
	if filter.StudentID != "" {
		where = append(where, "ssl.student_id = :student_id")
		args["student_id"] = filter.StudentID
	}

	q := `
SELECT ssl.id, ssl.student_id, ssl.subject_level_id AS offering_id, ssl.active,
       st.first_name AS student_first_name,
       st.last_name AS student_last_name,
       sl.subject_id, s.name AS subject_name,
       sl.level_id, l.name AS level_name,
       sl.price_per_month, sl.sessions_per_week
FROM student_subject_levels ssl
JOIN students st ON st.id = ssl.student_id
JOIN subject_levels sl ON sl.id = ssl.subject_level_id
JOIN subjects s ON s.id = sl.subject_id
JOIN levels l ON l.id = sl.level_id`
	if len(where) > 0 {
		q += "\nWHERE " + strings.Join(where, " AND ")
	}
	q += "\nORDER BY st.first_name, st.last_name, ssl.id"

	enrollments := make([]directory.EnrollmentDetail, 0)
	if err := selectNamed(ctx, repo.db, &enrollments, q, args); err != nil {
		return nil, storeError(err, "querying enrollments", "enrollment", "")
	}
	return enrollments, nil
}
