package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/attendance"
)

type attendanceRepository struct {
	db *DB
}

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

func (repo *attendanceRepository) UpsertTeacherAttendance(_ context.Context, ta attendance.TeacherAttendance) (attendance.TeacherAttendance, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.teachers[ta.TeacherID]; !ok {
		return attendance.TeacherAttendance{}, core.NewNotFoundError("teacher", ta.TeacherID)
	}
	ta.Date = core.Day(ta.Date)
	k := key(ta.TeacherID, dateKey(ta.Date))
	if existing, ok := repo.db.teacherAttendance[k]; ok {
		ta.ID = existing.ID
	} else {
		ta.ID = newID()
	}
	repo.db.teacherAttendance[k] = ta
	return ta, nil
}

func (repo *attendanceRepository) UpsertStudentAttendance(_ context.Context, sa attendance.StudentAttendance) (attendance.StudentAttendance, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.students[sa.StudentID]; !ok {
		return attendance.StudentAttendance{}, core.NewNotFoundError("student", sa.StudentID)
	}
	if _, ok := repo.db.offerings[sa.OfferingID]; !ok {
		return attendance.StudentAttendance{}, core.NewNotFoundError("offering", sa.OfferingID)
	}
	sa.Date = core.Day(sa.Date)
	k := key(sa.StudentID, sa.OfferingID, dateKey(sa.Date))
	if existing, ok := repo.db.studentAttendance[k]; ok {
		sa.ID = existing.ID
	} else {
		sa.ID = newID()
	}
	repo.db.studentAttendance[k] = sa
	return sa, nil
}

func (repo *attendanceRepository) QueryTeacherAttendance(_ context.Context, filter attendance.QueryFilter) ([]attendance.TeacherAttendanceRow, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	rows := make([]attendance.TeacherAttendanceRow, 0)
	for _, ta := range repo.db.teacherAttendance {
		if !inRange(ta.Date, filter.DateFrom, filter.DateTo) {
			continue
		}
		if filter.TeacherID != "" && ta.TeacherID != filter.TeacherID {
			continue
		}
		tchr := repo.db.teachers[ta.TeacherID]
		if filter.Search != "" && !contains(tchr.Name(), filter.Search) {
			continue
		}
		rows = append(rows, attendance.TeacherAttendanceRow{
			TeacherAttendance: ta,
			TeacherFirstName:  tchr.FirstName,
			TeacherLastName:   tchr.LastName,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if a.TeacherName() != b.TeacherName() {
			return a.TeacherName() < b.TeacherName()
		}
		return a.ID < b.ID
	})
	return rows, nil
}

func (repo *attendanceRepository) QueryStudentAttendance(_ context.Context, filter attendance.QueryFilter) ([]attendance.StudentAttendanceRow, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	rows := make([]attendance.StudentAttendanceRow, 0)
	for _, sa := range repo.db.studentAttendance {
		if !inRange(sa.Date, filter.DateFrom, filter.DateTo) {
			continue
		}
		if filter.StudentID != "" && sa.StudentID != filter.StudentID {
			continue
		}
		if filter.OfferingID != "" && sa.OfferingID != filter.OfferingID {
			continue
		}
		off := repo.db.offerings[sa.OfferingID]
		if filter.SubjectID != "" && off.SubjectID != filter.SubjectID {
			continue
		}
		if filter.LevelID != "" && off.LevelID != filter.LevelID {
			continue
		}
		std := repo.db.students[sa.StudentID]
		row := attendance.StudentAttendanceRow{
			StudentAttendance: sa,
			StudentFirstName:  std.FirstName,
			StudentLastName:   std.LastName,
			SubjectID:         off.SubjectID,
			SubjectName:       repo.db.subjects[off.SubjectID].Name,
			LevelID:           off.LevelID,
			LevelName:         repo.db.levels[off.LevelID].Name,
		}
		if filter.Search != "" &&
			!contains(row.StudentName(), filter.Search) &&
			!contains(row.SubjectName, filter.Search) &&
			!contains(row.LevelName, filter.Search) {
			continue
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if a.StudentName() != b.StudentName() {
			return a.StudentName() < b.StudentName()
		}
		return a.ID < b.ID
	})
	return rows, nil
}

func (repo *attendanceRepository) CountPresent(_ context.Context, studentID, offeringID string, from, to time.Time) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var count int
	for _, sa := range repo.db.studentAttendance {
		if sa.StudentID == studentID && sa.OfferingID == offeringID && sa.Present && inRange(sa.Date, from, to) {
			count++
		}
	}
	return count, nil
}
