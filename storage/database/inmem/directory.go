package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/directory"
)

type directoryRepository struct {
	db *DB
}

func NewDirectoryRepository(db *DB) directory.Repository {
	return &directoryRepository{db: db}
}

func (repo *directoryRepository) CreateTeacher(_ context.Context, tchr directory.Teacher) (directory.Teacher, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	tchr.ID = newID()
	repo.db.teachers[tchr.ID] = tchr
	return tchr, nil
}

func (repo *directoryRepository) GetTeacher(_ context.Context, id string) (directory.Teacher, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if tchr, ok := repo.db.teachers[id]; ok {
		return tchr, nil
	}
	return directory.Teacher{}, core.NewNotFoundError("teacher", id)
}

func (repo *directoryRepository) QueryTeachers(_ context.Context) ([]directory.Teacher, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	teachers := make([]directory.Teacher, 0, len(repo.db.teachers))
	for _, t := range repo.db.teachers {
		teachers = append(teachers, t)
	}
	sort.Slice(teachers, func(i, j int) bool {
		if teachers[i].Name() != teachers[j].Name() {
			return teachers[i].Name() < teachers[j].Name()
		}
		return teachers[i].ID < teachers[j].ID
	})
	return teachers, nil
}

func (repo *directoryRepository) CreateStudent(_ context.Context, std directory.Student) (directory.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	std.ID = newID()
	repo.db.students[std.ID] = std
	return std, nil
}

func (repo *directoryRepository) GetStudent(_ context.Context, id string) (directory.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if std, ok := repo.db.students[id]; ok {
		return std, nil
	}
	return directory.Student{}, core.NewNotFoundError("student", id)
}

func (repo *directoryRepository) QueryStudents(_ context.Context) ([]directory.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	students := make([]directory.Student, 0, len(repo.db.students))
	for _, s := range repo.db.students {
		students = append(students, s)
	}
	sort.Slice(students, func(i, j int) bool {
		if students[i].Name() != students[j].Name() {
			return students[i].Name() < students[j].Name()
		}
		return students[i].ID < students[j].ID
	})
	return students, nil
}

func (repo *directoryRepository) Enroll(_ context.Context, studentID, offeringID string) (directory.Enrollment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.students[studentID]; !ok {
		return directory.Enrollment{}, core.NewNotFoundError("student", studentID)
	}
	if _, ok := repo.db.offerings[offeringID]; !ok {
		return directory.Enrollment{}, core.NewNotFoundError("offering", offeringID)
	}
	for id, enr := range repo.db.enrollments {
		if enr.StudentID == studentID && enr.OfferingID == offeringID {
			enr.Active = true
			repo.db.enrollments[id] = enr
			return enr, nil
		}
	}
	enr := directory.Enrollment{ID: newID(), StudentID: studentID, OfferingID: offeringID, Active: true}
	repo.db.enrollments[enr.ID] = enr
	return enr, nil
}

func (repo *directoryRepository) SetEnrollmentActive(_ context.Context, id string, active bool) (directory.Enrollment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	enr, ok := repo.db.enrollments[id]
	if !ok {
		return directory.Enrollment{}, core.NewNotFoundError("enrollment", id)
	}
	enr.Active = active
	repo.db.enrollments[id] = enr
	return enr, nil
}

func (repo *directoryRepository) QueryEnrollments(_ context.Context, filter directory.EnrollmentFilter) ([]directory.EnrollmentDetail, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	details := make([]directory.EnrollmentDetail, 0)
	for _, enr := range repo.db.enrollments {
		if filter.ActiveOnly && !enr.Active {
			continue
		}
		if filter.OfferingID != "" && enr.OfferingID != filter.OfferingID {
			continue
		}
		if filter.StudentID != "" && enr.StudentID != filter.StudentID {
			continue
		}
		std := repo.db.students[enr.StudentID]
		off := repo.db.offerings[enr.OfferingID]
		details = append(details, directory.EnrollmentDetail{
			Enrollment:       enr,
			StudentFirstName: std.FirstName,
			StudentLastName:  std.LastName,
			SubjectID:        off.SubjectID,
			SubjectName:      repo.db.subjects[off.SubjectID].Name,
			LevelID:          off.LevelID,
			LevelName:        repo.db.levels[off.LevelID].Name,
			PricePerMonth:    off.PricePerMonth,
			SessionsPerWeek:  off.SessionsPerWeek,
		})
	}
	sort.Slice(details, func(i, j int) bool {
		if details[i].StudentName() != details[j].StudentName() {
			return details[i].StudentName() < details[j].StudentName()
		}
		return details[i].ID < details[j].ID
	})
	return details, nil
}
