package inmemdb

import (
	"context"
	"sort"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/catalog"
)

type catalogRepository struct {
	db *DB
}

func NewCatalogRepository(db *DB) catalog.Repository {
	return &catalogRepository{db: db}
}

func (repo *catalogRepository) CreateSubject(_ context.Context, subj catalog.Subject) (catalog.Subject, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	subj.ID = newID()
	repo.db.subjects[subj.ID] = subj
	return subj, nil
}

func (repo *catalogRepository) CreateLevel(_ context.Context, lvl catalog.Level) (catalog.Level, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	lvl.ID = newID()
	repo.db.levels[lvl.ID] = lvl
	return lvl, nil
}

func (repo *catalogRepository) QuerySubjects(_ context.Context) ([]catalog.Subject, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	subjects := make([]catalog.Subject, 0, len(repo.db.subjects))
	for _, s := range repo.db.subjects {
		subjects = append(subjects, s)
	}
	sort.Slice(subjects, func(i, j int) bool {
		if subjects[i].Name != subjects[j].Name {
			return subjects[i].Name < subjects[j].Name
		}
		return subjects[i].ID < subjects[j].ID
	})
	return subjects, nil
}

func (repo *catalogRepository) QueryLevels(_ context.Context) ([]catalog.Level, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	levels := make([]catalog.Level, 0, len(repo.db.levels))
	for _, l := range repo.db.levels {
		levels = append(levels, l)
	}
	sort.Slice(levels, func(i, j int) bool {
		if levels[i].DisplayOrder != levels[j].DisplayOrder {
			return levels[i].DisplayOrder < levels[j].DisplayOrder
		}
		return levels[i].Name < levels[j].Name
	})
	return levels, nil
}

func (repo *catalogRepository) UpsertOffering(_ context.Context, off catalog.Offering) (catalog.Offering, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.subjects[off.SubjectID]; !ok {
		return catalog.Offering{}, core.NewNotFoundError("subject", off.SubjectID)
	}
	if _, ok := repo.db.levels[off.LevelID]; !ok {
		return catalog.Offering{}, core.NewNotFoundError("level", off.LevelID)
	}
	for id, existing := range repo.db.offerings {
		if existing.SubjectID == off.SubjectID && existing.LevelID == off.LevelID {
			off.ID = id
			repo.db.offerings[id] = off
			return off, nil
		}
	}
	off.ID = newID()
	repo.db.offerings[off.ID] = off
	return off, nil
}

func (repo *catalogRepository) AssignTeacher(_ context.Context, offeringID, teacherID string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.offerings[offeringID]; !ok {
		return core.NewNotFoundError("offering", offeringID)
	}
	if _, ok := repo.db.teachers[teacherID]; !ok {
		return core.NewNotFoundError("teacher", teacherID)
	}
	repo.db.offeringTeachers[offeringID] = teacherID
	return nil
}

// detail must be called with the lock held.
func (repo *catalogRepository) detail(off catalog.Offering) catalog.OfferingDetail {
	od := catalog.OfferingDetail{
		Offering:    off,
		SubjectName: repo.db.subjects[off.SubjectID].Name,
		LevelName:   repo.db.levels[off.LevelID].Name,
	}
	if tid, ok := repo.db.offeringTeachers[off.ID]; ok {
		od.TeacherID = null.StringFrom(tid)
		od.TeacherName = null.StringFrom(repo.db.teachers[tid].Name())
	}
	return od
}

func (repo *catalogRepository) QueryOfferings(_ context.Context) ([]catalog.OfferingDetail, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	offerings := make([]catalog.OfferingDetail, 0, len(repo.db.offerings))
	for _, off := range repo.db.offerings {
		offerings = append(offerings, repo.detail(off))
	}
	sort.Slice(offerings, func(i, j int) bool {
		a, b := offerings[i], offerings[j]
		if a.SubjectName != b.SubjectName {
			return a.SubjectName < b.SubjectName
		}
		la, lb := repo.db.levels[a.LevelID].DisplayOrder, repo.db.levels[b.LevelID].DisplayOrder
		if la != lb {
			return la < lb
		}
		return a.ID < b.ID
	})
	return offerings, nil
}

func (repo *catalogRepository) GetOffering(_ context.Context, id string) (catalog.OfferingDetail, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	off, ok := repo.db.offerings[id]
	if !ok {
		return catalog.OfferingDetail{}, core.NewNotFoundError("offering", id)
	}
	return repo.detail(off), nil
}

func (repo *catalogRepository) FindOffering(_ context.Context, subjectID, levelID string) (catalog.Offering, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, off := range repo.db.offerings {
		if off.SubjectID == subjectID && off.LevelID == levelID {
			return off, nil
		}
	}
	return catalog.Offering{}, core.NewNotFoundError("offering", key(subjectID, levelID))
}
