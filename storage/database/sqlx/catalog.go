package sqlxrepos

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/catalog"
)

const offeringDetailQuery = `
SELECT sl.id, sl.subject_id, sl.level_id, sl.price_per_month, sl.sessions_per_week,
       s.name AS subject_name,
       l.name AS level_name,
       tsl.teacher_id,
       CASE WHEN t.id IS NULL THEN NULL ELSE TRIM(t.first_name || ' ' || t.last_name) END AS teacher_name
FROM subject_levels sl
JOIN subjects s ON s.id = sl.subject_id
JOIN levels l ON l.id = sl.level_id
LEFT JOIN teacher_subject_levels tsl ON tsl.subject_level_id = sl.id
LEFT JOIN teachers t ON t.id = tsl.teacher_id`

type catalogRepository struct {
	db core.DBExecutor
}

func NewCatalogRepository(db core.DBExecutor) catalog.Repository {
	return &catalogRepository{db: db}
}

func (repo *catalogRepository) CreateSubject(ctx context.Context, subj catalog.Subject) (catalog.Subject, error) {
	subj.ID = uuid.New().String()
	q := `INSERT INTO subjects (id, name, description) VALUES (:id, :name, :description)`
	if _, err := repo.db.NamedExecContext(ctx, q, subj); err != nil {
		return catalog.Subject{}, storeError(err, "creating subject", "subject", subj.ID)
	}
	return subj, nil
}

func (repo *catalogRepository) CreateLevel(ctx context.Context, lvl catalog.Level) (catalog.Level, error) {
	lvl.ID = uuid.New().String()
	q := `INSERT INTO levels (id, name, display_order) VALUES (:id, :name, :display_order)`
	if _, err := repo.db.NamedExecContext(ctx, q, lvl); err != nil {
		return catalog.Level{}, storeError(err, "creating level", "level", lvl.ID)
	}
	return lvl, nil
}

func (repo *catalogRepository) QuerySubjects(ctx context.Context) ([]catalog.Subject, error) {
	subjects := make([]catalog.Subject, 0)
	q := `SELECT id, name, description FROM subjects ORDER BY name, id`
	if err := repo.db.SelectContext(ctx, &subjects, q); err != nil {
		return nil, storeError(err, "querying subjects", "subject", "")
	}
	return subjects, nil
}

func (repo *catalogRepository) QueryLevels(ctx context.Context) ([]catalog.Level, error) {
	levels := make([]catalog.Level, 0)
	q := `SELECT id, name, display_order FROM levels ORDER BY display_order, name`
	if err := repo.db.SelectContext(ctx, &levels, q); err != nil {
		return nil, storeError(err, "querying levels", "level", "")
	}
	return levels, nil
}

func (repo *catalogRepository) UpsertOffering(ctx context.Context, off catalog.Offering) (catalog.Offering, error) {
	q := `
INSERT INTO subject_levels (id, subject_id, level_id, price_per_month, sessions_per_week)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (subject_id, level_id) DO UPDATE
SET price_per_month = EXCLUDED.price_per_month,
    sessions_per_week = EXCLUDED.sessions_per_week
RETURNING id`
	var id string
	err := repo.db.GetContext(ctx, &id, q, uuid.New().String(), off.SubjectID, off.LevelID, off.PricePerMonth, off.SessionsPerWeek)
	if err != nil {
		return catalog.Offering{}, storeError(err, "upserting offering", "subject", off.SubjectID)
	}
	off.ID = id
	return off, nil
}

func (repo *catalogRepository) AssignTeacher(ctx context.Context, offeringID, teacherID string) error {
	q := `
INSERT INTO teacher_subject_levels (subject_level_id, teacher_id)
VALUES ($1, $2)
ON CONFLICT (subject_level_id) DO UPDATE
SET teacher_id = EXCLUDED.teacher_id`
	if _, err := repo.db.ExecContext(ctx, q, offeringID, teacherID); err != nil {
		return storeError(err, "assigning teacher", "offering", offeringID)
	}
	return nil
}

func (repo *catalogRepository) QueryOfferings(ctx context.Context) ([]catalog.OfferingDetail, error) {
	offerings := make([]catalog.OfferingDetail, 0)
	q := offeringDetailQuery + ` ORDER BY s.name, l.display_order, sl.id`
	if err := repo.db.SelectContext(ctx, &offerings, q); err != nil {
		return nil, storeError(err, "querying offerings", "offering", "")
	}
	return offerings, nil
}

func (repo *catalogRepository) GetOffering(ctx context.Context, id string) (catalog.OfferingDetail, error) {
	var off catalog.OfferingDetail
	if err := repo.db.GetContext(ctx, &off, offeringDetailQuery+` WHERE sl.id = $1`, id); err != nil {
		return catalog.OfferingDetail{}, storeError(err, "getting offering", "offering", id)
	}
	return off, nil
}

func (repo *catalogRepository) FindOffering(ctx context.Context, subjectID, levelID string) (catalog.Offering, error) {
	var off catalog.Offering
	q := `
SELECT id, subject_id, level_id, price_per_month, sessions_per_week
FROM subject_levels
WHERE subject_id = $1 AND level_id = $2`
	if err := repo.db.GetContext(ctx, &off, q, subjectID, levelID); err != nil {
		return catalog.Offering{}, storeError(err, "finding offering", "offering", subjectID+"|"+levelID)
	}
	return off, nil
}
