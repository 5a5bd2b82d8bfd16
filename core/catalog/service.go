package catalog

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
)

type (
	Repository interface {
		CreateSubject(ctx context.Context, subj Subject) (Subject, error)
		CreateLevel(ctx context.Context, lvl Level) (Level, error)
		// QuerySubjects returns subjects ordered by name.
		QuerySubjects(ctx context.Context) ([]Subject, error)
		// QueryLevels returns levels ordered by display order.
		QueryLevels(ctx context.Context) ([]Level, error)
		// UpsertOffering inserts or reprices the offering keyed on (SubjectID, LevelID).
		UpsertOffering(ctx context.Context, off Offering) (Offering, error)
		// AssignTeacher replaces the single teacher assignment of an offering.
		AssignTeacher(ctx context.Context, offeringID, teacherID string) error
		QueryOfferings(ctx context.Context) ([]OfferingDetail, error)
		GetOffering(ctx context.Context, id string) (OfferingDetail, error)
		FindOffering(ctx context.Context, subjectID, levelID string) (Offering, error)
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

func (svc *Service) CreateSubject(ctx context.Context, ns NewSubject) (Subject, error) {
	ns.Clean()
	if err := svc.validate.Struct(ns); err != nil {
		return Subject{}, err
	}
	return svc.repo.CreateSubject(ctx, Subject{
		Name:        ns.Name,
		Description: null.NewString(ns.Description, ns.Description != ""),
	})
}

func (svc *Service) CreateLevel(ctx context.Context, nl NewLevel) (Level, error) {
	nl.Clean()
	if err := svc.validate.Struct(nl); err != nil {
		return Level{}, err
	}
	return svc.repo.CreateLevel(ctx, Level{Name: nl.Name, DisplayOrder: nl.DisplayOrder})
}

func (svc *Service) SubjectsAndLevels(ctx context.Context) (SubjectsAndLevels, error) {
	subjects, err := svc.repo.QuerySubjects(ctx)
	if err != nil {
		return SubjectsAndLevels{}, errors.Wrap(err, "querying subjects")
	}
	levels, err := svc.repo.QueryLevels(ctx)
	if err != nil {
		return SubjectsAndLevels{}, errors.Wrap(err, "querying levels")
	}
	return SubjectsAndLevels{Subjects: subjects, Levels: levels}, nil
}

// SaveOffering upserts the subject x level offering and its teacher assignment.
func (svc *Service) SaveOffering(ctx context.Context, so SaveOffering) (OfferingDetail, error) {
	so.Clean()
	if err := svc.validate.Struct(so); err != nil {
		return OfferingDetail{}, err
	}
	off, err := svc.repo.UpsertOffering(ctx, Offering{
		SubjectID:       so.SubjectID,
		LevelID:         so.LevelID,
		PricePerMonth:   so.PricePerMonth,
		SessionsPerWeek: so.SessionsPerWeek,
	})
	if err != nil {
		return OfferingDetail{}, errors.Wrap(err, "saving offering")
	}
	if so.TeacherID != "" {
		if err := svc.repo.AssignTeacher(ctx, off.ID, so.TeacherID); err != nil {
			return OfferingDetail{}, errors.Wrap(err, "assigning teacher")
		}
	}
	return svc.repo.GetOffering(ctx, off.ID)
}

func (svc *Service) AssignTeacher(ctx context.Context, offeringID, teacherID string) error {
	return svc.repo.AssignTeacher(ctx, offeringID, teacherID)
}

func (svc *Service) Offerings(ctx context.Context) ([]OfferingDetail, error) {
	return svc.repo.QueryOfferings(ctx)
}

func (svc *Service) GetOffering(ctx context.Context, id string) (OfferingDetail, error) {
	return svc.repo.GetOffering(ctx, id)
}

// ResolveOffering maps a subject x level pair to its offering id.
func (svc *Service) ResolveOffering(ctx context.Context, subjectID, levelID string) (string, error) {
	off, err := svc.repo.FindOffering(ctx, subjectID, levelID)
	if err != nil {
		return "", err
	}
	return off.ID, nil
}
