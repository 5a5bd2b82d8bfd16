package sqlxrepos

import (
	"database/sql"
	"strings"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
)

const (
	pqForeignKeyViolation = "23503"
	pqInvalidText         = "22P02"
)

// fkEntities maps referencing columns to the entity they point at; longest names first.
var fkEntities = []struct {
	column string
	entity string
}{
	{"subject_level_id", "offering"},
	{"student_id", "student"},
	{"teacher_id", "teacher"},
	{"subject_id", "subject"},
	{"level_id", "level"},
}

// storeError classifies a database failure of `op` on `entity`.
// Missing rows, dangling references and malformed ids all mean the entity does not exist.
func storeError(err error, op, entity, id string) error {
	if err == nil {
		return nil
	}
	if errors.Cause(err) == sql.ErrNoRows {
		return core.NewNotFoundError(entity, id)
	}
	if pqErr, ok := errors.Cause(err).(*pq.Error); ok {
		switch pqErr.Code {
		case pqForeignKeyViolation:
			return core.NewNotFoundError(referencedEntity(pqErr.Constraint, entity), "")
		case pqInvalidText:
			return core.NewNotFoundError(entity, id)
		}
	}
	return core.NewStoreError(err, op)
}

func referencedEntity(constraint, fallback string) string {
	for _, fk := range fkEntities {
		if strings.Contains(constraint, fk.column) {
			return fk.entity
		}
	}
	return fallback
}
