// Package sqlxrepos implements the domain repositories on postgres with sqlx.
package sqlxrepos

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/academia/core"
)

// selectNamed binds `:name` parameters from `args` and selects into `dest`.
func selectNamed(ctx context.Context, db core.DBExecutor, dest interface{}, query string, args map[string]interface{}) error {
	q, params, err := db.BindNamed(query, args)
	if err != nil {
		return err
	}
	return db.SelectContext(ctx, dest, q, params...)
}

// matchesNothing reports whether one of the id filters can never match a uuid column.
func matchesNothing(ids ...string) bool {
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, err := uuid.Parse(id); err != nil {
			return true
		}
	}
	return false
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern is the ILIKE pattern matching `s` literally anywhere.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
