package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/catalog"
)

func TestNewStore(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		store, err := NewStore(context.Background(), &core.Config{Storage: core.StorageMemory})
		require.NoError(t, err)
		defer func() { assert.NoError(t, store.Close()) }()

		subj, err := store.Catalog.CreateSubject(context.Background(), catalog.Subject{Name: "Math"})
		require.NoError(t, err)
		subjects, err := store.Catalog.QuerySubjects(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []catalog.Subject{subj}, subjects)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := NewStore(context.Background(), &core.Config{Storage: "mongo"})
		assert.EqualError(t, err, `unknown storage "mongo"`)
	})
}
