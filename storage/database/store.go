package database

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/attendance"
	"github.com/trezcool/academia/core/catalog"
	"github.com/trezcool/academia/core/directory"
	"github.com/trezcool/academia/core/payment"
	inmemdb "github.com/trezcool/academia/storage/database/inmem"
	sqlxrepos "github.com/trezcool/academia/storage/database/sqlx"
)

// Store groups the repositories of one storage backend.
type Store struct {
	Catalog    catalog.Repository
	Directory  directory.Repository
	Attendance attendance.Repository
	Payment    payment.Repository

	close func() error
}

func (s Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// NewStore opens the backend selected by conf.Storage.
// The postgres backend is created and migrated first when needed.
func NewStore(ctx context.Context, conf *core.Config) (Store, error) {
	switch conf.Storage {
	case core.StorageMemory:
		db := inmemdb.NewDB()
		return Store{
			Catalog:    inmemdb.NewCatalogRepository(db),
			Directory:  inmemdb.NewDirectoryRepository(db),
			Attendance: inmemdb.NewAttendanceRepository(db),
			Payment:    inmemdb.NewPaymentRepository(db),
		}, nil

	case core.StoragePostgres:
		if err := CreateIfNotExist(ctx, conf); err != nil {
			return Store{}, err
		}
		db, err := Open(ctx, conf)
		if err != nil {
			return Store{}, err
		}
		if err = Migrate(db.DB); err != nil {
			_ = db.Close()
			return Store{}, err
		}
		return Store{
			Catalog:    sqlxrepos.NewCatalogRepository(db),
			Directory:  sqlxrepos.NewDirectoryRepository(db),
			Attendance: sqlxrepos.NewAttendanceRepository(db),
			Payment:    sqlxrepos.NewPaymentRepository(db),
			close:      db.Close,
		}, nil

	default:
		return Store{}, errors.Errorf("unknown storage %q", conf.Storage)
	}
}
