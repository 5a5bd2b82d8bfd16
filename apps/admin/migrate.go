package main

import (
	"fmt"
	"strconv"

	"github.com/trezcool/goose"

	"github.com/trezcool/academia/fs"
	"github.com/trezcool/academia/storage/database"
)

// mockable
var (
	gooseUpFunc      = goose.Up
	gooseUpByOneFunc = goose.UpByOne
	gooseUpToFunc    = goose.UpTo
	gooseDownFunc    = goose.Down
	gooseDownToFunc  = goose.DownTo
	gooseRedoFunc    = goose.Redo
)

func parseVersion(command string, args []string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%s must be of form: migrate %s VERSION", command, command)
	}
	version, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("version must be a number (got '%s')", args[0])
	}
	return version, nil
}

func (cli *commandLine) migrate(args []string) error {
	command := args[0]
	var version int64
	switch command {
	case "up", "up-by-one", "down", "redo":
	case "up-to", "down-to":
		v, err := parseVersion(command, args[1:])
		if err != nil {
			return err
		}
		version = v
	default:
		return fmt.Errorf("%q: no such command", command)
	}

	db, err := cli.sqlDB()
	if err != nil {
		return err
	}

	switch command {
	case "up":
		return gooseUpFunc(db, appfs.FS, database.MigrationsDir)
	case "up-by-one":
		return gooseUpByOneFunc(db, appfs.FS, database.MigrationsDir)
	case "up-to":
		return gooseUpToFunc(db, appfs.FS, database.MigrationsDir, version)
	case "down":
		return gooseDownFunc(db, appfs.FS, database.MigrationsDir)
	case "down-to":
		return gooseDownToFunc(db, appfs.FS, database.MigrationsDir, version)
	default: // redo
		return gooseRedoFunc(db, appfs.FS, database.MigrationsDir)
	}
}
