package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/attendance"
	"github.com/trezcool/academia/core/catalog"
	"github.com/trezcool/academia/core/directory"
	"github.com/trezcool/academia/core/payment"
	logsvc "github.com/trezcool/academia/services/logger"
	"github.com/trezcool/academia/storage/database"
)

var (
	newStoreFunc = database.NewStore // mockable
	openDBFunc   = openDB            // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf *core.Config
	out  io.Writer

	db    *sql.DB
	store *database.Store
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate up|up-by-one|up-to VERSION|down|down-to VERSION|redo - migrate the postgres database")
	fmt.Fprintln(cli.out, "  alerts - list the enrollments whose current month is due")
	fmt.Fprintln(cli.out, "  recordpayment -student ID -offering ID -amount AMOUNT [-date YYYY-MM-DD] [-month YYYY-MM] - record a monthly payment")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	recordPaymentCmd := flag.NewFlagSet("recordpayment", flag.ContinueOnError)
	recordPaymentCmd.SetOutput(cli.out)
	rpStudent := recordPaymentCmd.String("student", "", "The paying student's id.")
	rpOffering := recordPaymentCmd.String("offering", "", "The paid offering's id.")
	rpAmount := recordPaymentCmd.String("amount", "", "The paid amount.")
	rpDate := recordPaymentCmd.String("date", "", "The payment date (YYYY-MM-DD). Defaults to today.")
	rpMonth := recordPaymentCmd.String("month", "", "The month paid for (YYYY-MM). Defaults to the current month.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "alerts":
		return cli.alerts()
	case "recordpayment":
		if err := recordPaymentCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *rpStudent == "" || *rpOffering == "" || *rpAmount == "" {
			recordPaymentCmd.Usage()
			return errHelp
		}
		return cli.recordPayment(*rpStudent, *rpOffering, *rpAmount, *rpDate, *rpMonth)
	default:
		cli.printUsage()
		return errHelp
	}
}

func openDB(ctx context.Context, conf *core.Config) (*sql.DB, error) {
	if err := database.CreateIfNotExist(ctx, conf); err != nil {
		return nil, err
	}
	db, err := database.Open(ctx, conf)
	if err != nil {
		return nil, err
	}
	return db.DB, nil
}

// sqlDB opens the raw connection used by migrations.
func (cli *commandLine) sqlDB() (*sql.DB, error) {
	if cli.db != nil {
		return cli.db, nil
	}
	if cli.conf.Storage != core.StoragePostgres {
		return nil, fmt.Errorf("migrations need the %s storage (got %q)", core.StoragePostgres, cli.conf.Storage)
	}
	db, err := openDBFunc(context.Background(), cli.conf)
	if err != nil {
		return nil, err
	}
	cli.db = db
	return db, nil
}

func (cli *commandLine) paymentService() (*payment.Service, error) {
	if cli.store == nil {
		store, err := newStoreFunc(context.Background(), cli.conf)
		if err != nil {
			return nil, err
		}
		cli.store = &store
	}

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	payment.InitValidators(validate, translator)

	catSvc := catalog.NewService(cli.store.Catalog, validate)
	dirSvc := directory.NewService(cli.store.Directory, catSvc, validate)
	attSvc := attendance.NewService(cli.store.Attendance, catSvc, dirSvc, validate)
	return payment.NewService(cli.store.Payment, dirSvc, attSvc, validate, logsvc.NewNopLogger(), cli.conf), nil
}

func (cli *commandLine) close() {
	if cli.store != nil {
		if err := cli.store.Close(); err != nil {
			logger.Printf("closing storage: %v", err)
		}
	}
	if cli.db != nil {
		if err := cli.db.Close(); err != nil {
			logger.Printf("closing database: %v", err)
		}
	}
}
