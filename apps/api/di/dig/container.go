package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/academia/apps/api/echo"
	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/attendance"
	"github.com/trezcool/academia/core/catalog"
	"github.com/trezcool/academia/core/directory"
	"github.com/trezcool/academia/core/payment"
	logsvc "github.com/trezcool/academia/services/logger"
	"github.com/trezcool/academia/storage/database"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

type serverParams struct {
	dig.In

	Conf       *core.Config
	Logger     core.Logger
	Translator ut.Translator
	Catalog    echoapi.CatalogService
	Directory  echoapi.DirectoryService
	Attendance echoapi.AttendanceService
	Payment    echoapi.PaymentService
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newStore(conf *core.Config, loggerParam DBLoggerParam) database.Store {
	store, err := database.NewStore(context.Background(), conf)
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up %s storage: %v", conf.Storage, err), err)
	}
	return store
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	catalog.InitValidators(validate, translator)
	directory.InitValidators(validate, translator)
	attendance.InitValidators(validate, translator)
	payment.InitValidators(validate, translator)
	return validate
}

func newServer(p serverParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.Deps{
		Conf:       p.Conf,
		Logger:     p.Logger,
		Translator: p.Translator,
		Catalog:    p.Catalog,
		Directory:  p.Directory,
		Attendance: p.Attendance,
		Payment:    p.Payment,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newStore))
	must(c.Provide(func(s database.Store) catalog.Repository { return s.Catalog }))
	must(c.Provide(func(s database.Store) directory.Repository { return s.Directory }))
	must(c.Provide(func(s database.Store) attendance.Repository { return s.Attendance }))
	must(c.Provide(func(s database.Store) payment.Repository { return s.Payment }))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(
		catalog.NewService,
		dig.As(new(echoapi.CatalogService), new(directory.Catalog), new(attendance.Catalog)),
	))
	must(c.Provide(
		directory.NewService,
		dig.As(new(echoapi.DirectoryService), new(attendance.Directory), new(payment.Directory)),
	))
	must(c.Provide(
		attendance.NewService,
		dig.As(new(echoapi.AttendanceService), new(payment.Attendance)),
	))
	must(c.Provide(payment.NewService, dig.As(new(echoapi.PaymentService))))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
