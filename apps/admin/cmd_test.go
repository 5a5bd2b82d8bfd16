package main

import (
	"bytes"
	"context"
	"database/sql"
	"io/fs"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/storage/database"
	inmemdb "github.com/trezcool/academia/storage/database/inmem"
	"github.com/trezcool/academia/tests"
)

func setup(t *testing.T) (*commandLine, *testutil.App, *bytes.Buffer) {
	logger = log.New(&bytes.Buffer{}, "", 0)
	app := testutil.NewApp(t)

	var out bytes.Buffer
	cli := &commandLine{
		conf: app.Conf,
		out:  &out,
		store: &database.Store{
			Catalog:    inmemdb.NewCatalogRepository(app.DB),
			Directory:  inmemdb.NewDirectoryRepository(app.DB),
			Attendance: inmemdb.NewAttendanceRepository(app.DB),
			Payment:    inmemdb.NewPaymentRepository(app.DB),
		},
	}
	return cli, app, &out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	wantOut    string
}

func (tt cliTest) check(t *testing.T, cli *commandLine, out *bytes.Buffer) {
	t.Helper()
	out.Reset()
	args := append([]string{"admin"}, tt.args...)
	err := cli.run(args)
	switch {
	case tt.wantErr != nil:
		if err != tt.wantErr {
			t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
		}
	case tt.wantErrStr != "":
		if err == nil || err.Error() != tt.wantErrStr {
			t.Errorf("cli.run() error = %v, wantErrStr %s", err, tt.wantErrStr)
		}
	case err != nil:
		t.Errorf("cli.run() unexpected error = %v", err)
	}
	if tt.wantOut != "" && !strings.Contains(out.String(), tt.wantOut) {
		t.Errorf("cli.run() out = %q, want it to contain %q", out.String(), tt.wantOut)
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _, out := setup(t)
	cli.db = &sql.DB{}

	var calls []string
	record := func(name string) func(*sql.DB, fs.FS, string) error {
		return func(db *sql.DB, fsys fs.FS, dir string) error {
			calls = append(calls, name+" "+dir)
			return nil
		}
	}
	recordTo := func(name string) func(*sql.DB, fs.FS, string, int64) error {
		return func(db *sql.DB, fsys fs.FS, dir string, version int64) error {
			calls = append(calls, name+" "+dir)
			return nil
		}
	}
	gooseUpFunc = record("up")
	gooseUpByOneFunc = record("up-by-one")
	gooseUpToFunc = recordTo("up-to")
	gooseDownFunc = record("down")
	gooseDownToFunc = recordTo("down-to")
	gooseRedoFunc = record("redo")

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: migrate up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: migrate down-to VERSION"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, cli, out)
		})
	}

	assert.Equal(t, []string{
		"up migrations", "up-by-one migrations", "up-to migrations",
		"down migrations", "down-to migrations", "redo migrations",
	}, calls)
}

func Test_commandLine_migrateNeedsPostgres(t *testing.T) {
	cli, _, out := setup(t)
	cliTest{
		args:       []string{"migrate", "up"},
		wantErrStr: `migrations need the postgres storage (got "memory")`,
	}.check(t, cli, out)
}

func Test_commandLine_alerts(t *testing.T) {
	cli, app, out := setup(t)
	testutil.FreezeTime(t, time.Date(2024, time.March, 20, 15, 30, 0, 0, time.UTC))

	cliTest{args: []string{"alerts"}, wantOut: "no payment due"}.check(t, cli, out)

	math := testutil.CreateSubject(t, app.Catalog, "Math")
	l1 := testutil.CreateLevel(t, app.Catalog, "Level 1", 1)
	off := testutil.CreateOffering(t, app.Catalog, math, l1, "100", 1)
	tchr := testutil.CreateTeacher(t, app.Directory, "Tom", "Teach", off.ID)
	alice := testutil.CreateStudent(t, app.Directory, "Alice", "Doe", off.ID)
	testutil.MarkPresent(t, app, off, tchr.ID, alice.ID, testutil.Date(t, "2024-03-01"), 4)

	cliTest{args: []string{"alerts"}, wantOut: "Alice Doe"}.check(t, cli, out)
	assert.Contains(t, out.String(), "100.00")
}

func Test_commandLine_recordPayment(t *testing.T) {
	cli, app, out := setup(t)
	testutil.FreezeTime(t, time.Date(2024, time.March, 20, 15, 30, 0, 0, time.UTC))

	math := testutil.CreateSubject(t, app.Catalog, "Math")
	l1 := testutil.CreateLevel(t, app.Catalog, "Level 1", 1)
	off := testutil.CreateOffering(t, app.Catalog, math, l1, "100", 1)
	alice := testutil.CreateStudent(t, app.Directory, "Alice", "Doe", off.ID)

	tests := []cliTest{
		{name: "no args", args: []string{"recordpayment"}, wantErr: errHelp},
		{name: "no amount", args: []string{"recordpayment", "-student", alice.ID, "-offering", off.ID}, wantErr: errHelp},
		{
			name:       "bad amount",
			args:       []string{"recordpayment", "-student", alice.ID, "-offering", off.ID, "-amount", "lol"},
			wantErrStr: "amount must be a number (got 'lol')",
		},
		{
			name:       "bad date",
			args:       []string{"recordpayment", "-student", alice.ID, "-offering", off.ID, "-amount", "100", "-date", "20/03/2024"},
			wantErrStr: "date must be formatted as YYYY-MM-DD (got '20/03/2024')",
		},
		{
			name:    "defaults to the current month",
			args:    []string{"recordpayment", "-student", alice.ID, "-offering", off.ID, "-amount", "100"},
			wantOut: "recorded for 2024-03",
		},
		{
			name:    "explicit month",
			args:    []string{"recordpayment", "-student", alice.ID, "-offering", off.ID, "-amount", "80", "-date", "2024-03-02", "-month", "2024-02"},
			wantOut: "recorded for 2024-02",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, cli, out)
		})
	}

	t.Run("invalid month", func(t *testing.T) {
		out.Reset()
		err := cli.run([]string{"admin", "recordpayment", "-student", alice.ID, "-offering", off.ID, "-amount", "80", "-month", "2024-2"})
		require.Error(t, err)
		assert.Equal(t, core.KindValidation, core.KindOf(err))
	})

	payments, err := app.Payment.StudentPayments(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, "2024-03", payments[0].MonthPaidFor)
	assert.True(t, decimal.NewFromInt(100).Equal(payments[0].Amount))
	assert.Equal(t, testutil.Date(t, "2024-03-20"), payments[0].PaymentDate)
	assert.Equal(t, "2024-02", payments[1].MonthPaidFor)
}
