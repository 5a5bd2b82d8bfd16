package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/academia/apps/api/echo"
	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/tests"
)

func setup(t *testing.T) (*echoapi.Server, *testutil.App) {
	app := testutil.NewApp(t)
	srv := echoapi.NewServer(echoapi.Deps{
		Conf:           app.Conf,
		Logger:         app.Logger,
		Translator:     app.Translator,
		DisableReqLogs: true,
		Catalog:        app.Catalog,
		Directory:      app.Directory,
		Attendance:     app.Attendance,
		Payment:        app.Payment,
	})
	return srv, app
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
}

func (tt httpTest) run(t *testing.T, srv http.Handler) {
	t.Run(tt.name, func(t *testing.T) {
		req, rec := newRequest(tt.method, tt.path, tt.body)
		srv.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

// fieldErrors renders the validation failure of `err` the way the API does.
func fieldErrors(t *testing.T, app *testutil.App, err error) []byte {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("fieldErrors() got %v; want validator.ValidationErrors", err)
	}
	return marchallObj(t, core.TranslateErrors(app.Translator, verrs))
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	if _, ok := j1.([]interface{}); !ok {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

// notFound renders the not-found failure of `err` the way the API does.
func notFound(t *testing.T, err error) []byte {
	var nfErr *core.NotFoundError
	if !errors.As(err, &nfErr) {
		t.Fatalf("notFound() got %v; want *core.NotFoundError", err)
	}
	return marchallObj(t, httpErr{Error: nfErr.Error()})
}
