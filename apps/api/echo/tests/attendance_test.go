package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/trezcool/academia/core/attendance"
	"github.com/trezcool/academia/tests"
)

func TestAttendanceAPI(t *testing.T) {
	srv, app := setup(t)
	ctx := context.Background()

	math := testutil.CreateSubject(t, app.Catalog, "Math")
	l1 := testutil.CreateLevel(t, app.Catalog, "Level 1", 1)
	off := testutil.CreateOffering(t, app.Catalog, math, l1, "100", 1)
	t1 := testutil.CreateTeacher(t, app.Directory, "Tom", "Teach", off.ID)
	t2 := testutil.CreateTeacher(t, app.Directory, "Rita", "Relief")
	alice := testutil.CreateStudent(t, app.Directory, "Alice", "Doe", off.ID)
	bob := testutil.CreateStudent(t, app.Directory, "Bob", "Roe", off.ID)

	noReplacement := app.Attendance.RecordSession(ctx, attendance.NewSession{
		OfferingID: off.ID,
		Date:       testutil.Date(t, "2024-03-04"),
		TeacherID:  t1.ID,
	})

	t.Run("record session with a replacement", func(t *testing.T) {
		body := []byte(`{"offering_id": "` + off.ID + `", "date": "2024-03-04", "teacher_id": "` + t1.ID +
			`", "teacher_present": false, "replacement_teacher_id": "` + t2.ID + `", "students": [` +
			`{"student_id": "` + alice.ID + `", "present": true}, {"student_id": "` + bob.ID + `", "present": false}]}`)
		req, rec := newRequest(http.MethodPost, "/v1/attendance/sessions", body)
		srv.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusCreated,
			wantData: []byte(`{"success": "attendance recorded"}`),
		}, rec)

		records, err := app.Attendance.Query(ctx, attendance.QueryFilter{OfferingID: off.ID})
		if err != nil {
			t.Fatalf("Query() failed: %v", err)
		}
		if len(records.TeacherAttendance) != 2 || len(records.StudentAttendance) != 2 {
			t.Fatalf("records = %+v; want 2 teacher and 2 student rows", records)
		}
	})

	t.Run("record session with an RFC3339 date", func(t *testing.T) {
		body := []byte(`{"offering_id": "` + off.ID + `", "date": "2024-03-05T18:45:00Z", "teacher_id": "` + t1.ID +
			`", "teacher_present": true, "students": [{"student_id": "` + alice.ID + `", "present": true}]}`)
		req, rec := newRequest(http.MethodPost, "/v1/attendance/sessions", body)
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}

		n, err := app.Attendance.CountPresent(ctx, alice.ID, off.ID, testutil.Date(t, "2024-03-05"), testutil.Date(t, "2024-03-05"))
		if err != nil {
			t.Fatalf("CountPresent() failed: %v", err)
		}
		if n != 1 {
			t.Errorf("CountPresent() = %v; want 1", n)
		}
	})

	march, err := app.Attendance.Query(ctx, attendance.QueryFilter{
		DateFrom: testutil.Date(t, "2024-03-01"),
		DateTo:   testutil.Date(t, "2024-03-31"),
		Search:   "doe",
	})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	roster, err := app.Attendance.SessionRoster(ctx, math.ID, l1.ID)
	if err != nil {
		t.Fatalf("SessionRoster() failed: %v", err)
	}

	tests := []httpTest{
		{
			name:     "absent teacher without replacement",
			method:   http.MethodPost,
			path:     "/v1/attendance/sessions",
			body:     []byte(`{"offering_id": "` + off.ID + `", "date": "2024-03-04", "teacher_id": "` + t1.ID + `"}`),
			wantCode: http.StatusBadRequest,
			wantData: fieldErrors(t, app, noReplacement),
		},
		{
			name:     "bad session date",
			method:   http.MethodPost,
			path:     "/v1/attendance/sessions",
			body:     []byte(`{"offering_id": "` + off.ID + `", "date": "04/03/2024", "teacher_id": "` + t1.ID + `"}`),
			wantCode: http.StatusBadRequest,
			wantData: nil,
		},
		{
			name:     "query with search",
			method:   http.MethodGet,
			path:     "/v1/attendance?date_from=2024-03-01&date_to=2024-03-31&search=doe",
			wantCode: http.StatusOK,
			wantData: marchallObj(t, march),
		},
		{
			name:     "query with bad dates",
			method:   http.MethodGet,
			path:     "/v1/attendance?date_from=yesterday&date_to=2024-13-01",
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"date_from": "must be a date formatted as YYYY-MM-DD", "date_to": "must be a date formatted as YYYY-MM-DD"}`),
		},
		{
			name:     "roster",
			method:   http.MethodGet,
			path:     "/v1/attendance/roster?subject_id=" + math.ID + "&level_id=" + l1.ID,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, roster),
		},
		{
			name:     "roster without level",
			method:   http.MethodGet,
			path:     "/v1/attendance/roster?subject_id=" + math.ID,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"level_id": "this field is required"}`),
		},
	}
	for _, tt := range tests {
		if tt.wantData == nil {
			t.Run(tt.name, func(t *testing.T) {
				req, rec := newRequest(tt.method, tt.path, tt.body)
				srv.ServeHTTP(rec, req)
				if rec.Code != tt.wantCode {
					t.Errorf("code = %v; want %v", rec.Code, tt.wantCode)
				}
			})
			continue
		}
		tt.run(t, srv)
	}
}
