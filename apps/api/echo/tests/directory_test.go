package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/trezcool/academia/core/directory"
	"github.com/trezcool/academia/tests"
)

func TestDirectoryAPI(t *testing.T) {
	srv, app := setup(t)
	ctx := context.Background()

	math := testutil.CreateSubject(t, app.Catalog, "Math")
	l1 := testutil.CreateLevel(t, app.Catalog, "Level 1", 1)
	off := testutil.CreateOffering(t, app.Catalog, math, l1, "100", 1)
	alice := testutil.CreateStudent(t, app.Directory, "Alice", "Doe", off.ID)

	_, badTeacher := app.Directory.AddTeacher(ctx, directory.NewTeacher{
		FirstName:   "Bob",
		LastName:    "Smith",
		PaymentType: "hourly",
	})
	_, unknownOffering := app.Directory.AddStudent(ctx, directory.NewStudent{
		FirstName:   "Carol",
		LastName:    "Doe",
		OfferingIDs: []string{"nope"},
	})
	_, unknownStudent := app.Directory.GetStudent(ctx, "nope")
	enrollments, err := app.Directory.Enrollments(ctx, directory.EnrollmentFilter{OfferingID: off.ID, ActiveOnly: true})
	if err != nil {
		t.Fatalf("Enrollments() failed: %v", err)
	}

	tests := []httpTest{
		{
			name:     "invalid payment type",
			method:   http.MethodPost,
			path:     "/v1/teachers",
			body:     []byte(`{"first_name": "Bob", "last_name": "Smith", "payment_type": "hourly"}`),
			wantCode: http.StatusBadRequest,
			wantData: fieldErrors(t, app, badTeacher),
		},
		{
			name:     "student enrolled in unknown offering",
			method:   http.MethodPost,
			path:     "/v1/students",
			body:     []byte(`{"first_name": "Carol", "last_name": "Doe", "offering_ids": ["nope"]}`),
			wantCode: http.StatusNotFound,
			wantData: notFound(t, unknownOffering),
		},
		{
			name:     "retrieve student",
			method:   http.MethodGet,
			path:     "/v1/students/" + alice.ID,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, alice),
		},
		{
			name:     "retrieve unknown student",
			method:   http.MethodGet,
			path:     "/v1/students/nope",
			wantCode: http.StatusNotFound,
			wantData: notFound(t, unknownStudent),
		},
		{
			name:     "enrollments of an offering",
			method:   http.MethodGet,
			path:     "/v1/enrollments?offering_id=" + off.ID,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, enrollments),
		},
		{
			name:     "enrollments with a bad active flag",
			method:   http.MethodGet,
			path:     "/v1/enrollments?active=maybe",
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"active": "must be a boolean"}`),
		},
	}
	for _, tt := range tests {
		tt.run(t, srv)
	}

	t.Run("deactivate enrollment", func(t *testing.T) {
		enr := enrollments[0]
		enr.Active = false
		tests := []httpTest{
			{
				name:     "missing flag",
				method:   http.MethodPatch,
				path:     "/v1/enrollments/" + enr.ID,
				body:     []byte(`{}`),
				wantCode: http.StatusBadRequest,
				wantData: []byte(`{"active": "this field is required"}`),
			},
			{
				name:     "unknown enrollment",
				method:   http.MethodPatch,
				path:     "/v1/enrollments/nope",
				body:     []byte(`{"active": false}`),
				wantCode: http.StatusNotFound,
				wantData: []byte(`{"error": "enrollment \"nope\" not found"}`),
			},
			{
				name:     "deactivate",
				method:   http.MethodPatch,
				path:     "/v1/enrollments/" + enr.ID,
				body:     []byte(`{"active": false}`),
				wantCode: http.StatusOK,
				wantData: marchallObj(t, enr.Enrollment),
			},
			{
				name:     "left out of active enrollments",
				method:   http.MethodGet,
				path:     "/v1/enrollments?offering_id=" + off.ID,
				wantCode: http.StatusOK,
				wantData: []byte(`[]`),
			},
			{
				name:     "still listed with inactive ones",
				method:   http.MethodGet,
				path:     "/v1/enrollments?offering_id=" + off.ID + "&active=false",
				wantCode: http.StatusOK,
				wantData: marchallObj(t, []interface{}{enr}),
			},
		}
		for _, tt := range tests {
			tt.run(t, srv)
		}

		_, err := app.Directory.SetEnrollmentActive(ctx, enr.ID, true)
		if err != nil {
			t.Fatalf("SetEnrollmentActive() failed: %v", err)
		}
	})

	t.Run("create teacher assigned to an offering", func(t *testing.T) {
		body := []byte(`{"first_name": " Bob ", "last_name": "Smith", "payment_type": "Fixed", ` +
			`"payment_value": "300", "offering_ids": ["` + off.ID + `"]}`)
		req, rec := newRequest(http.MethodPost, "/v1/teachers", body)
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create teacher code = %v; body %s", rec.Code, rec.Body.String())
		}

		offering, err := app.Catalog.GetOffering(ctx, off.ID)
		if err != nil {
			t.Fatalf("GetOffering() failed: %v", err)
		}
		if got := offering.TeacherName.String; got != "Bob Smith" {
			t.Errorf("offering teacher = %q; want %q", got, "Bob Smith")
		}

		teachers, err := app.Directory.Teachers(ctx)
		if err != nil {
			t.Fatalf("Teachers() failed: %v", err)
		}
		req, rec = newRequest(http.MethodGet, "/v1/teachers")
		srv.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, teachers)}, rec)
	})

	t.Run("create student", func(t *testing.T) {
		body := []byte(`{"first_name": "Dan", "last_name": "Doe", "parent_email": "PARENT@example.com", ` +
			`"offering_ids": ["` + off.ID + `"]}`)
		req, rec := newRequest(http.MethodPost, "/v1/students", body)
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create student code = %v; body %s", rec.Code, rec.Body.String())
		}

		students, err := app.Directory.Students(ctx)
		if err != nil {
			t.Fatalf("Students() failed: %v", err)
		}
		if len(students) != 2 {
			t.Fatalf("students = %+v; want 2", students)
		}
		req, rec = newRequest(http.MethodGet, "/v1/students")
		srv.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, students)}, rec)
	})
}
