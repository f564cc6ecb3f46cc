package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trezcool/shule/core/academics"
	"github.com/trezcool/shule/core/user"
)

type (
	classResp struct {
		Class academics.Class `json:"class"`
	}
	classListResp struct {
		Classes []academics.ClassDetail `json:"classes"`
	}
)

func Test_classApi_addClass(t *testing.T) {
	resetDB(t)

	student := createUser(t, "Hero", "hero", "hero@test.cd", "", user.RoleStudent)
	admin := createUser(t, "Admin", "admin", "admin@test.cd", "", user.RoleAdmin)
	adminToken := getToken(t, admin)

	school := primitive.NewObjectID()

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errMissingToken)},
		{name: "Admin required", token: getToken(t, student), wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errUnauthorized)},
		{
			name: "className required", token: adminToken,
			body:     marshalObj(t, academics.NewClass{School: school.Hex()}),
			wantCode: http.StatusBadRequest, wantData: marshalObj(t, httpErr{Error: "className is required"}),
		},
		{
			name: "school required", token: adminToken,
			body:     marshalObj(t, academics.NewClass{ClassName: "Grade 7"}),
			wantCode: http.StatusBadRequest, wantData: marshalObj(t, httpErr{Error: "school is required"}),
		},
		{
			name: "malformed school ref", token: adminToken,
			body:     marshalObj(t, academics.NewClass{ClassName: "Grade 7", School: "not-an-id"}),
			wantCode: http.StatusBadRequest, wantData: marshalObj(t, httpErr{Error: "school is invalid"}),
		},
		{
			name: "malformed student ref", token: adminToken,
			body:     marshalObj(t, academics.NewClass{ClassName: "Grade 7", School: school.Hex(), Students: []string{"lol"}}),
			wantCode: http.StatusBadRequest, wantData: marshalObj(t, httpErr{Error: "students is invalid"}),
		},
		{
			name: "Class created", token: adminToken,
			body:     marshalObj(t, academics.NewClass{ClassName: "Grade 7", School: school.Hex()}),
			wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/classes/addClass"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusCreated {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				var respData classResp
				if err := json.Unmarshal(rec.Body.Bytes(), &respData); err != nil {
					t.Fatalf("json.Unmarshal() failed! err %v", err)
				}
				if respData.Class.ID.IsZero() {
					t.Error("failed! zero class id")
				}
				if respData.Class.ClassName != "Grade 7" {
					t.Errorf("failed! className = %q", respData.Class.ClassName)
				}
				if respData.Class.School != school {
					t.Errorf("failed! school = %v; want %v", respData.Class.School, school)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_classApi_getAllClasses(t *testing.T) {
	resetDB(t)

	student := createUser(t, "Hero", "hero", "hero@test.cd", "", user.RoleStudent)
	studentToken := getToken(t, student)

	req, rec := newAuthRequest(http.MethodGet, "/v1/classes/getAllClasses", studentToken)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marshalObj(t, classListResp{Classes: []academics.ClassDetail{}})}, rec)

	sch := createSchool(t, "Lincoln High")
	std := createStudent(t, "Marty McFly", primitive.NilObjectID, sch.ID)
	cls := createClass(t, "Grade 7", sch.ID, std.ID, primitive.NewObjectID() /* dangling */)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errMissingToken)},
		{
			// both refs populate; the dangling student ref is skipped
			name: "Get all", token: studentToken, wantCode: http.StatusOK,
			wantData: marshalObj(t, classListResp{Classes: []academics.ClassDetail{
				{ID: cls.ID, ClassName: "Grade 7", School: &sch, Students: []academics.Student{std}},
			}}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		tt.path = "/v1/classes/getAllClasses"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_classApi_assignStudentsToClass(t *testing.T) {
	resetDB(t)

	student := createUser(t, "Hero", "hero", "hero@test.cd", "", user.RoleStudent)
	admin := createUser(t, "Admin", "admin", "admin@test.cd", "", user.RoleAdmin)
	adminToken := getToken(t, admin)

	s1, s2, s3 := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	sch := primitive.NewObjectID()
	cls := createClass(t, "Grade 7", sch)
	path := "/v1/classes/assignStudentsToClass/" + cls.ID.Hex()

	tests := []httpTest{
		{name: "Auth required", path: path, wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errMissingToken)},
		{name: "Admin required", path: path, token: getToken(t, student), wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errUnauthorized)},
		{
			name: "Malformed id", path: "/v1/classes/assignStudentsToClass/not-an-id", token: adminToken,
			body:     marshalObj(t, academics.AssignStudents{Students: []string{s1.Hex()}}),
			wantCode: http.StatusBadRequest, wantData: marshalObj(t, httpErr{Error: "invalid class id"}),
		},
		{
			name: "Not found", path: "/v1/classes/assignStudentsToClass/" + primitive.NewObjectID().Hex(), token: adminToken,
			body:     marshalObj(t, academics.AssignStudents{Students: []string{s1.Hex()}}),
			wantCode: http.StatusNotFound, wantData: marshalObj(t, httpErr{Error: "class not found"}),
		},
		{
			name: "students required", path: path, token: adminToken, body: marshalObj(t, academics.AssignStudents{}),
			wantCode: http.StatusBadRequest, wantData: marshalObj(t, httpErr{Error: "students is required"}),
		},
		{
			name: "First assignment", path: path, token: adminToken,
			body:     marshalObj(t, academics.AssignStudents{Students: []string{s1.Hex(), s2.Hex()}}),
			wantCode: http.StatusOK,
			wantData: marshalObj(t, classResp{Class: academics.Class{ID: cls.ID, ClassName: "Grade 7", School: sch, Students: []primitive.ObjectID{s1, s2}}}),
		},
		{
			name: "Overlapping assignment", path: path, token: adminToken,
			body:     marshalObj(t, academics.AssignStudents{Students: []string{s2.Hex(), s3.Hex()}}),
			wantCode: http.StatusOK,
			wantData: marshalObj(t, classResp{Class: academics.Class{ID: cls.ID, ClassName: "Grade 7", School: sch, Students: []primitive.ObjectID{s1, s2, s3}}}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPut

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_classApi_deleteClass(t *testing.T) {
	resetDB(t)

	student := createUser(t, "Hero", "hero", "hero@test.cd", "", user.RoleStudent)
	admin := createUser(t, "Admin", "admin", "admin@test.cd", "", user.RoleAdmin)
	adminToken := getToken(t, admin)

	cls := createClass(t, "Grade 7", primitive.NewObjectID())
	path := "/v1/classes/deleteClass/" + cls.ID.Hex()

	tests := []httpTest{
		{name: "Auth required", path: path, wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errMissingToken)},
		{name: "Admin required", path: path, token: getToken(t, student), wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errUnauthorized)},
		{
			name: "Malformed id", path: "/v1/classes/deleteClass/not-an-id", token: adminToken,
			wantCode: http.StatusBadRequest, wantData: marshalObj(t, httpErr{Error: "invalid class id"}),
		},
		{
			name: "Not found", path: "/v1/classes/deleteClass/" + primitive.NewObjectID().Hex(), token: adminToken,
			wantCode: http.StatusNotFound, wantData: marshalObj(t, httpErr{Error: "class not found"}),
		},
		{
			name: "Class deleted", path: path, token: adminToken,
			wantCode: http.StatusOK, wantData: marshalObj(t, httpMsg{Message: "class deleted"}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodDelete

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
