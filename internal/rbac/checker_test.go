package rbac_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/klexam/portal/internal/rbac"
)

func TestRolePermissions(t *testing.T) {
	c := rbac.NewChecker(nil)

	cases := []struct {
		role, perm string
		want       bool
	}{
		{"student", "quiz:take", true},
		{"student", "quiz:history", true},
		{"student", "set:generate", false},
		{"student", "set:history", false},
		{"admin", "set:generate", true},
		{"admin", "set:history", true},
		{"admin", "quiz:take", true},
		{"nobody", "quiz:take", false},
		{"", "quiz:take", false},
	}
	for _, tc := range cases {
		if got := c.Has(tc.role, tc.perm); got != tc.want {
			t.Fatalf("Has(%q,%q) = %v, want %v", tc.role, tc.perm, got, tc.want)
		}
	}
}

func TestWildcardPermissions(t *testing.T) {
	c := rbac.NewChecker(map[string][]string{
		"root":   {"*"},
		"grader": {"quiz:*"},
	})
	if !c.Has("root", "anything:at-all") {
		t.Fatal("star role denied")
	}
	if !c.Has("grader", "quiz:take") || c.Has("grader", "set:generate") {
		t.Fatal("prefix wildcard mismatch")
	}
	if !c.Any("grader", "set:generate", "quiz:history") {
		t.Fatal("Any missed a granted permission")
	}
}

func TestRequireMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	h := rbac.Require("set:generate")(next)

	req := httptest.NewRequest("POST", "/sets", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req.WithContext(rbac.WithRole(req.Context(), "student")))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("student status = %d, want 403", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req.WithContext(rbac.WithRole(req.Context(), "admin")))
	if rec.Code != 200 {
		t.Fatalf("admin status = %d, want 200", rec.Code)
	}

	// No role in context behaves like an unknown role.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("roleless status = %d, want 403", rec.Code)
	}
}

func TestSubjectContextRoundTrip(t *testing.T) {
	ctx := rbac.WithSubject(rbac.WithRole(httptest.NewRequest("GET", "/", nil).Context(), "admin"), "1277")
	if rbac.RoleFromContext(ctx) != "admin" || rbac.SubjectFromContext(ctx) != "1277" {
		t.Fatal("context round trip lost values")
	}
}
