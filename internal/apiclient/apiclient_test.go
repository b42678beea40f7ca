package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestListUsers(t *testing.T) {
	var gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/users" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotToken = r.Header.Get("token")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"local":"alice"},{"local":"bob"},{"local":""}]`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, "secret")
	if err != nil {
		t.Fatal(err)
	}

	users, err := c.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 2 || users[0] != "alice" || users[1] != "bob" {
		t.Errorf("unexpected users %v", users)
	}
	if gotToken != "secret" {
		t.Errorf("credential not attached, got %q", gotToken)
	}
}

func TestListUsers_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, err := New(srv.URL, "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.ListUsers(context.Background()); err == nil {
		t.Error("expected error for 500 response")
	}
}

func TestLogout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/logout" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if c, err := r.Cookie("token"); err != nil || c.Value != "secret" {
			t.Error("session cookie not attached")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, "secret")
	if err != nil {
		t.Fatal(err)
	}

	ok, err := c.Logout(context.Background())
	if err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if !ok {
		t.Error("expected success")
	}
}

func TestLogout_Unsuccessful(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, "")
	if err != nil {
		t.Fatal(err)
	}

	ok, err := c.Logout(context.Background())
	if err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if ok {
		t.Error("expected success=false")
	}
}
