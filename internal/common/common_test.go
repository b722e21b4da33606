package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestFlexID_Unmarshal(t *testing.T) {
	cases := []struct {
		in   string
		want uint64
		err  bool
	}{
		{`{"id": 12}`, 12, false},
		{`{"id": "12"}`, 12, false},
		{`{"id": " 7 "}`, 7, false},
		{`{"id": null}`, 0, false},
		{`{"id": ""}`, 0, false},
		{`{}`, 0, false},
		{`{"id": "abc"}`, 0, true},
		{`{"id": -1}`, 0, true},
	}
	for _, tc := range cases {
		var v struct {
			ID FlexID `json:"id"`
		}
		err := json.Unmarshal([]byte(tc.in), &v)
		if tc.err {
			if err == nil {
				t.Fatalf("%s: expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: %v", tc.in, err)
		}
		if uint64(v.ID) != tc.want {
			t.Fatalf("%s: got %d want %d", tc.in, v.ID, tc.want)
		}
	}
}

func TestFlexID_Or(t *testing.T) {
	if FlexID(0).Or(1) != 1 {
		t.Fatalf("expected default")
	}
	if FlexID(5).Or(1) != 5 {
		t.Fatalf("expected value")
	}
}

func TestParseID(t *testing.T) {
	if ParseID("", 1) != 1 || ParseID("x", 1) != 1 || ParseID("0", 1) != 1 {
		t.Fatalf("expected default for empty/bad/zero")
	}
	if ParseID("42", 1) != 42 {
		t.Fatalf("expected 42")
	}
}

func TestNewULID(t *testing.T) {
	a, err := NewULID()
	if err != nil {
		t.Fatalf("ulid: %v", err)
	}
	b, _ := NewULID()
	if len(a) != 26 || a == b {
		t.Fatalf("unexpected ulids %q %q", a, b)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{Invalid("Content is required"), http.StatusOK, "Content is required"},
		{fmt.Errorf("login: %w", ErrNotFound), http.StatusOK, "User not found"},
		{ErrConflict, http.StatusOK, "Email already exists"},
		{ErrInvalidCredentials, http.StatusOK, "Invalid email or password"},
		{ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{errors.New("dial tcp: connection refused"), http.StatusInternalServerError, "internal error"},
	}
	for _, tc := range cases {
		status, msg := Classify(tc.err, "User not found")
		if status != tc.status || msg != tc.msg {
			t.Fatalf("%v: got (%d, %q) want (%d, %q)", tc.err, status, msg, tc.status, tc.msg)
		}
	}
}
