package store

import "testing"

func TestEnsureSession(t *testing.T) {
	doc := NewDocument()

	sess := doc.EnsureSession("abc", "198.51.100.7")
	if sess.Count != 0 {
		t.Errorf("new session count = %d, want 0", sess.Count)
	}
	if sess.IP != "198.51.100.7" {
		t.Errorf("new session IP = %q, want first-seen IP", sess.IP)
	}

	sess.Count = 3

	// A later call with a different IP returns the same session and keeps
	// the first-seen IP.
	again := doc.EnsureSession("abc", "203.0.113.1")
	if again != sess {
		t.Error("EnsureSession should return the existing session")
	}
	if again.Count != 3 {
		t.Errorf("existing session count = %d, want 3", again.Count)
	}
	if again.IP != "198.51.100.7" {
		t.Errorf("existing session IP = %q, want first-seen IP preserved", again.IP)
	}
}

func TestFindAccount_CaseInsensitive(t *testing.T) {
	doc := NewDocument()
	doc.Accounts = append(doc.Accounts, &Account{Name: "Sam", Email: "Sam@Example.COM"})

	tests := []struct {
		email string
		found bool
	}{
		{"sam@example.com", true},
		{"SAM@EXAMPLE.COM", true},
		{"  sam@example.com  ", true},
		{"other@example.com", false},
		{"", false},
	}

	for _, tt := range tests {
		got := doc.FindAccount(tt.email)
		if (got != nil) != tt.found {
			t.Errorf("FindAccount(%q) found = %v, want %v", tt.email, got != nil, tt.found)
		}
	}
}

func TestNormalize_FillsNilCollections(t *testing.T) {
	doc := &Document{}
	doc.normalize()

	if doc.Sessions == nil || doc.Accounts == nil || doc.Queries == nil || doc.Logins == nil {
		t.Error("normalize() must leave all four collections non-nil")
	}
}
