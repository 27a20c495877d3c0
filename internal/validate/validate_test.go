package validate

import "testing"

func TestEmail(t *testing.T) {
	valid := []string{"a@b.com", "user.name@example.co.uk", "x@y.z"}
	for _, s := range valid {
		if !Email(s) {
			t.Errorf("Email(%q) = false, want true", s)
		}
	}

	invalid := []string{"", "not-an-email", "a@b", "@b.com", "a b@c.com", "a@b .com"}
	for _, s := range invalid {
		if Email(s) {
			t.Errorf("Email(%q) = true, want false", s)
		}
	}
}

func TestPassword(t *testing.T) {
	if Password("short") {
		t.Error("short password accepted")
	}
	if !Password("12345678") {
		t.Error("8-char password rejected")
	}
}
