package validation

import "testing"

func TestRatingInRange(t *testing.T) {
	cases := []struct {
		rating int
		want   bool
	}{
		{0, false},
		{1, true},
		{5, true},
		{10, true},
		{11, false},
		{-3, false},
	}
	for _, c := range cases {
		if got := RatingInRange(c.rating); got != c.want {
			t.Errorf("RatingInRange(%d) = %v, want %v", c.rating, got, c.want)
		}
	}
}

func TestEmailDomain(t *testing.T) {
	cases := []struct {
		email string
		want  string
	}{
		{"student@example.edu", "example.edu"},
		{"Student@Example.EDU", "example.edu"},
		{"no-at-sign", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := EmailDomain(c.email); got != c.want {
			t.Errorf("EmailDomain(%q) = %q, want %q", c.email, got, c.want)
		}
	}
}

func TestValidateUsername(t *testing.T) {
	t.Run("valid usernames", func(t *testing.T) {
		for _, name := range []string{"alice", "bob_smith", "user123", "a-b-c"} {
			if ok, msg := ValidateUsername(name); !ok {
				t.Errorf("expected %q to be valid, got %q", name, msg)
			}
		}
	})

	t.Run("invalid usernames", func(t *testing.T) {
		for _, name := range []string{"", "ab", "has space", "sneaky!", "semi;colon"} {
			if ok, _ := ValidateUsername(name); ok {
				t.Errorf("expected %q to be rejected", name)
			}
		}
	})
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  hello  "); got != "hello" {
		t.Errorf("expected trimmed string, got %q", got)
	}
}

func TestValidateStruct(t *testing.T) {
	type payload struct {
		Email string `validate:"required,email"`
	}

	v := NewValidator()
	if err := v.ValidateStruct(payload{Email: "good@example.com"}); err != nil {
		t.Errorf("expected valid payload, got %v", err)
	}
	if err := v.ValidateStruct(payload{Email: "not-an-email"}); err == nil {
		t.Error("expected invalid email to fail")
	}
}
