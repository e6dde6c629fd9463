package utils

import "testing"

func TestValidateFullName(t *testing.T) {
	cases := []struct {
		name  string
		valid bool
	}{
		{"Ali Hassan Omar", true},
		{"  Ali   Hassan   Omar  ", true},
		{"Ali Hassan", false},
		{"Ali", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidateFullName(tc.name); got != tc.valid {
			t.Errorf("ValidateFullName(%q) = %v, want %v", tc.name, got, tc.valid)
		}
	}
}

func TestValidatePhone(t *testing.T) {
	cases := []struct {
		phone string
		valid bool
	}{
		{"+963999999999", true},
		{"0999999999", false},
		{"+963", false},
		{"not a phone", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidatePhone(tc.phone); got != tc.valid {
			t.Errorf("ValidatePhone(%q) = %v, want %v", tc.phone, got, tc.valid)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	cases := []struct {
		email string
		valid bool
	}{
		{"ali@example.com", true},
		{"ali@example", false},
		{"ali", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidateEmail(tc.email); got != tc.valid {
			t.Errorf("ValidateEmail(%q) = %v, want %v", tc.email, got, tc.valid)
		}
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := ComparePassword(hash, "s3cret"); err != nil {
		t.Errorf("ComparePassword should match: %v", err)
	}
	if err := ComparePassword(hash, "wrong"); err == nil {
		t.Error("ComparePassword should reject the wrong password")
	}
}
