package helpers

import "testing"

func TestIsStrongPassword(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"abc123", false},
		{"abcdefgh", false},
		{"12345678", false},
		{"abcd1234", true},
		{"Condo-2024!", true},
	}
	for _, tc := range cases {
		if got := IsStrongPassword(tc.in); got != tc.want {
			t.Errorf("IsStrongPassword(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secreto123")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "secreto123" {
		t.Fatal("password stored in clear")
	}
	if err := CheckPasswordHash(hash, "secreto123"); err != nil {
		t.Fatalf("valid password rejected: %v", err)
	}
	if err := CheckPasswordHash(hash, "otro12345"); err == nil {
		t.Fatal("wrong password accepted")
	}
	if NormalizeEmail("  Admin@Condo.COM ") != "admin@condo.com" {
		t.Fatal("email not normalized")
	}
}
