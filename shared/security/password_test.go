package security_test

import (
	"testing"

	"github.com/raushkum4590/job-portal-sub000/shared/security"
)

func TestHashPassword_VerifiesOriginal(t *testing.T) {
	hash, err := security.HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword returned unexpected error: %v", err)
	}

	ok, err := security.VerifyPassword("correct horse battery staple", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned unexpected error: %v", err)
	}
	if !ok {
		t.Error("VerifyPassword should accept the original password")
	}
}

func TestHashPassword_RejectsWrongPassword(t *testing.T) {
	hash, err := security.HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword returned unexpected error: %v", err)
	}

	ok, err := security.VerifyPassword("s3cret-pasS", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned unexpected error: %v", err)
	}
	if ok {
		t.Error("VerifyPassword should reject a different password")
	}
}

func TestHashPassword_Salted(t *testing.T) {
	a, _ := security.HashPassword("same")
	b, _ := security.HashPassword("same")
	if a == b {
		t.Error("two hashes of the same password should differ")
	}
}
