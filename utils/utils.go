package utils

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

var validate = validator.New()

// ValidateEmail checks if the email format is valid
func ValidateEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}

// ValidateFullName requires the registration dialogue's full triple
// name: at least three space-separated parts.
func ValidateFullName(name string) bool {
	return len(strings.Fields(strings.TrimSpace(name))) >= 3
}

// ValidatePhone requires an international-format number: leading +,
// at least 10 characters.
func ValidatePhone(phone string) bool {
	phone = strings.TrimSpace(phone)
	if !strings.HasPrefix(phone, "+") || len(phone) < 10 {
		return false
	}
	return validate.Var(phone, "e164") == nil
}

// HashPassword generates a bcrypt hash of the password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePassword compares a password with its hash
func ComparePassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
