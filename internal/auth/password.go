package auth

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GeneratePassword builds an initial password from the first three characters
// of the email, eight random hex characters and the last three of the phone.
func GeneratePassword(email, phone string) (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	emailPart := strings.ToLower(email)
	if len(emailPart) > 3 {
		emailPart = emailPart[:3]
	}

	phonePart := phone
	if len(phonePart) > 3 {
		phonePart = phonePart[len(phonePart)-3:]
	}

	return emailPart + hex.EncodeToString(buf) + phonePart, nil
}
