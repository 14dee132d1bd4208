package auth

import (
	"errors"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

var usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)

func ValidateUsername(username string) error {
	if username == "" {
		return errors.New("username is required")
	}
	if len(username) > 150 {
		return errors.New("username must be 150 characters or fewer")
	}
	if !usernameRe.MatchString(username) {
		return errors.New("username may contain only letters, digits and @/./+/-/_")
	}
	return nil
}

var commonPasswords = map[string]struct{}{
	"password":   {},
	"password1":  {},
	"passw0rd":   {},
	"12345678":   {},
	"123456789":  {},
	"1234567890": {},
	"qwerty123":  {},
	"qwertyuiop": {},
	"1q2w3e4r":   {},
	"iloveyou":   {},
	"admin123":   {},
	"letmein1":   {},
	"welcome1":   {},
	"football":   {},
	"sunshine":   {},
	"princess":   {},
}

// ValidatePassword applies the same strength rules for admins and peserta:
// minimum length, not entirely numeric, not a common password, not too
// similar to the username.
func ValidatePassword(password, username string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	allDigits := true
	for _, r := range password {
		if r < '0' || r > '9' {
			allDigits = false
			break
		}
	}
	if allDigits {
		return errors.New("password cannot be entirely numeric")
	}

	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		return errors.New("password is too common")
	}

	lu := strings.ToLower(username)
	lp := strings.ToLower(password)
	if len(lu) >= 4 && strings.Contains(lp, lu) {
		return errors.New("password is too similar to the username")
	}

	return nil
}
