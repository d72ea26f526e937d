package password

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt cost used for card payment passwords
const DefaultCost = 12

// Hash hashes a card payment password using bcrypt
func Hash(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify compares a plain password with a stored hash
func Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// ValidatePIN checks that a card payment password is a usable PIN:
// six to twenty characters, digits or letters.
func ValidatePIN(pin string) bool {
	if len(pin) < 6 || len(pin) > 20 {
		return false
	}
	for _, r := range pin {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return true
}
