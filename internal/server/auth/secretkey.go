package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MaxSecretKeyLen is the longest key bcrypt accepts, in bytes.
const MaxSecretKeyLen = 72

func HashSecretKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckSecretKey reports whether key matches hash. A nil or empty hash
// never matches.
func CheckSecretKey(hash *string, key string) (bool, error) {
	if hash == nil || *hash == "" {
		return false, nil
	}
	err := bcrypt.CompareHashAndPassword([]byte(*hash), []byte(key))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
