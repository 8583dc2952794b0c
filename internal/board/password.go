package board

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// Checker сверяет введённый пароль с настроенным секретом.
type Checker interface {
	Check(password string) bool
}

// PlainSecret — сравнение с открытым секретом (ADMIN_PASSWORD) за постоянное время.
type PlainSecret string

func (s PlainSecret) Check(password string) bool {
	if s == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s), []byte(password)) == 1
}

// HashedSecret — bcrypt-хэш (ADMIN_PASSWORD_HASH).
type HashedSecret []byte

func (h HashedSecret) Check(password string) bool {
	if len(h) == 0 {
		return false
	}
	return bcrypt.CompareHashAndPassword(h, []byte(password)) == nil
}

// NewChecker выбирает проверку: хэш, если задан, иначе открытый пароль.
func NewChecker(password, hash string) Checker {
	if hash != "" {
		return HashedSecret(hash)
	}
	return PlainSecret(password)
}
