package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	ModePlain  = "plain"
	ModeBcrypt = "bcrypt"
)

// Hasher turns a password into its stored form and checks candidates against it.
type Hasher interface {
	Hash(pw string) (string, error)
	Check(stored, pw string) bool
}

// NewHasher picks the storage scheme. "plain" keeps the clear-text behaviour
// existing rows depend on; production deployments must run "bcrypt".
func NewHasher(mode string) (Hasher, error) {
	switch mode {
	case "", ModePlain:
		return Plain{}, nil
	case ModeBcrypt:
		return Bcrypt{Cost: bcrypt.DefaultCost}, nil
	}
	return nil, fmt.Errorf("unknown password hashing mode %q", mode)
}

// Plain stores passwords verbatim and compares them with ==. Unsafe.
type Plain struct{}

func (Plain) Hash(pw string) (string, error) { return pw, nil }

func (Plain) Check(stored, pw string) bool { return stored == pw }

type Bcrypt struct {
	Cost int
}

func (b Bcrypt) Hash(pw string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	return string(h), err
}

func (Bcrypt) Check(stored, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(pw)) == nil
}
