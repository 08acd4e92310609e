package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// argon2id parameters. Deliberately slow; hashing and verification are
// CPU-bound and must never run while holding shared locks.
const (
	argonMemoryKB    uint32 = 19 * 1024
	argonTime        uint32 = 2
	argonParallelism uint8  = 1
	argonSaltLength         = 16
	argonKeyLength   uint32 = 32
)

var (
	ErrHashingFailure      = errors.New("could not hash password")
	ErrVerificationFailure = errors.New("could not verify password against stored hash")
)

// HashPassword derives a salted argon2id hash of password and returns it in
// PHC string format ($argon2id$v=19$m=...,t=...,p=...$salt$hash). A fresh
// random salt is generated per call, so hashing the same password twice
// yields different strings.
func HashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHashingFailure, err)
	}

	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemoryKB, argonParallelism, argonKeyLength)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argonMemoryKB,
		argonTime,
		argonParallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// VerifyPassword recomputes the hash with the parameters embedded in
// encodedHash and compares in constant time. A mismatched password returns
// (false, nil); an error is returned only for malformed stored hashes.
func VerifyPassword(password, encodedHash string) (bool, error) {
	memory, time, parallelism, salt, key, err := decodePHC(encodedHash)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrVerificationFailure, err)
	}

	computed := argon2.IDKey([]byte(password), salt, time, memory, parallelism, uint32(len(key)))

	return subtle.ConstantTimeCompare(computed, key) == 1, nil
}

func decodePHC(encoded string) (memory, time uint32, parallelism uint8, salt, key []byte, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return 0, 0, 0, nil, nil, errors.New("not an argon2id PHC string")
	}

	var version int
	if _, err = fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return 0, 0, 0, nil, nil, err
	}
	if version != argon2.Version {
		return 0, 0, 0, nil, nil, fmt.Errorf("unsupported argon2 version %d", version)
	}

	var p uint32
	if _, err = fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &p); err != nil {
		return 0, 0, 0, nil, nil, err
	}
	if p == 0 || p > 255 || memory == 0 || time == 0 {
		return 0, 0, 0, nil, nil, errors.New("invalid argon2 parameters")
	}
	parallelism = uint8(p)

	if salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return 0, 0, 0, nil, nil, err
	}
	if key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return 0, 0, 0, nil, nil, err
	}
	if len(salt) == 0 || len(key) == 0 {
		return 0, 0, 0, nil, nil, errors.New("empty salt or key")
	}

	return memory, time, parallelism, salt, key, nil
}
