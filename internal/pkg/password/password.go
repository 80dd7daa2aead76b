// Package password hashes and verifies passwords with argon2id.
//
// The output is a self-describing PHC string
// ($argon2id$v=19$m=...,t=...,p=...$salt$hash), so verification needs no
// configuration beyond the stored hash itself.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	appErr "github.com/Kroplewski-M/student-showcase/internal/pkg/errors"
)

// MaxLength caps the plaintext size. Argon2 handles long input fine, this
// bound exists to cap the cost of memory-hard hashing on attacker-supplied
// input. It is enforced identically in Hash and Verify.
const MaxLength = 64

const (
	argonTime    = 3
	argonMemory  = 64 * 1024 // KiB
	argonThreads = 2
	argonSaltLen = 16
	argonKeyLen  = 32
)

// Hash derives an argon2id hash of plain with a fresh random salt.
func Hash(plain string) (string, error) {
	if err := checkLength(plain); err != nil {
		return "", err
	}
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("%w: %v", appErr.ErrHashing, err)
	}
	key := argon2.IDKey([]byte(plain), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
	return encoded, nil
}

// Verify reports whether plain matches the stored PHC hash. A mismatch is
// (false, nil); an error is returned only for invalid input or an
// unparseable hash.
func Verify(plain, encoded string) (bool, error) {
	if err := checkLength(plain); err != nil {
		return false, err
	}
	salt, key, memory, time, threads, err := decodePHC(encoded)
	if err != nil {
		return false, err
	}
	derived := argon2.IDKey([]byte(plain), salt, time, memory, threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(derived, key) == 1, nil
}

func checkLength(plain string) error {
	if plain == "" {
		return appErr.ErrEmptyPassword
	}
	if len(plain) > MaxLength {
		return fmt.Errorf("%w of %d", appErr.ErrPasswordTooLong, MaxLength)
	}
	return nil
}

func decodePHC(encoded string) (salt, key []byte, memory, time uint32, threads uint8, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, nil, 0, 0, 0, appErr.ErrInvalidHashFormat
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, nil, 0, 0, 0, appErr.ErrInvalidHashFormat
	}
	var p uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &p); err != nil {
		return nil, nil, 0, 0, 0, appErr.ErrInvalidHashFormat
	}
	if memory == 0 || time == 0 || p == 0 || p > 255 {
		return nil, nil, 0, 0, 0, appErr.ErrInvalidHashFormat
	}
	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, 0, 0, 0, appErr.ErrInvalidHashFormat
	}
	key, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return nil, nil, 0, 0, 0, appErr.ErrInvalidHashFormat
	}
	return salt, key, memory, time, uint8(p), nil
}
