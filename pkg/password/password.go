// Package password genera y verifica hashes de contraseña con sal.
//
// Hash siempre produce bcrypt. Verify acepta además los formatos
// "pbkdf2:<digest>[:iteraciones]$sal$hex" y "scrypt:N:r:p$sal$hex",
// que son los que dejan los scripts de alta de usuarios heredados.
package password

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

// ErrUnsupportedHash el hash almacenado no tiene un formato reconocido.
var ErrUnsupportedHash = errors.New("password: formato de hash no soportado")

const (
	defaultPBKDF2Iterations = 600000
	scryptKeyLen            = 64
)

// Hash genera un hash bcrypt con costo por defecto.
func Hash(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("password: hash: %w", err)
	}
	return string(h), nil
}

// Verify compara en tiempo constante plain contra el hash almacenado.
// Devuelve (false, nil) si no coincide y error solo si el hash es ilegible.
func Verify(stored, plain string) (bool, error) {
	switch {
	case strings.HasPrefix(stored, "$2a$"), strings.HasPrefix(stored, "$2b$"), strings.HasPrefix(stored, "$2y$"):
		err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("password: bcrypt: %w", err)
		}
		return true, nil
	case strings.HasPrefix(stored, "pbkdf2:"):
		return verifyPBKDF2(stored, plain)
	case strings.HasPrefix(stored, "scrypt:"):
		return verifyScrypt(stored, plain)
	default:
		return false, ErrUnsupportedHash
	}
}

// splitHash separa "método$sal$hex" en sus tres partes.
func splitHash(stored string) (method, salt string, want []byte, err error) {
	parts := strings.SplitN(stored, "$", 3)
	if len(parts) != 3 || parts[1] == "" {
		return "", "", nil, ErrUnsupportedHash
	}
	want, err = hex.DecodeString(parts[2])
	if err != nil || len(want) == 0 {
		return "", "", nil, ErrUnsupportedHash
	}
	return parts[0], parts[1], want, nil
}

func verifyPBKDF2(stored, plain string) (bool, error) {
	method, salt, want, err := splitHash(stored)
	if err != nil {
		return false, err
	}
	args := strings.Split(method, ":")[1:]
	if len(args) < 1 || len(args) > 2 {
		return false, ErrUnsupportedHash
	}

	var newHash func() hash.Hash
	switch args[0] {
	case "sha1":
		newHash = sha1.New
	case "sha256":
		newHash = sha256.New
	case "sha512":
		newHash = sha512.New
	default:
		return false, ErrUnsupportedHash
	}

	iterations := defaultPBKDF2Iterations
	if len(args) == 2 {
		iterations, err = strconv.Atoi(args[1])
		if err != nil || iterations <= 0 {
			return false, ErrUnsupportedHash
		}
	}

	got := pbkdf2.Key([]byte(plain), []byte(salt), iterations, newHash().Size(), newHash)
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

func verifyScrypt(stored, plain string) (bool, error) {
	method, salt, want, err := splitHash(stored)
	if err != nil {
		return false, err
	}
	args := strings.Split(method, ":")[1:]
	if len(args) != 3 {
		return false, ErrUnsupportedHash
	}
	params := make([]int, 3)
	for i, a := range args {
		params[i], err = strconv.Atoi(a)
		if err != nil || params[i] <= 0 {
			return false, ErrUnsupportedHash
		}
	}

	got, err := scrypt.Key([]byte(plain), []byte(salt), params[0], params[1], params[2], scryptKeyLen)
	if err != nil {
		return false, fmt.Errorf("password: scrypt: %w", err)
	}
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
