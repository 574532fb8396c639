package oauth1

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
	gossh "golang.org/x/crypto/ssh"
)

// ParsePrivateKey parses an RSA private key from PEM data.
//
// Unencrypted PKCS#1 and PKCS#8 blocks are handled directly; OpenSSH-armored
// keys and keys protected by passphrase go through the ssh key parser.
func ParsePrivateKey(data, passphrase []byte) (*rsa.PrivateKey, error) {
	var (
		raw any
		err error
	)

	if len(passphrase) > 0 {
		raw, err = gossh.ParseRawPrivateKeyWithPassphrase(data, passphrase)
	} else {
		if key, pemErr := jwt.ParseRSAPrivateKeyFromPEM(data); pemErr == nil {
			return key, nil
		}
		raw, err = gossh.ParseRawPrivateKey(data)
	}
	if err != nil {
		var missing *gossh.PassphraseMissingError
		if errors.As(err, &missing) {
			return nil, ErrPassphraseRequired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	key, ok := raw.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotRSAKey, raw)
	}
	return key, nil
}

// LoadPrivateKey reads and parses an RSA private key file.
func LoadPrivateKey(path string, passphrase []byte) (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided path expected
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}
	return ParsePrivateKey(data, passphrase)
}
