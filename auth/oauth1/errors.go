package oauth1

import "errors"

// OAuth signing errors.
var (
	// ErrInvalidKey is returned when private key data cannot be parsed.
	ErrInvalidKey = errors.New("invalid private key")

	// ErrNotRSAKey is returned when the key parses but is not an RSA key.
	ErrNotRSAKey = errors.New("private key is not RSA")

	// ErrPassphraseRequired is returned when an encrypted key is given without a passphrase.
	ErrPassphraseRequired = errors.New("private key is encrypted, passphrase required")

	// ErrMissingConsumerKey is returned when a signer is created without a consumer key.
	ErrMissingConsumerKey = errors.New("consumer key is required")

	// ErrSign is returned when the signature cannot be computed.
	ErrSign = errors.New("oauth signing failed")
)
