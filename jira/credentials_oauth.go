//go:build !jira_minimal

package jira

import (
	"fmt"
	"net/http"
	"os"

	"github.com/randalmurphal/jirakit/auth/oauth1"
)

// OAuth1a authenticates with an OAuth 1.0a RSA-SHA1 signature, as used by
// Jira application links. Build with -tags jira_minimal to leave it out.
//
// Use NewOAuth1a so the key is parsed once; a literal value parses the key
// on every request.
type OAuth1a struct {
	ConsumerKey string

	// PrivateKeyPEM is the consumer's RSA private key.
	PrivateKeyPEM string

	// Passphrase decrypts PrivateKeyPEM when it is protected.
	Passphrase string

	AccessToken string

	// AccessTokenSecret is kept for completeness; RSA-SHA1 signatures do not use it.
	AccessTokenSecret string

	signer *oauth1.Signer
}

// NewOAuth1a parses the private key and returns ready-to-use credentials.
func NewOAuth1a(consumerKey, privateKeyPEM, accessToken, accessTokenSecret string) (OAuth1a, error) {
	o := OAuth1a{
		ConsumerKey:       consumerKey,
		PrivateKeyPEM:     privateKeyPEM,
		AccessToken:       accessToken,
		AccessTokenSecret: accessTokenSecret,
	}
	signer, err := o.newSigner()
	if err != nil {
		return OAuth1a{}, err
	}
	o.signer = signer
	return o, nil
}

func (o OAuth1a) newSigner() (*oauth1.Signer, error) {
	var passphrase []byte
	if o.Passphrase != "" {
		passphrase = []byte(o.Passphrase)
	}
	key, err := oauth1.ParsePrivateKey([]byte(o.PrivateKeyPEM), passphrase)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOAuth, err)
	}
	signer, err := oauth1.NewSigner(o.ConsumerKey, o.AccessToken, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOAuth, err)
	}
	return signer, nil
}

func (o OAuth1a) apply(req *http.Request) error {
	signer := o.signer
	if signer == nil {
		var err error
		if signer, err = o.newSigner(); err != nil {
			return err
		}
	}
	if err := signer.SignRequest(req); err != nil {
		return fmt.Errorf("%w: %w", ErrOAuth, err)
	}
	return nil
}

func (OAuth1a) kind() string { return "oauth1" }

// String redacts the key material.
func (o OAuth1a) String() string {
	return fmt.Sprintf("OAuth1a(%s, ****)", o.ConsumerKey)
}

func oauthCredentials(auth AuthConfig) (Credentials, error) {
	pemData := auth.PrivateKey
	if pemData == "" && auth.PrivateKeyFile != "" {
		data, err := os.ReadFile(auth.PrivateKeyFile) //nolint:gosec // user-provided path expected
		if err != nil {
			return nil, fmt.Errorf("read oauth1 private key: %w", err)
		}
		pemData = string(data)
	}

	o := OAuth1a{
		ConsumerKey:       auth.ConsumerKey,
		PrivateKeyPEM:     pemData,
		Passphrase:        auth.Passphrase,
		AccessToken:       auth.AccessToken,
		AccessTokenSecret: auth.TokenSecret,
	}
	signer, err := o.newSigner()
	if err != nil {
		return nil, err
	}
	o.signer = signer
	return o, nil
}
