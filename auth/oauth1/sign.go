package oauth1

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1" //nolint:gosec // RSA-SHA1 is mandated by the OAuth 1.0a profile Jira implements
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Protocol constants.
const (
	SignatureMethod = "RSA-SHA1"
	Version         = "1.0"
	NonceLength     = 32
)

const nonceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Signer produces OAuth 1.0a RSA-SHA1 Authorization headers.
// A Signer is safe for concurrent use.
type Signer struct {
	consumerKey string
	token       string
	key         *rsa.PrivateKey

	now   func() time.Time
	nonce func() (string, error)
}

// NewSigner creates a signer for the given consumer and access token.
func NewSigner(consumerKey, accessToken string, key *rsa.PrivateKey) (*Signer, error) {
	if consumerKey == "" {
		return nil, ErrMissingConsumerKey
	}
	if key == nil {
		return nil, fmt.Errorf("%w: nil key", ErrInvalidKey)
	}
	return &Signer{
		consumerKey: consumerKey,
		token:       accessToken,
		key:         key,
		now:         time.Now,
		nonce:       Nonce,
	}, nil
}

// Nonce returns a fresh random alphanumeric nonce.
func Nonce() (string, error) {
	return gonanoid.Generate(nonceAlphabet, NonceLength)
}

// SignRequest sets the Authorization header on req.
func (s *Signer) SignRequest(req *http.Request) error {
	header, err := s.Header(req.Method, req.URL)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", header)
	return nil
}

// Header computes the Authorization header value for a request.
func (s *Signer) Header(method string, u *url.URL) (string, error) {
	nonce, err := s.nonce()
	if err != nil {
		return "", fmt.Errorf("%w: nonce: %v", ErrSign, err)
	}

	params := map[string]string{
		"oauth_consumer_key":     s.consumerKey,
		"oauth_nonce":            nonce,
		"oauth_signature_method": SignatureMethod,
		"oauth_timestamp":        strconv.FormatInt(s.now().Unix(), 10),
		"oauth_version":          Version,
	}
	if s.token != "" {
		params["oauth_token"] = s.token
	}

	base := BaseString(method, u, params)
	sig, err := s.sign(base)
	if err != nil {
		return "", err
	}
	params["oauth_signature"] = sig

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf(`%s="%s"`, PercentEncode(k), PercentEncode(params[k])))
	}
	return "OAuth " + strings.Join(parts, ", "), nil
}

func (s *Signer) sign(base string) (string, error) {
	digest := sha1.Sum([]byte(base)) //nolint:gosec // see import
	sig, err := rsa.SignPKCS1v15(rand.Reader, s.key, crypto.SHA1, digest[:])
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSign, err)
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}

// BaseString builds the signature base string: the upper-cased method, the
// base URL and the sorted, encoded parameters (oauth and query), each
// percent-encoded and joined with '&'.
func BaseString(method string, u *url.URL, oauthParams map[string]string) string {
	type pair struct{ k, v string }

	var pairs []pair
	for k, v := range oauthParams {
		pairs = append(pairs, pair{PercentEncode(k), PercentEncode(v)})
	}
	for k, vs := range u.Query() {
		for _, v := range vs {
			pairs = append(pairs, pair{PercentEncode(k), PercentEncode(v)})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].k != pairs[j].k {
			return pairs[i].k < pairs[j].k
		}
		return pairs[i].v < pairs[j].v
	})

	encoded := make([]string, len(pairs))
	for i, p := range pairs {
		encoded[i] = p.k + "=" + p.v
	}

	return strings.ToUpper(method) + "&" +
		PercentEncode(BaseURL(u)) + "&" +
		PercentEncode(strings.Join(encoded, "&"))
}

// BaseURL returns scheme://host[:port]/path with the scheme and host lower-cased
// and default ports dropped.
func BaseURL(u *url.URL) string {
	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	if port := u.Port(); port != "" &&
		!(scheme == "http" && port == "80") && !(scheme == "https" && port == "443") {
		host += ":" + port
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return scheme + "://" + host + path
}

// PercentEncode encodes s per RFC 3986, leaving only unreserved characters.
func PercentEncode(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '.', c == '_', c == '~':
		return true
	}
	return false
}
