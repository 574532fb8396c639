// Package oauth1 signs HTTP requests with OAuth 1.0a using RSA-SHA1, the
// scheme Jira application links use.
//
// This package includes:
//   - RSA private key parsing (PKCS#1, PKCS#8, OpenSSH, passphrase-protected)
//   - Signature base string construction (RFC 5849 section 3.4.1)
//   - Authorization header generation
//
// # Loading a Key
//
//	key, err := oauth1.ParsePrivateKey(pemBytes, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Encrypted keys take the passphrase as the second argument:
//
//	key, err := oauth1.LoadPrivateKey("/etc/jira/consumer.pem", []byte(passphrase))
//
// # Signing Requests
//
//	signer, err := oauth1.NewSigner("my-consumer", accessToken, key)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	req, _ := http.NewRequest(http.MethodGet, "https://jira.example.com/rest/api/latest/myself", nil)
//	if err := signer.SignRequest(req); err != nil {
//	    log.Fatal(err)
//	}
//
// Every call draws a fresh nonce and timestamp. The token secret is not part
// of an RSA-SHA1 signature and is therefore never required here.
package oauth1
