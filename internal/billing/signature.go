// Package billing handles the payment processor integration: inbound webhook
// verification and processing, and the outbound checkout call.
package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Webhook signatures arrive as a `paddle-signature` style header of the form
// `ts=<unix>;h1=<hex hmac>` where the hmac is HMAC-SHA256 over
// "<ts>:<raw body>".

var (
	ErrMissingSignature   = errors.New("missing signature header")
	ErrMalformedSignature = errors.New("malformed signature header")
	ErrSignatureMismatch  = errors.New("signature mismatch")
	ErrMissingSecret      = errors.New("webhook secret is not configured")
)

// ParseSignatureHeader extracts the timestamp and hmac digest from the
// signature header.
func ParseSignatureHeader(header string) (ts string, digest []byte, err error) {
	if header == "" {
		return "", nil, ErrMissingSignature
	}

	var h1 string
	for _, part := range strings.Split(header, ";") {
		k, v, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			return "", nil, ErrMalformedSignature
		}
		switch k {
		case "ts":
			ts = v
		case "h1":
			h1 = v
		}
	}
	if ts == "" || h1 == "" {
		return "", nil, ErrMalformedSignature
	}

	digest, err = hex.DecodeString(h1)
	if err != nil {
		return "", nil, fmt.Errorf("%w: bad hex digest", ErrMalformedSignature)
	}

	return ts, digest, nil
}

// ComputeSignature computes the expected digest for a body at a timestamp.
func ComputeSignature(secret, ts string, body []byte) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte(":"))
	mac.Write(body)
	return mac.Sum(nil)
}

// VerifySignature checks the header against the raw body using a
// constant-time comparison.
func VerifySignature(secret, header string, body []byte) error {
	if secret == "" {
		return ErrMissingSecret
	}

	ts, digest, err := ParseSignatureHeader(header)
	if err != nil {
		return err
	}

	if !hmac.Equal(digest, ComputeSignature(secret, ts, body)) {
		return ErrSignatureMismatch
	}

	return nil
}
