package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrMalformedToken is returned when a token cannot be decoded.
	ErrMalformedToken = errors.New("storage: malformed download token")
	// ErrBadSignature is returned when a token was not issued with this signer's secret.
	ErrBadSignature = errors.New("storage: invalid download token signature")
	// ErrTokenExpired is returned alongside the decoded grant once a token is past its expiry.
	ErrTokenExpired = errors.New("storage: download token expired")
)

// Grant is what a download token authorizes.
type Grant struct {
	JobID     string
	Path      string
	ExpiresAt time.Time
}

// DownloadSigner issues and verifies HMAC-SHA256 download tokens of the form
// jobID.expiry.path.signature, each segment base64url encoded except the unix expiry.
type DownloadSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewDownloadSigner constructs a signer. A non-positive ttl defaults to 24h.
func NewDownloadSigner(secret string, ttl time.Duration) *DownloadSigner {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &DownloadSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL reports how long issued tokens stay valid.
func (s *DownloadSigner) TTL() time.Duration {
	return s.ttl
}

// Sign issues a token for path produced by jobID.
func (s *DownloadSigner) Sign(jobID, path string) (string, Grant, error) {
	if jobID == "" || path == "" {
		return "", Grant{}, errors.New("storage: job id and path required")
	}
	if len(s.secret) == 0 {
		return "", Grant{}, errors.New("storage: signing secret missing")
	}
	grant := Grant{JobID: jobID, Path: path, ExpiresAt: s.now().Add(s.ttl).Truncate(time.Second)}
	payload := strings.Join([]string{
		encodeSegment([]byte(jobID)),
		strconv.FormatInt(grant.ExpiresAt.Unix(), 10),
		encodeSegment([]byte(path)),
	}, ".")
	return payload + "." + encodeSegment(s.mac(payload)), grant, nil
}

// Verify checks the signature and expiry. An expired but authentic token returns its
// grant together with ErrTokenExpired.
func (s *DownloadSigner) Verify(token string) (Grant, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 {
		return Grant{}, ErrMalformedToken
	}
	signature, err := decodeSegment(parts[3])
	if err != nil {
		return Grant{}, ErrMalformedToken
	}
	if !hmac.Equal(signature, s.mac(strings.Join(parts[:3], "."))) {
		return Grant{}, ErrBadSignature
	}

	jobID, err := decodeSegment(parts[0])
	if err != nil {
		return Grant{}, ErrMalformedToken
	}
	expiry, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Grant{}, ErrMalformedToken
	}
	path, err := decodeSegment(parts[2])
	if err != nil {
		return Grant{}, ErrMalformedToken
	}

	grant := Grant{JobID: string(jobID), Path: string(path), ExpiresAt: time.Unix(expiry, 0)}
	if s.now().After(grant.ExpiresAt) {
		return grant, ErrTokenExpired
	}
	return grant, nil
}

func (s *DownloadSigner) mac(payload string) []byte {
	h := hmac.New(sha256.New, s.secret)
	_, _ = h.Write([]byte(payload))
	return h.Sum(nil)
}

func encodeSegment(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func decodeSegment(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}
