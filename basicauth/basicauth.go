// Package basicauth decodes HTTP Basic credentials (RFC 7617) into a
// connection's pool and builds the matching challenge header.
//
// Decoded usernames and passwords live in pool memory, so they are wiped
// when the pool is reset for the next request or destroyed with the
// connection. Nothing is copied to the Go heap.
package basicauth

import (
	"bytes"
	"encoding/base64"

	"github.com/pkg/errors"

	"github.com/pavanmanishd/connpool"
)

var (
	// ErrNoCredentials is returned when the request carries no Basic
	// credentials.
	ErrNoCredentials = errors.New("basicauth: no basic credentials")

	// ErrMalformed is returned when the token is not valid base64 or decodes
	// to nothing.
	ErrMalformed = errors.New("basicauth: malformed credentials")
)

const scheme = "Basic"

// malformedError is ErrMalformed carrying the decoder's error.
type malformedError struct {
	cause error
}

func (e *malformedError) Error() string { return ErrMalformed.Error() + ": " + e.cause.Error() }

func (e *malformedError) Is(target error) bool { return target == ErrMalformed }

func (e *malformedError) Unwrap() error { return e.cause }

func (e *malformedError) Cause() error { return e.cause }

// Credentials point into the pool they were decoded into and are valid until
// that pool is reset or destroyed.
type Credentials struct {
	Username []byte
	Password []byte
	// HasPassword is false when the decoded token had no ':' separator.
	HasPassword bool
}

// Wipe zeroes the decoded bytes.
func (c *Credentials) Wipe() {
	clear(c.Username)
	clear(c.Password)
	c.Username, c.Password, c.HasPassword = nil, nil, false
}

// FromHeader decodes the value of an Authorization header. The scheme name is
// matched case-insensitively.
func FromHeader(p *connpool.Pool, value []byte) (Credentials, error) {
	value = bytes.TrimSpace(value)
	if len(value) < len(scheme) || !bytes.EqualFold(value[:len(scheme)], []byte(scheme)) {
		return Credentials{}, ErrNoCredentials
	}
	rest := value[len(scheme):]
	token := bytes.TrimLeft(rest, " \t")
	if len(token) == len(rest) && len(rest) != 0 {
		// "Basicfoo" is a different scheme.
		return Credentials{}, ErrNoCredentials
	}
	return Decode(p, token)
}

// Decode decodes a token68 into a front block of p and splits it at the
// first ':'. On error no pool memory stays in use when the block could be
// given back.
func Decode(p *connpool.Pool, token68 []byte) (Credentials, error) {
	if len(token68) == 0 {
		return Credentials{}, ErrNoCredentials
	}
	buf, err := p.Allocate(base64.StdEncoding.DecodedLen(len(token68)), false)
	if err != nil {
		return Credentials{}, errors.Wrap(err, "basicauth: decode buffer")
	}
	n, err := base64.StdEncoding.Decode(buf, token68)
	if err != nil || n == 0 {
		clear(buf)
		// buf is the newest front block, so shrinking it in place cannot fail.
		_, _ = p.Reallocate(buf, 0)
		if err == nil {
			return Credentials{}, ErrMalformed
		}
		return Credentials{}, &malformedError{cause: err}
	}
	if buf, err = p.Reallocate(buf, n); err != nil {
		return Credentials{}, errors.Wrap(err, "basicauth: shrink buffer")
	}

	colon := bytes.IndexByte(buf, ':')
	if colon < 0 {
		return Credentials{Username: buf}, nil
	}
	return Credentials{
		Username:    buf[:colon:colon],
		Password:    buf[colon+1:],
		HasPassword: true,
	}, nil
}

// Challenge builds the WWW-Authenticate value asking for Basic credentials
// in realm, allocated from the end of p so it survives until the response is
// sent. Quotes and backslashes in realm are escaped. With preferUTF8 the
// client is told that UTF-8 credentials are expected.
func Challenge(p *connpool.Pool, realm string, preferUTF8 bool) ([]byte, error) {
	const (
		prefix        = `Basic realm="`
		suffixSimple  = `"`
		suffixCharset = `", charset="UTF-8"`
	)
	suffix := suffixSimple
	if preferUTF8 {
		suffix = suffixCharset
	}

	n := len(prefix) + quotedLen(realm) + len(suffix)
	h, err := p.Allocate(n, true)
	if err != nil {
		return nil, errors.Wrap(err, "basicauth: challenge header")
	}
	pos := copy(h, prefix)
	for i := 0; i < len(realm); i++ {
		if c := realm[i]; c == '"' || c == '\\' {
			h[pos] = '\\'
			pos++
		}
		h[pos] = realm[i]
		pos++
	}
	copy(h[pos:], suffix)
	return h, nil
}

func quotedLen(s string) int {
	n := len(s)
	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			n++
		}
	}
	return n
}
