package basicauth

import (
	"encoding/base64"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/pavanmanishd/connpool"
)

func newPool(t *testing.T, size int) *connpool.Pool {
	t.Helper()
	p, err := connpool.New(size)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, p.Destroy()) })
	return p
}

func token(s string) []byte {
	return []byte(base64.StdEncoding.EncodeToString([]byte(s)))
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name        string
		decoded     string
		user        string
		pass        string
		hasPassword bool
	}{
		{"user and password", "Aladdin:open sesame", "Aladdin", "open sesame", true},
		{"empty password", "user:", "user", "", true},
		{"empty user", ":secret", "", "secret", true},
		{"colon in password", "user:pa:ss", "user", "pa:ss", true},
		{"no separator", "justuser", "justuser", "", false},
		{"utf-8", "Jürgen:pässwörd", "Jürgen", "pässwörd", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPool(t, 1024)
			c, err := Decode(p, token(tt.decoded))
			require.NoError(t, err)
			require.Equal(t, tt.user, string(c.Username))
			require.Equal(t, tt.pass, string(c.Password))
			require.Equal(t, tt.hasPassword, c.HasPassword)
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	p := newPool(t, 1024)

	_, err := Decode(p, nil)
	require.ErrorIs(t, err, ErrNoCredentials)

	_, err = Decode(p, []byte("!!!not base64!!!"))
	require.ErrorIs(t, err, ErrMalformed)
	var corrupt base64.CorruptInputError
	require.ErrorAs(t, err, &corrupt, "decoder error must stay reachable")
	require.Equal(t, corrupt, errors.Cause(err))
	require.Equal(t, p.Capacity(), p.Free(), "failed decode kept pool memory")

	small := newPool(t, 16)
	_, err = Decode(small, token("a rather long username:and an even longer password"))
	require.ErrorIs(t, err, connpool.ErrExhausted)
}

func TestDecodeUsesPool(t *testing.T) {
	p := newPool(t, 256)
	c, err := Decode(p, token("user:secret"))
	require.NoError(t, err)
	require.Equal(t, 256-16, p.Free(), "decoded block not shrunk to its content")

	// Resetting the pool for the next request must not leave the password
	// readable through the old slices.
	p.Reset(nil, 0)
	require.Equal(t, make([]byte, len(c.Password)), c.Password)
}

func TestWipe(t *testing.T) {
	p := newPool(t, 256)
	c, err := Decode(p, token("user:secret"))
	require.NoError(t, err)
	pass := c.Password

	c.Wipe()
	require.Nil(t, c.Username)
	require.False(t, c.HasPassword)
	require.Equal(t, make([]byte, len(pass)), pass)
}

func TestFromHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
		user   string
		err    error
	}{
		{"canonical", "Basic " + string(token("u:p")), "u", nil},
		{"lower case scheme", "basic " + string(token("u:p")), "u", nil},
		{"extra spaces", "  BASIC \t " + string(token("u:p")) + " ", "u", nil},
		{"other scheme", "Bearer abc.def", "", ErrNoCredentials},
		{"glued scheme", "BasicdTpw", "", ErrNoCredentials},
		{"scheme only", "Basic", "", ErrNoCredentials},
		{"empty", "", "", ErrNoCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPool(t, 512)
			c, err := FromHeader(p, []byte(tt.header))
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.user, string(c.Username))
		})
	}
}

func TestChallenge(t *testing.T) {
	tests := []struct {
		realm      string
		preferUTF8 bool
		want       string
	}{
		{"Restricted", false, `Basic realm="Restricted"`},
		{"Restricted", true, `Basic realm="Restricted", charset="UTF-8"`},
		{`say "hi"`, false, `Basic realm="say \"hi\""`},
		{`C:\dir`, false, `Basic realm="C:\\dir"`},
		{"", false, `Basic realm=""`},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			p := newPool(t, 256)
			h, err := Challenge(p, tt.realm, tt.preferUTF8)
			require.NoError(t, err)
			require.Equal(t, tt.want, string(h))
			require.Equal(t, 256-roundUp(len(tt.want)), p.Free())
		})
	}

	_, err := Challenge(newPool(t, 16), "a realm that does not fit", false)
	require.ErrorIs(t, err, connpool.ErrExhausted)
}

func roundUp(n int) int {
	return (n + connpool.Align - 1) / connpool.Align * connpool.Align
}
