package tokens

import (
	"encoding/base64"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "this is a test secret"

func newTestManager(now time.Time) *Manager {
	m := New(testSecret, time.Hour)
	m.now = func() time.Time { return now }
	return m
}

func TestIssueAndVerify(t *testing.T) {
	m := New(testSecret, 0)
	assert.Equal(t, DefaultTTL, m.TTL())

	token, err := m.Issue("a@x.com")
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	subject, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", subject)
}

func TestIssueEmptySubject(t *testing.T) {
	_, err := New(testSecret, time.Hour).Issue("")
	assert.ErrorIs(t, err, ErrEmptySubject)
}

func TestVerifyExpired(t *testing.T) {
	issuedAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := newTestManager(issuedAt)
	token, err := m.Issue("a@x.com")
	require.NoError(t, err)

	m.now = func() time.Time { return issuedAt.Add(59 * time.Minute) }
	subject, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", subject)

	m.now = func() time.Time { return issuedAt.Add(time.Hour + time.Second) }
	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := New("other secret", time.Hour).Issue("a@x.com")
	require.NoError(t, err)

	_, err = New(testSecret, time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyMalformed(t *testing.T) {
	m := New(testSecret, time.Hour)
	for _, token := range []string{"", "not-a-token", "a.b", "a.b.c", "!!!.???.***"} {
		t.Run(token, func(t *testing.T) {
			_, err := m.Verify(token)
			assert.ErrorIs(t, err, ErrTokenMalformed)
		})
	}
}

func TestVerifyTampered(t *testing.T) {
	m := New(testSecret, time.Hour)
	token, err := m.Issue("alice@x.com")
	require.NoError(t, err)
	parts := strings.Split(token, ".")

	t.Run("payload replaced", func(t *testing.T) {
		forged := fmt.Sprintf(`{"sub":"mallory@x.com","exp":%d}`, time.Now().Add(time.Hour).Unix())
		parts := append([]string(nil), parts...)
		parts[1] = base64.RawURLEncoding.EncodeToString([]byte(forged))
		_, err := m.Verify(strings.Join(parts, "."))
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("signature byte flipped", func(t *testing.T) {
		sig := []byte(parts[2])
		i := len(sig) / 2
		if sig[i] == 'A' {
			sig[i] = 'B'
		} else {
			sig[i] = 'A'
		}
		_, err := m.Verify(parts[0] + "." + parts[1] + "." + string(sig))
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("any byte changed never verifies", func(t *testing.T) {
		for i := 0; i < len(token); i++ {
			b := []byte(token)
			switch b[i] {
			case '.':
				b[i] = 'x'
			case 'A':
				b[i] = 'B'
			default:
				b[i] = 'A'
			}
			_, err := m.Verify(string(b))
			require.Error(t, err, "token verified after changing byte %d", i)
			assert.True(t, err == ErrTokenInvalid || err == ErrTokenMalformed, "byte %d: unexpected error %v", i, err)
		}
	})

	t.Run("last signature character replaced", func(t *testing.T) {
		const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
		last := token[len(token)-1]
		for _, c := range []byte(alphabet) {
			if c == last {
				continue
			}
			mutated := token[:len(token)-1] + string(c)
			_, err := m.Verify(mutated)
			require.Error(t, err, "last char %q -> %q still verifies", last, c)
			assert.True(t, err == ErrTokenInvalid || err == ErrTokenMalformed, "unexpected error %v", err)
		}
	})
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	m := New(testSecret, time.Hour)
	claims := jwt.RegisteredClaims{
		Subject:   "a@x.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}

	t.Run("HS512 with the same secret", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		_, err = m.Verify(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("none", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = m.Verify(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}

func TestVerifyRequiresExpiry(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "a@x.com"}).
		SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = New(testSecret, time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
