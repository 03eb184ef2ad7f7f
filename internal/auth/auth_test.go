package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticSource(t *testing.T) {
	token, ok := NewStaticSource("  abc \n").GetToken()
	assert.True(t, ok)
	assert.Equal(t, "abc", token)

	_, ok = NewStaticSource("").GetToken()
	assert.False(t, ok)

	var nilSource *StaticSource
	_, ok = nilSource.GetToken()
	assert.False(t, ok)
}

func TestChain_FirstPresentWins(t *testing.T) {
	chain := Chain{NewStaticSource(""), nil, NewStaticSource("second"), NewStaticSource("third")}
	token, ok := chain.GetToken()
	assert.True(t, ok)
	assert.Equal(t, "second", token)

	_, ok = Chain{}.GetToken()
	assert.False(t, ok)
}

func TestFileSource_LoadsAndReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "token")
	require.NoError(t, os.WriteFile(path, []byte("first\n"), 0600))

	source, err := NewFileSource(path)
	require.NoError(t, err)
	require.NoError(t, source.Watch())
	defer source.Close()

	token, ok := source.GetToken()
	require.True(t, ok)
	assert.Equal(t, "first", token)

	require.NoError(t, os.WriteFile(path, []byte("second"), 0600))
	assert.Eventually(t, func() bool {
		token, _ := source.GetToken()
		return token == "second"
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, source.Close())
	require.NoError(t, source.Close())
}

func TestFileSource_MissingFile(t *testing.T) {
	source, err := NewFileSource(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	_, ok := source.GetToken()
	assert.False(t, ok)

	_, err = NewFileSource("")
	assert.Error(t, err)
}

func TestExpiresAt(t *testing.T) {
	expiry := time.Now().Add(-time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(expiry),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	got, ok := ExpiresAt(signed)
	require.True(t, ok)
	assert.True(t, expiry.Equal(got))

	_, ok = ExpiresAt("not-a-jwt")
	assert.False(t, ok)
}
