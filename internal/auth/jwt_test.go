package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKey    = "unit-test-signing-key"
	testIssuer = "campus-events-test"
)

func TestIssueAndParseRoundTrip(t *testing.T) {
	pair, err := Issue(42, "ADMIN", testIssuer, testKey, 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.RefreshExp.After(pair.AccessExp))

	claims, err := Parse(pair.AccessToken, testKey, testIssuer)
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", claims.Role)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestParseRejectsWrongKey(t *testing.T) {
	pair, err := Issue(1, "STUDENT", testIssuer, testKey, time.Minute, time.Hour)
	require.NoError(t, err)

	_, err = Parse(pair.AccessToken, "some-other-key", testIssuer)
	assert.Error(t, err)
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	pair, err := Issue(1, "STUDENT", "other-issuer", testKey, time.Minute, time.Hour)
	require.NoError(t, err)

	_, err = Parse(pair.AccessToken, testKey, testIssuer)
	assert.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	pair, err := Issue(1, "STUDENT", testIssuer, testKey, -time.Minute, time.Hour)
	require.NoError(t, err)

	_, err = Parse(pair.AccessToken, testKey, testIssuer)
	assert.Error(t, err)
}

func TestHashTokenIsStableAndDistinct(t *testing.T) {
	a := HashToken("token-a")
	assert.Equal(t, a, HashToken("token-a"))
	assert.NotEqual(t, a, HashToken("token-b"))
	assert.Len(t, a, 64)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2hunter2", hash)
	assert.True(t, CheckPassword(hash, "hunter2hunter2"))
	assert.False(t, CheckPassword(hash, "hunter3hunter3"))
}
