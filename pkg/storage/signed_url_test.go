package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedURLRoundTrip(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)

	token, expiresAt, err := signer.Generate("asistencia_MAT101_grupo3401.csv")
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	relPath, parsedExpiry, err := signer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "asistencia_MAT101_grupo3401.csv", relPath)
	assert.Equal(t, expiresAt.Unix(), parsedExpiry.Unix())
}

func TestSignedURLRejectsTampering(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)

	token, _, err := signer.Generate("report.csv")
	require.NoError(t, err)

	_, _, err = signer.Parse(token + "x")
	require.Error(t, err)

	other := NewSignedURLSigner("other-secret", time.Hour)
	_, _, err = other.Parse(token)
	require.Error(t, err)
}

func TestSignedURLRejectsExpired(t *testing.T) {
	signer := NewSignedURLSigner("secret", -time.Minute)
	signer.ttl = -time.Minute

	token, _, err := signer.Generate("report.csv")
	require.NoError(t, err)

	_, _, err = signer.Parse(token)
	require.Error(t, err)
}
