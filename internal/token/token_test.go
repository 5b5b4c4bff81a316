package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nirgunrohan/LMS/internal/models"
)

func TestIssueAndVerifyAccess(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer("test-secret")
	tok, err := issuer.IssueAccess("u1", "a@b.com", models.RoleUser, time.Hour)
	require.NoError(t, err)

	claims, err := issuer.Verify(tok, KindAccess)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, models.RoleUser, claims.Role)
	assert.Equal(t, KindAccess, claims.Kind)
}

func TestVerifyRejectsWrongKind(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer("test-secret")

	reset, err := issuer.IssueReset("u1", "a@b.com", time.Hour)
	require.NoError(t, err)
	refresh, err := issuer.IssueRefresh("u1", "a@b.com", time.Hour)
	require.NoError(t, err)

	// A reset token is never a refresh or access token, even before expiry.
	_, err = issuer.Verify(reset, KindRefresh)
	assert.ErrorIs(t, err, ErrWrongKind)
	_, err = issuer.Verify(reset, KindAccess)
	assert.ErrorIs(t, err, ErrWrongKind)
	_, err = issuer.Verify(refresh, KindAccess)
	assert.ErrorIs(t, err, ErrWrongKind)
}

func TestVerifyExpired(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer("test-secret")
	tok, err := issuer.IssueAccess("u1", "a@b.com", models.RoleUser, -time.Second)
	require.NoError(t, err)

	_, err = issuer.Verify(tok, KindAccess)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyWrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewIssuer("right-secret").IssueAccess("u1", "a@b.com", models.RoleUser, time.Hour)
	require.NoError(t, err)

	_, err = NewIssuer("wrong-secret").Verify(tok, KindAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyMalformed(t *testing.T) {
	t.Parallel()

	_, err := NewIssuer("k").Verify("not.a.jwt", KindAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
