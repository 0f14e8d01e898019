package utils

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
	PasswordCost = bcrypt.MinCost
}

type revokedSet struct {
	ids map[string]bool
	err error
}

func (r revokedSet) IsRevoked(_ context.Context, id string) (bool, error) {
	return r.ids[id], r.err
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, CheckPasswordHash("s3cret", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	token, issued, err := tm.Issue("user-1", "alice", "ADMIN")
	require.NoError(t, err)

	claims, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.Equal(t, issued.ID, claims.ID)
}

func TestTokenExpired(t *testing.T) {
	issuedAt := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	tm := NewTokenManager("secret", time.Hour)
	tm.now = func() time.Time { return issuedAt }
	token, _, err := tm.Issue("user-1", "alice", "STAFF")
	require.NoError(t, err)

	tm.now = func() time.Time { return issuedAt.Add(2 * time.Hour) }
	_, err = tm.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("one", time.Hour).Issue("user-1", "alice", "STAFF")
	require.NoError(t, err)

	_, err = NewTokenManager("two", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("bearer  abc "))
	assert.Equal(t, "abc", BearerToken("abc"))
	assert.Equal(t, "", BearerToken(""))
}

type storedRoles struct {
	roles map[string]string
	err   error
}

func (s storedRoles) CurrentRole(_ context.Context, userID string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	role, ok := s.roles[userID]
	if !ok {
		return "", ErrUnknownUser
	}
	return role, nil
}

func newProtectedRouter(tm *TokenManager, revoked RevocationChecker, roles ...string) *gin.Engine {
	return newRoleCheckedRouter(tm, revoked, nil, roles...)
}

func newRoleCheckedRouter(tm *TokenManager, revoked RevocationChecker, lookup RoleLookup, roles ...string) *gin.Engine {
	r := gin.New()
	handlers := []gin.HandlerFunc{AuthMiddleware(tm, revoked)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRole(lookup, roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": c.GetString(CtxUsername)})
	})
	r.GET("/protected", handlers...)
	return r
}

func doGet(r http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	token, claims, err := tm.Issue("user-1", "alice", "STAFF")
	require.NoError(t, err)

	t.Run("missing header", func(t *testing.T) {
		w := doGet(newProtectedRouter(tm, nil), "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Authorization header required")
	})

	t.Run("garbage token", func(t *testing.T) {
		w := doGet(newProtectedRouter(tm, nil), "Bearer nope")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid or expired token")
	})

	t.Run("valid token", func(t *testing.T) {
		w := doGet(newProtectedRouter(tm, revokedSet{}), "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "alice")
	})

	t.Run("revoked token", func(t *testing.T) {
		w := doGet(newProtectedRouter(tm, revokedSet{ids: map[string]bool{claims.ID: true}}), "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "logged out")
	})

	t.Run("revocation lookup fails", func(t *testing.T) {
		w := doGet(newProtectedRouter(tm, revokedSet{err: errors.New("redis down")}), "Bearer "+token)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("role not allowed", func(t *testing.T) {
		w := doGet(newProtectedRouter(tm, nil, "ADMIN"), "Bearer "+token)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "Insufficient permissions")
	})

	t.Run("role allowed", func(t *testing.T) {
		w := doGet(newProtectedRouter(tm, nil, "ADMIN", "STAFF"), "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequireRoleUsesStoredRole(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	token, _, err := tm.Issue("user-1", "alice", "ADMIN")
	require.NoError(t, err)

	t.Run("demoted admin", func(t *testing.T) {
		lookup := storedRoles{roles: map[string]string{"user-1": "STAFF"}}
		w := doGet(newRoleCheckedRouter(tm, nil, lookup, "ADMIN"), "Bearer "+token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("deleted admin", func(t *testing.T) {
		w := doGet(newRoleCheckedRouter(tm, nil, storedRoles{}, "ADMIN"), "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "User no longer exists")
	})

	t.Run("still admin", func(t *testing.T) {
		lookup := storedRoles{roles: map[string]string{"user-1": "ADMIN"}}
		w := doGet(newRoleCheckedRouter(tm, nil, lookup, "ADMIN"), "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("lookup fails", func(t *testing.T) {
		w := doGet(newRoleCheckedRouter(tm, nil, storedRoles{err: errors.New("db down")}, "ADMIN"), "Bearer "+token)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
