package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3nha"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewService(Options{
		SigningKey: "test-key",
		Issuer:     "talentboard-test",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
		Users:      map[string]string{"rh": string(hash)},
	})
}

func TestLogin(t *testing.T) {
	svc := newTestService(t)

	pair, err := svc.Login("rh", "s3nha")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)

	claims, err := svc.ValidateAccess(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, "rh", claims.Username)
	assert.NotEmpty(t, claims.SessionID)

	_, err = svc.Login("rh", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login("ghost", "s3nha")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh(t *testing.T) {
	svc := newTestService(t)
	pair, err := svc.Login("rh", "s3nha")
	require.NoError(t, err)

	access, err := svc.Refresh(pair.Refresh)
	require.NoError(t, err)
	claims, err := svc.ValidateAccess(access)
	require.NoError(t, err)

	original, err := svc.ValidateAccess(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, original.SessionID, claims.SessionID)

	_, err = svc.Refresh(pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken, "access token must not refresh")
}

func TestValidateAccess_RejectsRefreshAndForeignTokens(t *testing.T) {
	svc := newTestService(t)
	pair, err := svc.Login("rh", "s3nha")
	require.NoError(t, err)

	_, err = svc.ValidateAccess(pair.Refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewService(Options{SigningKey: "other-key", Issuer: "talentboard-test", AccessTTL: time.Minute, RefreshTTL: time.Hour})
	_, err = other.ValidateAccess(pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateAccess("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAccess_Expired(t *testing.T) {
	svc := newTestService(t)
	pair, err := svc.Login("rh", "s3nha")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = svc.ValidateAccess(pair.Access)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("pw")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("pw")))
}

func TestRequireAuth(t *testing.T) {
	svc := newTestService(t)
	pair, err := svc.Login("rh", "s3nha")
	require.NoError(t, err)

	var seen string
	h := RequireAuth(svc, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = Username(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name     string
		setup    func(r *http.Request)
		wantCode int
	}{
		{"no token", func(*http.Request) {}, http.StatusUnauthorized},
		{"garbage bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
		{"refresh token as bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+pair.Refresh) }, http.StatusUnauthorized},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+pair.Access) }, http.StatusNoContent},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: AccessCookie, Value: pair.Access}) }, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			req := httptest.NewRequest(http.MethodGet, "/api/applicants/", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusNoContent {
				assert.Equal(t, "rh", seen)
			} else {
				assert.Contains(t, rec.Body.String(), `"error":"unauthorized"`)
			}
		})
	}
}
