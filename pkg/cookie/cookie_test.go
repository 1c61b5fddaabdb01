package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melodia-app/backend/pkg/cookie"
)

func TestSetGet(t *testing.T) {
	t.Parallel()

	m := cookie.New(cookie.WithSameSite(http.SameSiteStrictMode), cookie.WithSecure(true))

	rec := httptest.NewRecorder()
	m.Set(rec, "refreshToken", "token-value", cookie.WithMaxAge(3600))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, "refreshToken", c.Name)
	assert.Equal(t, "token-value", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 3600, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)

	value, err := m.Get(req, "refreshToken")
	require.NoError(t, err)
	assert.Equal(t, "token-value", value)
}

func TestGetMissing(t *testing.T) {
	t.Parallel()

	m := cookie.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := m.Get(req, "refreshToken")
	assert.ErrorIs(t, err, cookie.ErrCookieNotFound)
}

func TestDelete(t *testing.T) {
	t.Parallel()

	m := cookie.New(cookie.WithSameSite(http.SameSiteStrictMode))

	rec := httptest.NewRecorder()
	m.Delete(rec, "refreshToken")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, "refreshToken", c.Name)
	assert.Empty(t, c.Value)
	assert.Equal(t, -1, c.MaxAge)
}

func TestDeleteMatchesSetAttributes(t *testing.T) {
	t.Parallel()

	m := cookie.New()
	opts := []cookie.Option{
		cookie.WithSameSite(http.SameSiteStrictMode),
		cookie.WithSecure(true),
	}

	rec := httptest.NewRecorder()
	m.Set(rec, "refreshToken", "token-value", opts...)
	m.Delete(rec, "refreshToken", opts...)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	set, del := cookies[0], cookies[1]

	// Browsers only replace the cookie when these attributes line up.
	assert.Equal(t, set.Path, del.Path)
	assert.Equal(t, set.Secure, del.Secure)
	assert.Equal(t, set.SameSite, del.SameSite)
	assert.Equal(t, set.HttpOnly, del.HttpOnly)
	assert.Equal(t, -1, del.MaxAge)
	assert.Empty(t, del.Value)
}
