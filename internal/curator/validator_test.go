package curator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAPI(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/jdoe":
			if r.Header.Get("Authorization") == "Bearer secret" {
				w.Header().Set("X-Authed", "1")
			}
			_, _ = w.Write([]byte(`{"login":"JDoe","id":42}`))
		case "/users/imposter":
			_, _ = w.Write([]byte(`{"login":"someone-else"}`))
		case "/users/garbled":
			_, _ = w.Write([]byte(`{`))
		case "/users/ratelimited":
			w.WriteHeader(http.StatusForbidden)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestValidateKnownLogin(t *testing.T) {
	srv := newAPI(t)
	v := NewValidator(srv.URL+"/", WithToken("secret"), WithHTTPClient(srv.Client()))
	require.NoError(t, v.Validate(context.Background(), "jdoe"))
}

func TestValidateFailures(t *testing.T) {
	srv := newAPI(t)
	v := NewValidator(srv.URL)

	err := v.Validate(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrUnknownCurator)

	err = v.Validate(context.Background(), "imposter")
	assert.ErrorIs(t, err, ErrUnknownCurator)

	err = v.Validate(context.Background(), "ratelimited")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownCurator)
	assert.Contains(t, err.Error(), "unexpected status")

	err = v.Validate(context.Background(), "garbled")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")

	assert.ErrorIs(t, v.Validate(context.Background(), " "), ErrEmptyLogin)
}

func TestValidateHonoursContext(t *testing.T) {
	srv := newAPI(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewValidator(srv.URL).Validate(ctx, "jdoe")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDefaultURL(t *testing.T) {
	assert.Equal(t, DefaultAPIURL, NewValidator("").baseURL)
}
