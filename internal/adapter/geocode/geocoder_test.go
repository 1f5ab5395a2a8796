package geocode

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openhaus/listing-service/internal/listing/domain"
	"github.com/openhaus/listing-service/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard)
}

func TestResolve_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "221B Baker Street, London", r.URL.Query().Get("address"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Write([]byte(`{
			"status": "OK",
			"results": [{
				"formatted_address": "221B Baker St, London NW1 6XE, UK",
				"geometry": {"location": {"lat": 51.523767, "lng": -0.1585557}}
			}]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", testLogger())
	res, err := c.Resolve(context.Background(), "221B Baker Street, London")
	require.NoError(t, err)
	assert.Equal(t, 51.523767, res.Lat)
	assert.Equal(t, -0.1585557, res.Lng)
	assert.Equal(t, "221B Baker St, London NW1 6XE, UK", res.FormattedAddress)
}

func TestResolve_ZeroResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", testLogger())
	_, err := c.Resolve(context.Background(), "nowhere at all")
	assert.ErrorIs(t, err, domain.ErrAddressUnresolved)
}

func TestResolve_EmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "OK", "results": []}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", testLogger())
	_, err := c.Resolve(context.Background(), "somewhere")
	assert.ErrorIs(t, err, domain.ErrAddressUnresolved)
}

func TestResolve_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad-key", testLogger())
	_, err := c.Resolve(context.Background(), "somewhere")
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrAddressUnresolved))
}
