package places

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUpstream(t *testing.T, status int, body string) (*httptest.Server, *url.URL) {
	t.Helper()

	seen := &url.URL{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = *r.URL
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv, seen
}

func TestAutocomplete(t *testing.T) {
	srv, seen := newUpstream(t, http.StatusOK, `{"status":"OK","predictions":[]}`)
	client := NewClient(srv.URL+"/", "maps-key")

	body, err := client.Autocomplete(context.Background(), "gulberg", "")
	require.NoError(t, err)

	assert.JSONEq(t, `{"status":"OK","predictions":[]}`, string(body))
	assert.Equal(t, "/place/autocomplete/json", seen.Path)
	assert.Equal(t, "gulberg", seen.Query().Get("input"))
	assert.Equal(t, DefaultComponents, seen.Query().Get("components"))
	assert.Equal(t, "maps-key", seen.Query().Get("key"))
}

func TestAutocompleteComponents(t *testing.T) {
	srv, seen := newUpstream(t, http.StatusOK, `{}`)

	_, err := NewClient(srv.URL, "k").Autocomplete(context.Background(), "x", "country:ae")
	require.NoError(t, err)
	assert.Equal(t, "country:ae", seen.Query().Get("components"))
}

func TestDetails(t *testing.T) {
	srv, seen := newUpstream(t, http.StatusOK, `{"result":{}}`)

	_, err := NewClient(srv.URL, "k").Details(context.Background(), "place-1", "")
	require.NoError(t, err)

	assert.Equal(t, "/place/details/json", seen.Path)
	assert.Equal(t, "place-1", seen.Query().Get("place_id"))
	assert.Equal(t, DefaultFields, seen.Query().Get("fields"))
}

func TestGeocode(t *testing.T) {
	srv, seen := newUpstream(t, http.StatusOK, `{"results":[]}`)

	_, err := NewClient(srv.URL, "k").Geocode(context.Background(), "Mall Road, Lahore")
	require.NoError(t, err)

	assert.Equal(t, "/geocode/json", seen.Path)
	assert.Equal(t, "Mall Road, Lahore", seen.Query().Get("address"))
}

func TestUpstreamErrors(t *testing.T) {
	srv, _ := newUpstream(t, http.StatusForbidden, `denied`)
	_, err := NewClient(srv.URL, "k").Geocode(context.Background(), "x")
	assert.EqualError(t, err, "places api returned status 403: denied")

	srv, _ = newUpstream(t, http.StatusOK, `not json`)
	_, err = NewClient(srv.URL, "k").Geocode(context.Background(), "x")
	assert.EqualError(t, err, "places api returned invalid json")
}
