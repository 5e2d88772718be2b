package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const portalRosterJSON = `{"pokemons":[
	{"pokemon_name":"皮卡丘","pokemon_type_name":"電","height":"0.4","weight":"6.0","file_name":"/img/pokemon/025.png"},
	{"pokemon_name":"妙蛙種子","pokemon_type_name":"草,毒","height":"0.7","weight":"6.9","file_name":"/img/pokemon/001.png"}
]}`

// newPortalServer fakes the portal API: key_word searches match exact names,
// a=1 returns the full roster.
func newPortalServer(t *testing.T, rosterHits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		q := r.URL.Query()
		switch {
		case q.Get("a") == "1":
			if rosterHits != nil {
				rosterHits.Add(1)
			}
			fmt.Fprint(w, portalRosterJSON)
		case q.Get("key_word") == "皮卡丘" || q.Get("key_word") == "Pikachu":
			fmt.Fprint(w, `{"pokemons":[{"pokemon_name":"皮卡丘","pokemon_type_name":"電","height":"0.4","weight":"6.0","file_name":"/img/pokemon/025.png"}]}`)
		case q.Get("key_word") == "妙蛙種子":
			fmt.Fprint(w, `{"pokemons":[{"pokemon_name":"妙蛙種子","pokemon_type_name":"","height":"0.7","weight":"6.9","file_name":""}]}`)
		case q.Has("key_word"):
			fmt.Fprint(w, `{"pokemons":[]}`)
		default:
			http.Error(w, "bad request", http.StatusBadRequest)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestPortal(t *testing.T, baseURL string, ttl time.Duration) *PortalService {
	t.Helper()
	return NewPortalService(PortalOptions{
		BaseURL:        baseURL,
		ImageBaseURL:   "https://images.example/pokedex/",
		Timeout:        2 * time.Second,
		RosterCacheTTL: ttl,
	}, zaptest.NewLogger(t).Sugar())
}

func TestPortalService_LookupByName(t *testing.T) {
	srv := newPortalServer(t, nil)
	portal := newTestPortal(t, srv.URL, 0)

	lookup, err := portal.LookupByName(context.Background(), "Pikachu")
	require.NoError(t, err)
	assert.True(t, lookup.Matched)
	assert.Equal(t, "皮卡丘", lookup.LocalizedName)
	require.NotNil(t, lookup.Type)
	assert.Equal(t, "電", *lookup.Type)
}

func TestPortalService_LookupByName_NoMatchEchoesQuery(t *testing.T) {
	srv := newPortalServer(t, nil)
	portal := newTestPortal(t, srv.URL, 0)

	lookup, err := portal.LookupByName(context.Background(), "Bulbasaur")
	require.NoError(t, err)
	assert.False(t, lookup.Matched)
	assert.Equal(t, "Bulbasaur", lookup.LocalizedName)
	assert.Nil(t, lookup.Type)
}

func TestPortalService_LookupByName_Failures(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := newTestPortal(t, srv.URL, 0).LookupByName(context.Background(), "Pikachu")
		assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	})

	t.Run("malformed json", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `<html>maintenance</html>`)
		}))
		defer srv.Close()

		_, err := newTestPortal(t, srv.URL, 0).LookupByName(context.Background(), "Pikachu")
		assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	})

	t.Run("transport", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()

		_, err := newTestPortal(t, srv.URL, 0).LookupByName(context.Background(), "Pikachu")
		assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	})
}

func TestPortalService_FetchRoster(t *testing.T) {
	var hits atomic.Int32
	srv := newPortalServer(t, &hits)
	portal := newTestPortal(t, srv.URL, 0)

	roster, err := portal.FetchRoster(context.Background())
	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.Equal(t, "皮卡丘", roster[0].Name)

	_, err = portal.FetchRoster(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load(), "roster is re-fetched when the cache is disabled")
}

func TestPortalService_FetchRoster_Cached(t *testing.T) {
	var hits atomic.Int32
	srv := newPortalServer(t, &hits)
	portal := newTestPortal(t, srv.URL, time.Minute)

	for i := 0; i < 3; i++ {
		roster, err := portal.FetchRoster(context.Background())
		require.NoError(t, err)
		assert.Len(t, roster, 2)
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestPortalService_FetchRoster_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	roster, err := newTestPortal(t, srv.URL, time.Minute).FetchRoster(context.Background())
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.Empty(t, roster)
}

func TestPortalService_FetchImageURL(t *testing.T) {
	srv := newPortalServer(t, nil)
	portal := newTestPortal(t, srv.URL, 0)

	url, err := portal.FetchImageURL(context.Background(), "皮卡丘")
	require.NoError(t, err)
	assert.Equal(t, "https://images.example/pokedex/img/pokemon/025.png", url)

	url, err = portal.FetchImageURL(context.Background(), "妙蛙種子")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, url)

	url, err = portal.FetchImageURL(context.Background(), "不存在")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, url)
}

func TestPortalService_RespectsContext(t *testing.T) {
	srv := newPortalServer(t, nil)
	portal := newTestPortal(t, srv.URL, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := portal.LookupByName(ctx, "Pikachu")
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}
