package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupUpstreams(t *testing.T) {
	t.Helper()
	portal := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Query().Get("a") == "1":
			fmt.Fprint(w, `{"pokemons":[{"pokemon_name":"皮卡丘","pokemon_type_name":"電","height":"0.4","weight":"6.0","file_name":"/025.png"}]}`)
		case r.URL.Query().Get("key_word") == "皮卡丘", r.URL.Query().Get("key_word") == "Pikachu":
			fmt.Fprint(w, `{"pokemons":[{"pokemon_name":"皮卡丘","pokemon_type_name":"電","height":"0.4","weight":"6.0","file_name":"/025.png"}]}`)
		default:
			fmt.Fprint(w, `{"pokemons":[]}`)
		}
	}))
	t.Cleanup(portal.Close)

	wiki := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<table><tr><th>中文</th><th>日文</th><th>英文</th></tr>
<tr><td>皮卡丘</td><td>ピカチュウ</td><td>Pikachu</td></tr></table>`)
	}))
	t.Cleanup(wiki.Close)

	t.Setenv("PORTAL_BASE_URL", portal.URL)
	t.Setenv("PORTAL_IMAGE_BASE_URL", "https://images.example")
	t.Setenv("WIKI_URL", wiki.URL)
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestNameCmd(t *testing.T) {
	setupUpstreams(t)

	out, err := run(t, "name", "Pikachu")
	require.NoError(t, err)

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &record))
	assert.Equal(t, "皮卡丘", record["name"])
	assert.Equal(t, "電", record["type"])
	assert.Equal(t, "https://play.pokemonshowdown.com/sprites/gen5/pikachu.png", record["image_url"])
}

func TestNameCmd_NotFound(t *testing.T) {
	setupUpstreams(t)

	_, err := run(t, "name", "Bulbasaur")
	assert.ErrorIs(t, err, errNotFound)
}

func TestBodyCmd(t *testing.T) {
	setupUpstreams(t)

	out, err := run(t, "body", "--height", "40", "--weight", "6")
	require.NoError(t, err)

	var match map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &match))
	nearby, ok := match["nearby_pokemon"].([]any)
	require.True(t, ok)
	assert.Len(t, nearby, 1)
	assert.Equal(t, "https://images.example/025.png", match["highlighted"].(map[string]any)["image_url"])
}

func TestBodyCmd_Validation(t *testing.T) {
	setupUpstreams(t)

	_, err := run(t, "body", "--height", "40")
	assert.Error(t, err)

	_, err = run(t, "body", "--height", "0", "--weight", "6")
	assert.Error(t, err)
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "pokefinder version")
}
