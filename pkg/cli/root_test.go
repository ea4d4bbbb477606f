package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/modsearch/pkg/search"
)

func newFakeIndex(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/repos.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"path":"alpha"}]`))
	})
	mux.HandleFunc("/alpha/full.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("weather\nweb\nnotes\n"))
	})
	mux.HandleFunc("/alpha/weather.py", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("# Name: Weather\n# Description: Forecasts\n# meta developer: @dev\n"))
	})
	mux.HandleFunc("/alpha/web.py", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(""))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestNewRootCommand(t *testing.T) {
	root := NewRootCommand()
	assert.Equal(t, "modsearch-cli", root.Name())

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"search", "inspect"}, names)

	for _, flag := range []string{"index-url", "format", "timeout", "concurrency", "verbose"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}

func TestSearchCommand_Table(t *testing.T) {
	index := newFakeIndex(t)

	out, err := run(t, "--index-url", index.URL, "--format", "header", "search", "we", "--details")
	require.NoError(t, err)

	assert.Contains(t, out, "RATIO")
	assert.Contains(t, out, "weather")
	assert.Contains(t, out, "Weather")
	assert.Contains(t, out, "@dev")
	assert.Contains(t, out, "weather: Forecasts")
	assert.NotContains(t, out, "notes")
}

func TestSearchCommand_JSON(t *testing.T) {
	index := newFakeIndex(t)

	out, err := run(t, "--index-url", index.URL, "--format", "header", "search", "we", "-n", "1", "--json")
	require.NoError(t, err)

	var resp search.Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "weather", resp.Results[0].Module)
	assert.Equal(t, "Forecasts", *resp.Results[0].Description)
}

func TestSearchCommand_NoResults(t *testing.T) {
	index := newFakeIndex(t)

	out, err := run(t, "--index-url", index.URL, "search", "zzz")
	require.NoError(t, err)
	assert.Contains(t, out, `No modules match "zzz"`)
}

func TestSearchCommand_Errors(t *testing.T) {
	_, err := run(t, "search")
	assert.Error(t, err)

	_, err = run(t, "--index-url", "not a url", "search", "we")
	assert.Error(t, err)

	_, err = run(t, "--format", "toml", "search", "we")
	assert.Error(t, err)
}

func TestInspectCommand(t *testing.T) {
	index := newFakeIndex(t)

	out, err := run(t, "--index-url", index.URL, "--format", "header", "inspect", "alpha", "weather")
	require.NoError(t, err)
	assert.Contains(t, out, "Name:        Weather")
	assert.Contains(t, out, "Developer:   @dev")
	assert.Contains(t, out, "Source:      "+index.URL+"/alpha/weather.py")

	out, err = run(t, "--index-url", index.URL, "inspect", "alpha", "web", "--json")
	require.NoError(t, err)
	var detail map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &detail))
	assert.Equal(t, "No description available", detail["description"])
	assert.Nil(t, detail["name"])

	_, err = run(t, "--index-url", index.URL, "inspect", "alpha")
	assert.Error(t, err)

	_, err = run(t, "--index-url", index.URL, "inspect", "alpha", "missing")
	assert.Error(t, err)
}
