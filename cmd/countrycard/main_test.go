package main

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"countrycard/internal/app"
	"countrycard/internal/card"
	"countrycard/internal/config"
	"countrycard/internal/country"
	"countrycard/internal/recent"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const peruJSON = `[{"name":{"common":"Peru","official":"Republic of Peru"},
	"capital":["Lima"],"region":"Americas","subregion":"South America",
	"population":32971846,"area":1285216,
	"currencies":{"PEN":{"name":"Peruvian sol","symbol":"S/ "}},
	"languages":{"spa":"Spanish","que":"Quechua"},
	"timezones":["UTC-05:00"],"borders":["BOL","BRA"],
	"flags":{"svg":"https://flagcdn.com/pe.svg"},"latlng":[-10,-76],
	"car":{"side":"right"}}]`

func newAPI(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.EqualFold(r.URL.Path, "/name/peru") {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, peruJSON)
			return
		}
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"status":404,"message":"Not Found"}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// writeConfig points the CLI at srv and a storage file under a temp dir.
func writeConfig(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := fmt.Sprintf(`api:
  base_url: %s
  timeout: 5s
  max_retries: 0
storage:
  backend: file
  file_path: %s
logging:
  level: error
`, srv.URL, filepath.Join(dir, "storage.json"))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	lookupJSON, exportOut, storageFlag, verbose, configForce = false, "", "", false, false

	var out, errOut bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestCLI_LookupAndRecent(t *testing.T) {
	srv := newAPI(t)
	conf := writeConfig(t, srv)

	out, _, err := execute(t, "", "--config", conf, "lookup", "peru")
	require.NoError(t, err)
	assert.Contains(t, out, "Republic of Peru")
	assert.Contains(t, out, "32,971,846")
	assert.Contains(t, out, "Peruvian sol (S/)")

	_, errOut, err := execute(t, "", "--config", conf, "lookup", "atlantis")
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, errOut, "Country not found")

	out, _, err = execute(t, "", "--config", conf, "recent")
	require.NoError(t, err)
	assert.Equal(t, "1. Peru\n", out)

	out, _, err = execute(t, "", "--config", conf, "recent", "pick", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Republic of Peru")

	_, errOut, err = execute(t, "", "--config", conf, "recent", "pick", "4")
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, errOut, "No recent search with that number.")

	out, _, err = execute(t, "", "--config", conf, "recent", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "cleared")

	out, _, err = execute(t, "", "--config", conf, "recent")
	require.NoError(t, err)
	assert.Equal(t, "No recent searches.\n", out)
}

func TestCLI_RootArgsLookup(t *testing.T) {
	srv := newAPI(t)
	conf := writeConfig(t, srv)

	out, _, err := execute(t, "", "--config", conf, "Peru")
	require.NoError(t, err)
	assert.Contains(t, out, "Lima")
}

func TestCLI_LookupJSON(t *testing.T) {
	srv := newAPI(t)
	conf := writeConfig(t, srv)

	out, _, err := execute(t, "", "--config", conf, "lookup", "--json", "peru")
	require.NoError(t, err)
	assert.Contains(t, out, `"officialName": "Republic of Peru"`)
}

func TestCLI_Export(t *testing.T) {
	srv := newAPI(t)
	conf := writeConfig(t, srv)
	dest := filepath.Join(t.TempDir(), "peru.docx")

	out, _, err := execute(t, "", "--config", conf, "export", "peru", "--out", dest)
	require.NoError(t, err)
	assert.Contains(t, out, dest)
	assert.FileExists(t, dest)
}

func TestCLI_Interactive(t *testing.T) {
	srv := newAPI(t)
	conf := writeConfig(t, srv)

	out, _, err := execute(t, "peru\n#1\nquit\n", "--config", conf)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "Republic of Peru"))
}

func TestCLI_InvalidStorage(t *testing.T) {
	srv := newAPI(t)
	conf := writeConfig(t, srv)

	_, _, err := execute(t, "", "--config", conf, "--storage", "tape", "recent")
	assert.Error(t, err)
}

func TestDocxName(t *testing.T) {
	assert.Equal(t, "united-kingdom.docx", docxName("United Kingdom"))
	assert.Equal(t, "acdc.docx", docxName("a/c:d\\c"))
	assert.Equal(t, "country.docx", docxName("  "))
}

func TestPrintResult_StorageWarningGoesToStderr(t *testing.T) {
	var out, errOut bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	res := &app.LookupResult{
		Card:   country.Projection{CommonName: "Peru", OfficialName: "Republic of Peru", MapURL: country.NoMapURL},
		Recent: recent.List{"Peru"},
	}
	printResult(cmd, card.NewRenderer(0), res)
	assert.Contains(t, out.String(), "Republic of Peru")
	assert.Empty(t, errOut.String())

	res.StorageWarning = &recent.StorageError{Op: "write", Key: recent.DefaultKey, Err: errors.New("disk full")}
	printResult(cmd, card.NewRenderer(0), res)
	assert.Contains(t, errOut.String(), msgSessionOnly)
}

func TestCLI_ConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "countrycard", "config.yaml")

	out, _, err := execute(t, "", "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, path)

	got, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Storage.Key, got.Storage.Key)
	assert.Equal(t, config.DefaultConfig().API.RatePerSecond, got.API.RatePerSecond)

	_, _, err = execute(t, "", "--config", path, "config", "init")
	assert.ErrorContains(t, err, "already exists")

	_, _, err = execute(t, "", "--config", path, "config", "init", "--force")
	assert.NoError(t, err)
}
