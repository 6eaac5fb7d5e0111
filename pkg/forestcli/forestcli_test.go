package forestcli_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	// Packages
	jack "github.com/mutablelogic/go-jack"
	forestcli "github.com/mutablelogic/go-jack/pkg/forestcli"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

// fakeForest writes a forest stand-in which records its arguments and
// standard input, then prints the fixed output
func fakeForest(t *testing.T, output string) (string, string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not supported on windows")
	}
	dir := t.TempDir()
	bin := filepath.Join(dir, "forest")
	log := filepath.Join(dir, "args")
	body := "#!/bin/sh\n" +
		"echo \"$@\" > " + log + "\n" +
		"if [ ! -t 0 ]; then cat >> " + log + "; fi\n" +
		"cat <<'JSON'\n" + output + "\nJSON\n"
	require.NoError(t, os.WriteFile(bin, []byte(body), 0o755))
	return bin, log
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.TrimSpace(string(data))
}

func Test_forestcli_001(t *testing.T) {
	assert := assert.New(t)
	bin, log := fakeForest(t, `{"query":"rust","results":[{"id":"abcdef1234","title":"Macros","similarity":0.91}],"total":1}`)

	client, err := forestcli.New(bin)
	require.NoError(t, err)

	result, err := client.Search(context.Background(), "rust", 5)
	require.NoError(t, err)
	assert.Equal("rust", result.Query)
	assert.Equal(1, result.Total)
	require.Len(t, result.Results, 1)
	assert.Equal("abcdef12", result.Results[0].ShortID())
	assert.Equal("search rust --limit 5 --json", readLog(t, log))
}

func Test_forestcli_002(t *testing.T) {
	assert := assert.New(t)
	bin, log := fakeForest(t, `{"node":{"id":"abcd","title":"Note","body":"full body"}}`)

	client, err := forestcli.New(bin)
	require.NoError(t, err)

	result, err := client.Read(context.Background(), "abcd")
	require.NoError(t, err)
	assert.Equal("Note", result.Node.Title)
	assert.Equal("full body", result.Body)
	assert.Equal("read abcd --json", readLog(t, log))
}

func Test_forestcli_003(t *testing.T) {
	assert := assert.New(t)
	bin, log := fakeForest(t, `{"node":{"id":"new1","title":"Idea"},"links":{"accepted":2}}`)

	client, err := forestcli.New(bin)
	require.NoError(t, err)

	result, err := client.Capture(context.Background(), "Idea", "the body text", "project:jack")
	require.NoError(t, err)
	assert.Equal(2, result.Links.Accepted)

	lines := strings.Split(readLog(t, log), "\n")
	assert.Equal("capture --title Idea --stdin --tags project:jack --json", lines[0])
	assert.Equal("the body text", lines[len(lines)-1])
}

func Test_forestcli_004(t *testing.T) {
	assert := assert.New(t)
	bin, _ := fakeForest(t, `{"counts":{"nodes":10,"edges":20},"degree":{"avg":4.0,"median":3,"p90":8,"max":12}}`)

	client, err := forestcli.New(bin)
	require.NoError(t, err)

	result, err := client.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(10, result.Counts.Nodes)
	assert.Equal(20, result.Counts.Edges)
	assert.Equal(float64(12), result.Degree.Max)

	_, err = client.Synthesize(context.Background(), []string{"a", "b"})
	assert.ErrorIs(err, jack.ErrNotImplemented)
	assert.Contains(err.Error(), "synthesize is not supported in cli mode")
}

func Test_forestcli_005(t *testing.T) {
	assert := assert.New(t)
	bin, _ := fakeForest(t, `not json`)

	client, err := forestcli.New(bin)
	require.NoError(t, err)

	_, err = client.Stats(context.Background())
	assert.ErrorIs(err, jack.ErrInternalServerError)
}
