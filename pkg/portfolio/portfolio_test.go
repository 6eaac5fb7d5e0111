package portfolio_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	// Packages
	portfolio "github.com/mutablelogic/go-jack/pkg/portfolio"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

// echoBin writes a stand-in tool which prints its arguments
func echoBin(t *testing.T, name string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not supported on windows")
	}
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\necho \"$@\"\n"), 0o755))
	return path
}

func Test_ideas_001(t *testing.T) {
	assert := assert.New(t)
	ideas, err := portfolio.NewIdeas(echoBin(t, "icli"))
	require.NoError(t, err)
	ctx := context.Background()

	out, err := ideas.Search(ctx, "garden")
	assert.NoError(err)
	assert.Equal("search garden", out)

	out, err = ideas.Ideas(ctx, "")
	assert.NoError(err)
	assert.Equal("ideas", out)

	out, err = ideas.Ideas(ctx, "robots")
	assert.NoError(err)
	assert.Equal("ideas -q robots", out)

	out, err = ideas.Idea(ctx, "jack")
	assert.NoError(err)
	assert.Equal("ideas show jack", out)

	out, err = ideas.Projects(ctx, " ")
	assert.NoError(err)
	assert.Equal("projects", out)

	out, err = ideas.Project(ctx, "forest")
	assert.NoError(err)
	assert.Equal("projects summary forest", out)
}

func Test_novels_001(t *testing.T) {
	assert := assert.New(t)
	novels, err := portfolio.NewNovels(echoBin(t, "ncli"))
	require.NoError(t, err)
	ctx := context.Background()

	out, err := novels.List(ctx, "")
	assert.NoError(err)
	assert.Equal("ls", out)

	out, err = novels.List(ctx, "winter")
	assert.NoError(err)
	assert.Equal("ls -q winter", out)

	out, err = novels.Show(ctx, "winter")
	assert.NoError(err)
	assert.Equal("show winter", out)
}
