package version_test

import (
	"encoding/json"
	"runtime"
	"testing"

	// Packages
	version "github.com/mutablelogic/go-jack/pkg/version"
	assert "github.com/stretchr/testify/assert"
)

func Test_version_001(t *testing.T) {
	assert := assert.New(t)

	info := version.Get("jack")
	assert.Equal("jack", info.Name)
	assert.Equal(runtime.Version(), info.Compiler)
	assert.NotEmpty(info.Version)
	assert.Equal(info.Version, version.Version())

	var decoded map[string]any
	assert.NoError(json.Unmarshal([]byte(info.String()), &decoded))
	assert.Equal("jack", decoded["name"])
}

func Test_version_002(t *testing.T) {
	assert := assert.New(t)

	version.GitTag = "v1.2.3"
	defer func() { version.GitTag = "" }()
	assert.Equal("v1.2.3", version.Version())
	assert.Equal("v1.2.3", version.Get("jack").Tag)
}
