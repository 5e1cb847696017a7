package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfo_String(t *testing.T) {
	info := Info{Version: "v0.3.1", CommitHash: "abcdef0123", BuildTime: "2024-05-01"}
	assert.Equal(t, "sembrowse v0.3.1 (commit abcdef0123, built 2024-05-01)", info.String())
	assert.Equal(t, "abcdef0", info.Short())
	assert.Equal(t, "abc", Info{CommitHash: "abc"}.Short())
}

func TestInfo_Semver(t *testing.T) {
	v, err := Info{Version: "v1.2.3"}.Semver()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v.Major())

	_, err = Info{Version: "dev"}.Semver()
	assert.Error(t, err)
}

func TestInfo_IsRelease(t *testing.T) {
	assert.True(t, Info{Version: "1.0.0"}.IsRelease())
	assert.False(t, Info{Version: "1.0.0-rc.1"}.IsRelease())
	assert.False(t, Info{Version: "dev"}.IsRelease())
}
