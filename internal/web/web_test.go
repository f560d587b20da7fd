package web

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDistHasIndex(t *testing.T) {
	dist, err := Dist()
	require.NoError(t, err)
	info, err := fs.Stat(dist, "index.html")
	require.NoError(t, err)
	require.False(t, info.IsDir())
}
