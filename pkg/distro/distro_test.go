package distro

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveKnownFamily(t *testing.T) {
	paths, ok := Resolve("ubuntu")
	require.True(t, ok)
	require.Equal(t, "/casper/vmlinuz", paths.Kernel)
	require.Equal(t, "/casper/initrd.lz", paths.Initrd)
	require.Equal(t, "/casper", paths.BootFolder)
}

func TestResolveUnknownFamily(t *testing.T) {
	paths, ok := Resolve("unknownos")
	require.False(t, ok)
	require.Equal(t, Paths{}, paths)
}

func TestResolvedPathsAgreeOnBootFolder(t *testing.T) {
	for _, family := range Supported() {
		paths, ok := Resolve(family)
		require.True(t, ok)
		require.NotEmpty(t, paths.Kernel, family)
		require.NotEmpty(t, paths.Initrd, family)
		require.NotEmpty(t, paths.BootFolder, family)
		require.Contains(t, paths.Kernel, paths.BootFolder, family)
		require.Contains(t, paths.Initrd, paths.BootFolder, family)
	}
}

func TestSupportedIsSorted(t *testing.T) {
	supported := Supported()
	require.NotEmpty(t, supported)
	require.IsIncreasing(t, supported)
	require.Contains(t, supported, "ubuntu")
	require.Contains(t, supported, "debian")
}
