package enterprise

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/outofforest/enterprise/pkg/media"
	"github.com/outofforest/enterprise/pkg/test"
)

func prepareRoot(t *testing.T, files map[string]string) string {
	dir := t.TempDir()
	for path, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o700))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o600))
	}
	return dir
}

func TestRunHaltsWhenCoreFilesMissing(t *testing.T) {
	ctx := test.Context(t)

	err := Run(ctx, Config{Root: prepareRoot(t, nil)})
	require.EqualError(t, err, "core files are missing or damaged")
}

func TestRunHaltsOnUnsupportedFamily(t *testing.T) {
	ctx := test.Context(t)

	root := prepareRoot(t, map[string]string{
		"efi/boot/.MLUL-Live-USB": "entry=Test\nfamily=unknownos\n",
		"efi/boot/boot.efi":       "loader",
		"efi/boot/boot.iso":       "iso",
	})

	err := Run(ctx, Config{Root: root})
	require.EqualError(t, err, "core files are missing or damaged")
}

func TestBuildStore(t *testing.T) {
	ctx := test.Context(t)

	root := prepareRoot(t, map[string]string{
		"efi/boot/.MLUL-Live-USB": "entry=Ubuntu Live\nfamily=ubuntu\n",
	})

	store, err := buildStore(ctx, media.Dir(root))
	require.NoError(t, err)
	require.Equal(t, []string{"Ubuntu Live"}, store.Names())
}

func TestBuildStoreEmptyConfig(t *testing.T) {
	ctx := test.Context(t)

	root := prepareRoot(t, map[string]string{
		"efi/boot/.MLUL-Live-USB": "\n",
	})

	_, err := buildStore(ctx, media.Dir(root))
	require.Error(t, err)
}

func TestBuildStoreUnsupportedFamily(t *testing.T) {
	ctx := test.Context(t)

	root := prepareRoot(t, map[string]string{
		"efi/boot/.MLUL-Live-USB": "entry=Test\nfamily=unknownos\n",
	})

	_, err := buildStore(ctx, media.Dir(root))
	require.EqualError(t, err, "family unknownos is not supported")
}
