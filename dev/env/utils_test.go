package devenv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func fakeWorkspace(t *testing.T) string {
	root := t.TempDir()
	err := os.WriteFile(filepath.Join(root, "go.mod"), []byte("module tsb-banking\n\ngo 1.24.0\n"), 0600)
	if err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "lib", "scrapers")
	err = os.MkdirAll(nested, 0777)
	if err != nil {
		t.Fatal(err)
	}
	t.Chdir(nested)
	return root
}

func TestResolvePath(t *testing.T) {
	root := fakeWorkspace(t)

	path, err := ResolvePath("<dev_state>/resty")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "dev", ".state", "resty"), path)

	path, err = ResolvePath("plain/dir")
	require.NoError(t, err)
	require.Equal(t, "plain/dir", path)
}

func TestGetStateConfig(t *testing.T) {
	root := fakeWorkspace(t)

	_, err := GetStateConfig[LiveTestConfig]("tsb_config.json5")
	require.ErrorIs(t, err, os.ErrNotExist)

	state := filepath.Join(root, "dev", ".state")
	require.NoError(t, os.MkdirAll(state, 0777))
	err = os.WriteFile(filepath.Join(state, "tsb_config.json5"), []byte(`{username: "alice", password: "secret"}`), 0600)
	require.NoError(t, err)

	cfg, err := GetStateConfig[LiveTestConfig]("tsb_config.json5")
	require.NoError(t, err)
	require.Equal(t, LiveTestConfig{Username: "alice", Password: "secret"}, cfg)
}
