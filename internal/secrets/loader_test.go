package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPrefersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	require.NoError(t, os.WriteFile(path, []byte("  from-file\n"), 0o600))
	t.Setenv("NAWASENA_TEST_KEY", "from-env")

	got, err := Load(Source{Name: "api key", Value: "inline", File: path, Env: "NAWASENA_TEST_KEY"})
	require.NoError(t, err)
	assert.Equal(t, "from-file", got)
}

func TestLoadFallsBackToEnv(t *testing.T) {
	t.Setenv("NAWASENA_TEST_KEY", " from-env ")

	got, err := Load(Source{Name: "api key", Env: "NAWASENA_TEST_KEY"})
	require.NoError(t, err)
	assert.Equal(t, "from-env", got)

	got, err = Load(Source{Name: "api key", Value: "inline", Env: "NAWASENA_TEST_KEY"})
	require.NoError(t, err)
	assert.Equal(t, "inline", got)
}

func TestLoadErrors(t *testing.T) {
	t.Setenv("NAWASENA_TEST_KEY", "")

	_, err := Load(Source{Name: "api key", Env: "NAWASENA_TEST_KEY"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NAWASENA_TEST_KEY")

	empty := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	_, err = Load(Source{Name: "api key", File: empty})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is empty")

	_, err = Load(Source{File: filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading secret")
}
