package dotenv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvDetection(t *testing.T) {
	t.Setenv(EnvKey, "")
	assert.Equal(t, DevEnv, Env())
	assert.False(t, IsProdEnv())

	t.Setenv(EnvKey, ProdEnv)
	assert.Equal(t, ProdEnv, Env())
	assert.True(t, IsProdEnv())
}

func TestLoadOrderPrefersLocalFiles(t *testing.T) {
	dir := t.TempDir()
	root := dir + string(filepath.Separator)
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	write(".env", "DOTENV_TEST_SHARED=base\nDOTENV_TEST_ONLY_BASE=base\n")
	write(".env.test", "DOTENV_TEST_SHARED=env\n")
	write(".env.test.local", "DOTENV_TEST_SHARED=env-local\n")

	t.Setenv(EnvKey, TestEnv)
	t.Setenv("DOTENV_TEST_SHARED", "")
	os.Unsetenv("DOTENV_TEST_SHARED")
	t.Setenv("DOTENV_TEST_ONLY_BASE", "")
	os.Unsetenv("DOTENV_TEST_ONLY_BASE")

	loadDotEnvs(root)

	assert.Equal(t, "env-local", os.Getenv("DOTENV_TEST_SHARED"))
	assert.Equal(t, "base", os.Getenv("DOTENV_TEST_ONLY_BASE"))
}

func TestLoadDotEnvsInTestsReadsModuleRoot(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	root := filepath.Join(wd, "..", "..")
	path := filepath.Join(root, ".env.test")
	if _, err := os.Stat(path); err == nil {
		t.Skip(".env.test already exists at the module root")
	}
	require.NoError(t, os.WriteFile(path, []byte("DOTENV_TEST_ROOT=found\n"), 0o600))
	t.Cleanup(func() { os.Remove(path) })

	t.Setenv("DOTENV_TEST_ROOT", "")
	os.Unsetenv("DOTENV_TEST_ROOT")

	require.NoError(t, LoadDotEnvsInTests())
	assert.Equal(t, "found", os.Getenv("DOTENV_TEST_ROOT"))
}
