package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/fragments/pkg/fragments/config"
)

func run(t *testing.T, args ...string) (string, error) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return out.String(), err
}

func TestEnvCommand(t *testing.T) {
	t.Setenv("REPO_NAME", "fragments")
	t.Setenv(config.ProgramKeysEnvFileEnvName, "")

	out, err := run(t, "env", "REPO_NAME")
	require.NoError(t, err)
	assert.Equal(t, "fragments\n", out)
}

func TestEnvCommand_ProgramKeysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "program-keys.env")
	require.NoError(t, os.WriteFile(path, []byte("FRAGMENTS_TEST_PROGRAM_ID=abc123\n"), 0o600))

	t.Setenv(config.ProgramKeysEnvFileEnvName, path)
	t.Setenv("FRAGMENTS_TEST_PROGRAM_ID", "")
	os.Unsetenv("FRAGMENTS_TEST_PROGRAM_ID")

	out, err := run(t, "env", "FRAGMENTS_TEST_PROGRAM_ID")
	require.NoError(t, err)
	assert.Equal(t, "abc123\n", out)
}

func TestKeypairCommand(t *testing.T) {
	out, err := run(t, "keypair")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)

	address, err := base58.Decode(strings.TrimSpace(strings.TrimPrefix(lines[0], "address:")))
	require.NoError(t, err)
	assert.Len(t, address, 32)

	key, err := base58.Decode(strings.TrimSpace(strings.TrimPrefix(lines[1], "private key:")))
	require.NoError(t, err)
	assert.Len(t, key, 64)
	assert.Equal(t, address, key[32:])
}

func TestBalanceCommand_InvalidAddress(t *testing.T) {
	_, err := run(t, "balance", "not-an-address")
	assert.Error(t, err)
}
