package cmd

import (
	"bytes"
	"context"
	"testing"

	"datafeed/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runGenerate(t *testing.T, root string, extra ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := GenerateCli()
	cmd.Writer = &out
	args := append([]string{"generate", "--storage-root", root, "--dataset", storage.DefaultDataset}, extra...)
	err := cmd.Run(context.Background(), args)
	return out.String(), err
}

func TestGenerateCli(t *testing.T) {
	root := t.TempDir()

	out, err := runGenerate(t, root)
	require.NoError(t, err)

	store, err := storage.New(root, storage.DefaultDataset)
	require.NoError(t, err)
	assert.Contains(t, out, store.Path())

	v, err := store.Load()
	require.NoError(t, err)
	assert.Contains(t, v, "users")
}

func TestGenerateCli_RefusesOverwrite(t *testing.T) {
	root := t.TempDir()

	_, err := runGenerate(t, root)
	require.NoError(t, err)

	_, err = runGenerate(t, root)
	assert.ErrorIs(t, err, storage.ErrAlreadyExist)

	_, err = runGenerate(t, root, "--force")
	assert.NoError(t, err)
}
