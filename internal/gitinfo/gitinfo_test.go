package gitinfo

import (
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/require"

	helpers "git.home.luguber.info/inful/codebook/internal/testutil/testutils"
)

func TestRevision_NotARepository(t *testing.T) {
	rev, err := Revision(t.TempDir())
	require.NoError(t, err)
	require.Empty(t, rev)
}

func TestRevision_EmptyRepository(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	rev, err := Revision(dir)
	require.NoError(t, err)
	require.Empty(t, rev)
}

func TestRevision_FromSubdirectory(t *testing.T) {
	_, wt, dir := helpers.SetupTestGitRepo(t)
	helpers.WriteTree(t, dir, map[string]string{"String/Trie.cpp": "struct Trie {};\n"})
	hash := helpers.CommitAll(t, wt, "add trie")

	rev, err := Revision(filepath.Join(dir, "String"))
	require.NoError(t, err)
	require.Equal(t, hash.String(), rev)
	require.Equal(t, hash.String()[:8], Short(rev))
}
