package codefiles

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/codebook/internal/foundation/errors"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		full := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("// "+f+"\n"), 0o644))
	}
}

func TestDiscover_FiltersByFinalExtension(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"judge_main.cpp",
		"notes.txt",
		"DataStructure/SparseTable2D.cpp",
		"String/Trie.java",
		"scripts/run.sh",
		"archive/old.cpp.bak",
		"archive/a.b.cpp",
		"Makefile",
		"upper.CPP",
	)

	refs, err := NewDiscovery(root, "", DefaultExtensions()).Discover()
	require.NoError(t, err)

	require.Equal(t, []Reference{
		{Name: "SparseTable2D", Path: "DataStructure/SparseTable2D.cpp"},
		{Name: "Trie", Path: "String/Trie.java"},
		{Name: "a.b", Path: "archive/a.b.cpp"},
		{Name: "judge_main", Path: "judge_main.cpp"},
		{Name: "run", Path: "scripts/run.sh"},
	}, refs)
}

func TestDiscover_DeterministicWalkOrder(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "b/x.cpp", "a/y.cpp", "c.sh")

	first, err := NewDiscovery(root, "", nil).Discover()
	require.NoError(t, err)
	second, err := NewDiscovery(root, "", nil).Discover()
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, []string{"a/y.cpp", "b/x.cpp", "c.sh"}, paths(first))
}

func TestDiscover_PathsRelativeToBase(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "library")
	writeTree(t, root, "judge/judge-cpp.cpp")

	refs, err := NewDiscovery(root, base, nil).Discover()
	require.NoError(t, err)
	require.Equal(t, []Reference{{Name: "judge-cpp", Path: "library/judge/judge-cpp.cpp"}}, refs)
}

func TestDiscover_EmptyTree(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty", "nested"), 0o755))

	refs, err := NewDiscovery(root, "", nil).Discover()
	require.NoError(t, err)
	require.Empty(t, refs)
}

func TestDiscover_MissingRootIsFileAccessError(t *testing.T) {
	_, err := NewDiscovery(filepath.Join(t.TempDir(), "missing"), "", nil).Discover()
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryFileAccess))
}

func TestDiscover_RootIsFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "solo.cpp")

	_, err := NewDiscovery(filepath.Join(root, "solo.cpp"), "", nil).Discover()
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryFileAccess))
}

func TestExtensions(t *testing.T) {
	exts := NewExtensions("cpp", ".java", " sh ", "")
	require.Equal(t, []string{".cpp", ".java", ".sh"}, exts.List())

	require.True(t, exts.Match("runner.sh"))
	require.True(t, exts.Match("a.b.cpp"))
	require.False(t, exts.Match("cpp"))
	require.False(t, exts.Match("notes.cpp.txt"))
	require.False(t, exts.Match("Main.JAVA"))
}

func paths(refs []Reference) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.Path
	}
	return out
}


func TestDiscover_SkipsUnreadableSubdirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}
	root := t.TempDir()
	writeTree(t, root, "a.cpp", "locked/b.cpp", "z/c.sh")
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	refs, err := NewDiscovery(root, root, DefaultExtensions()).Discover()
	require.NoError(t, err)
	require.Equal(t, []Reference{{Name: "a", Path: "a.cpp"}, {Name: "c", Path: "z/c.sh"}}, refs)
}
