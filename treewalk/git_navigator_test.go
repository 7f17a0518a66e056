package treewalk

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to setup a git repository in a temporary directory
func setupGitRepo(t *testing.T, dir string) {
	cmd := exec.Command("git", "init")
	cmd.Dir = dir
	require.NoError(t, cmd.Run(), "failed to initialize git repository")

	gitConfig(t, dir, "user.name", "Test User")
	gitConfig(t, dir, "user.email", "test@example.com")
}

func gitConfig(t *testing.T, repoDir, key, value string) {
	cmd := exec.Command("git", "config", key, value)
	cmd.Dir = repoDir
	require.NoError(t, cmd.Run(), "failed to set git config %s", key)
}

func createFile(t *testing.T, dir, name, content string) string {
	filePath := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
	err := os.WriteFile(filePath, []byte(content), 0644)
	require.NoError(t, err, "failed to create file %s", name)
	return filePath
}

func gitCommitAll(t *testing.T, repoDir, message string) string {
	cmd := exec.Command("git", "add", ".")
	cmd.Dir = repoDir
	require.NoError(t, cmd.Run(), "failed to git add")

	cmd = exec.Command("git", "commit", "-m", message)
	cmd.Dir = repoDir
	require.NoError(t, cmd.Run(), "failed to git commit")

	cmd = exec.Command("git", "rev-parse", "HEAD")
	cmd.Dir = repoDir
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	require.NoError(t, cmd.Run(), "failed to get commit SHA")
	return strings.TrimSpace(stdout.String())
}

// commitSampleTree commits a small project layout and returns the commit SHA.
func commitSampleTree(t *testing.T, tmpDir string) string {
	createFile(t, tmpDir, filepath.Join("Services", "Billing", "Billing.csproj"), "<Project/>")
	createFile(t, tmpDir, filepath.Join("Services", "Billing", "Invoice.cs"), "class Invoice {}\n")
	createFile(t, tmpDir, "README.md", "readme\n")
	return gitCommitAll(t, tmpDir, "initial")
}

func TestGitNavigator_ListRoot(t *testing.T) {
	tmpDir := t.TempDir()
	setupGitRepo(t, tmpDir)
	sha := commitSampleTree(t, tmpDir)

	nav := NewGitNavigator(tmpDir, sha)
	entries, err := nav.List(".")
	require.NoError(t, err)

	byName := map[string]Kind{}
	for _, entry := range entries {
		byName[entry.Name] = entry.Kind
	}
	assert.Equal(t, map[string]Kind{
		"Services":  KindContainer,
		"README.md": KindLeaf,
	}, byName)
}

func TestGitNavigator_ListNested(t *testing.T) {
	tmpDir := t.TempDir()
	setupGitRepo(t, tmpDir)
	sha := commitSampleTree(t, tmpDir)

	nav := NewGitNavigator(tmpDir, sha)
	entries, err := nav.List("Services/Billing")
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name)
	}
	assert.ElementsMatch(t, []string{"Billing.csproj", "Invoice.cs"}, names)
}

func TestGitNavigator_ListCaseInsensitiveComponents(t *testing.T) {
	tmpDir := t.TempDir()
	setupGitRepo(t, tmpDir)
	sha := commitSampleTree(t, tmpDir)

	nav := NewGitNavigator(tmpDir, sha)
	entries, err := nav.List("services/BILLING")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestGitNavigator_ListUnknownPath(t *testing.T) {
	tmpDir := t.TempDir()
	setupGitRepo(t, tmpDir)
	sha := commitSampleTree(t, tmpDir)

	nav := NewGitNavigator(tmpDir, sha)
	_, err := nav.List("Services/Nope")
	assert.ErrorContains(t, err, "not found")
}

func TestGitNavigator_ListThroughFileFails(t *testing.T) {
	tmpDir := t.TempDir()
	setupGitRepo(t, tmpDir)
	sha := commitSampleTree(t, tmpDir)

	nav := NewGitNavigator(tmpDir, sha)
	_, err := nav.List("README.md/child")
	assert.ErrorContains(t, err, "cannot descend")
}

func TestGitNavigator_ReadLeaf(t *testing.T) {
	tmpDir := t.TempDir()
	setupGitRepo(t, tmpDir)
	sha := commitSampleTree(t, tmpDir)

	// Reading goes through the commit, not the working tree.
	createFile(t, tmpDir, filepath.Join("Services", "Billing", "Invoice.cs"), "class Rewritten {}\n")

	nav := NewGitNavigator(tmpDir, sha)
	content, err := nav.ReadLeaf("Services/Billing/Invoice.cs")
	require.NoError(t, err)
	assert.Equal(t, "class Invoice {}\n", string(content))
}

func TestGitNavigator_ReadLeafCaseInsensitive(t *testing.T) {
	tmpDir := t.TempDir()
	setupGitRepo(t, tmpDir)
	sha := commitSampleTree(t, tmpDir)

	nav := NewGitNavigator(tmpDir, sha)
	content, err := nav.ReadLeaf("services/billing/invoice.cs")
	require.NoError(t, err)
	assert.Equal(t, "class Invoice {}\n", string(content))
}

func TestGitNavigator_ReadLeafOnDirectoryFails(t *testing.T) {
	tmpDir := t.TempDir()
	setupGitRepo(t, tmpDir)
	sha := commitSampleTree(t, tmpDir)

	nav := NewGitNavigator(tmpDir, sha)
	_, err := nav.ReadLeaf("Services/Billing")
	assert.ErrorContains(t, err, "not a file")
}

func TestGitNavigator_JoinAndParent(t *testing.T) {
	nav := NewGitNavigator("/repo", "deadbeef")

	assert.Equal(t, "Services", nav.Join(".", "Services"))
	assert.Equal(t, "Services", nav.Join("", "Services"))
	assert.Equal(t, "Services/Billing", nav.Join("Services", "Billing"))

	assert.Equal(t, "Services", nav.Parent("Services/Billing"))
	assert.Equal(t, ".", nav.Parent("Services"))

	// The repo root is its own parent, terminating an upward walk.
	assert.Equal(t, ".", nav.Parent("."))
}

func TestGitNavigator_OldCommitStillNavigable(t *testing.T) {
	tmpDir := t.TempDir()
	setupGitRepo(t, tmpDir)
	first := commitSampleTree(t, tmpDir)

	require.NoError(t, os.Remove(filepath.Join(tmpDir, "Services", "Billing", "Invoice.cs")))
	second := gitCommitAll(t, tmpDir, "remove invoice")

	oldNav := NewGitNavigator(tmpDir, first)
	_, err := oldNav.ReadLeaf("Services/Billing/Invoice.cs")
	assert.NoError(t, err)

	newNav := NewGitNavigator(tmpDir, second)
	_, err = newNav.ReadLeaf("Services/Billing/Invoice.cs")
	assert.Error(t, err)
}
