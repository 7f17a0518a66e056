package analysis

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scatterhq/scatter/internal/slogutil"
	"github.com/scatterhq/scatter/project"
)

func git(t *testing.T, repoDir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = repoDir

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	require.NoError(t, cmd.Run(), "git %v failed", args)
	return strings.TrimSpace(stdout.String())
}

// setupBranchedScope builds a repository where the feature branch changes
// Core's Widget and Gauge types, and App consumes only Widget. The feature
// branch stays checked out: declaration extraction reads the working tree.
func setupBranchedScope(t *testing.T) string {
	tmpDir := t.TempDir()
	git(t, tmpDir, "init")
	git(t, tmpDir, "config", "user.name", "Test User")
	git(t, tmpDir, "config", "user.email", "test@example.com")

	writeScopeFile(t, tmpDir, filepath.Join("Core", "Core.csproj"), `<Project Sdk="Microsoft.NET.Sdk">
  <PropertyGroup>
    <RootNamespace>Acme.Core</RootNamespace>
  </PropertyGroup>
</Project>`)
	writeScopeFile(t, tmpDir, filepath.Join("Core", "Widget.cs"), `namespace Acme.Core
{
    public class Widget { }
}`)
	writeScopeFile(t, tmpDir, filepath.Join("App", "App.csproj"), `<Project>
  <ItemGroup>
    <ProjectReference Include="..\Core\Core.csproj" />
  </ItemGroup>
</Project>`)
	writeScopeFile(t, tmpDir, filepath.Join("App", "Screen.cs"), `using Acme.Core;

public class Screen
{
    public void Draw() { new Widget().Render(); }
}`)
	git(t, tmpDir, "add", ".")
	git(t, tmpDir, "commit", "-m", "initial layout")
	git(t, tmpDir, "branch", "-M", "main")

	git(t, tmpDir, "checkout", "-b", "feature/widgets")
	writeScopeFile(t, tmpDir, filepath.Join("Core", "Widget.cs"), `namespace Acme.Core
{
    public class Widget
    {
        public void Render() { }
    }

    public class Gauge { }
}`)
	git(t, tmpDir, "add", ".")
	git(t, tmpDir, "commit", "-m", "extend widget")

	return tmpDir
}

func TestAnalyzeBranch(t *testing.T) {
	tmpDir := setupBranchedScope(t)
	log := slogutil.NewDiscardLogger()

	records, err := AnalyzeBranch(context.Background(), BranchQuery{
		RepoPath:      tmpDir,
		FeatureBranch: "feature/widgets",
		BaseBranch:    "main",
	}, Options{Scope: project.CanonicalPath(tmpDir)}, log)
	require.NoError(t, err)

	// Gauge changed too but has no consumers, so only Widget produces a
	// record. Branch mode reports the type name itself.
	require.Len(t, records, 1)
	assert.Equal(t, "Core", records[0].TargetProjectName)
	assert.Equal(t, "Core/Core.csproj", records[0].TargetProjectPath)
	assert.Equal(t, "Widget", records[0].TriggeringType)
	assert.Equal(t, "App", records[0].ConsumerProjectName)
}

func TestAnalyzeBranch_MethodFilter(t *testing.T) {
	tmpDir := setupBranchedScope(t)
	log := slogutil.NewDiscardLogger()

	records, err := AnalyzeBranch(context.Background(), BranchQuery{
		RepoPath:      tmpDir,
		FeatureBranch: "feature/widgets",
		BaseBranch:    "main",
		TypeName:      "Widget",
		MethodName:    "Render",
	}, Options{Scope: project.CanonicalPath(tmpDir)}, log)
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "Widget", records[0].TriggeringType)
	assert.Equal(t, "App", records[0].ConsumerProjectName)
}

func TestAnalyzeBranch_TypeFilterNotAmongChanges(t *testing.T) {
	tmpDir := setupBranchedScope(t)
	log := slogutil.NewDiscardLogger()

	records, err := AnalyzeBranch(context.Background(), BranchQuery{
		RepoPath:      tmpDir,
		FeatureBranch: "feature/widgets",
		BaseBranch:    "main",
		TypeName:      "Unchanged",
	}, Options{Scope: project.CanonicalPath(tmpDir)}, log)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAnalyzeBranch_NoChanges(t *testing.T) {
	tmpDir := setupBranchedScope(t)
	git(t, tmpDir, "checkout", "main")
	git(t, tmpDir, "checkout", "-b", "feature/empty")
	writeScopeFile(t, tmpDir, "README.md", "docs only\n")
	git(t, tmpDir, "add", ".")
	git(t, tmpDir, "commit", "-m", "docs")

	records, err := AnalyzeBranch(context.Background(), BranchQuery{
		RepoPath:      tmpDir,
		FeatureBranch: "feature/empty",
		BaseBranch:    "main",
	}, Options{Scope: project.CanonicalPath(tmpDir)}, slogutil.NewDiscardLogger())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAnalyzeBranch_MissingBranch(t *testing.T) {
	tmpDir := setupBranchedScope(t)

	_, err := AnalyzeBranch(context.Background(), BranchQuery{
		RepoPath:      tmpDir,
		FeatureBranch: "feature/ghost",
		BaseBranch:    "main",
	}, Options{Scope: project.CanonicalPath(tmpDir)}, slogutil.NewDiscardLogger())
	assert.ErrorContains(t, err, "not found")
}
