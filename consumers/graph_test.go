package consumers

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scatterhq/scatter/internal/slogutil"
	"github.com/scatterhq/scatter/project"
)

func TestBuildReferenceGraph(t *testing.T) {
	scope := t.TempDir()
	core := writeProjectFile(t, scope, filepath.Join("Core", "Core.csproj"), "<Project/>")
	app := writeProjectFile(t, scope, filepath.Join("App", "App.csproj"), `<Project>
  <ItemGroup>
    <ProjectReference Include="..\Core\Core.csproj" />
    <ProjectReference Include="..\Missing\Missing.csproj" />
  </ItemGroup>
</Project>`)

	g, err := BuildReferenceGraph(scope, slogutil.NewDiscardLogger())
	require.NoError(t, err)

	order, err := g.Order()
	require.NoError(t, err)
	assert.Equal(t, 2, order)

	size, err := g.Size()
	require.NoError(t, err)
	// The edge to the out-of-scope Missing project is dropped.
	assert.Equal(t, 1, size)

	_, err = g.Edge(project.CanonicalPath(app), project.CanonicalPath(core))
	assert.NoError(t, err)
}

func TestBuildReferenceGraph_CyclePermitted(t *testing.T) {
	scope := t.TempDir()
	writeProjectFile(t, scope, filepath.Join("A", "A.csproj"), `<Project>
  <ItemGroup>
    <ProjectReference Include="..\B\B.csproj" />
  </ItemGroup>
</Project>`)
	writeProjectFile(t, scope, filepath.Join("B", "B.csproj"), `<Project>
  <ItemGroup>
    <ProjectReference Include="..\A\A.csproj" />
  </ItemGroup>
</Project>`)

	g, err := BuildReferenceGraph(scope, slogutil.NewDiscardLogger())
	require.NoError(t, err)

	size, err := g.Size()
	require.NoError(t, err)
	assert.Equal(t, 2, size)
}

func TestWriteReferenceGraphDOT(t *testing.T) {
	scope := t.TempDir()
	writeProjectFile(t, scope, filepath.Join("Core", "Core.csproj"), "<Project/>")
	writeProjectFile(t, scope, filepath.Join("App", "App.csproj"), `<Project>
  <ItemGroup>
    <ProjectReference Include="..\Core\Core.csproj" />
  </ItemGroup>
</Project>`)

	var buf bytes.Buffer
	require.NoError(t, WriteReferenceGraphDOT(&buf, scope, slogutil.NewDiscardLogger()))

	dot := buf.String()
	assert.True(t, strings.HasPrefix(dot, "strict digraph"))
	assert.Contains(t, dot, `"Core"`)
	assert.Contains(t, dot, `"App"`)
}
