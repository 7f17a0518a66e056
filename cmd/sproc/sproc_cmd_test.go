package sproc

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scatterhq/scatter/sproc"
)

func TestWriteBindingsCSV(t *testing.T) {
	tmpDir := t.TempDir()
	scope := filepath.Join(tmpDir, "src")
	outputPath := filepath.Join(tmpDir, "bindings.csv")

	bindings := sproc.Bindings{
		filepath.Join(scope, "Data", "Data.csproj"): {
			"OrderRepository": {
				filepath.Join(scope, "Data", "OrderRepository.cs"),
				filepath.Join(scope, "Data", "Legacy", "OldRepository.cs"),
			},
		},
	}

	require.NoError(t, writeBindingsCSV(outputPath, scope, bindings))

	f, err := os.Open(outputPath)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"ProjectName", "ProjectPath", "TypeName", "File"}, rows[0])
	assert.Equal(t, []string{"Data", "Data/Data.csproj", "OrderRepository", "Data/OrderRepository.cs"}, rows[1])
	assert.Equal(t, []string{"Data", "Data/Data.csproj", "OrderRepository", "Data/Legacy/OldRepository.cs"}, rows[2])
}

func TestRelOrSelf(t *testing.T) {
	assert.Equal(t, "Data/Data.csproj", relOrSelf("/src", "/src/Data/Data.csproj"))
	assert.Equal(t, "../outside/Other.csproj", relOrSelf("/src", "/outside/Other.csproj"))
}

func TestSortedKeys(t *testing.T) {
	bindings := sproc.Bindings{
		"/src/Zeta/Zeta.csproj":   nil,
		"/src/Alpha/Alpha.csproj": nil,
	}
	assert.Equal(t, []string{"/src/Alpha/Alpha.csproj", "/src/Zeta/Zeta.csproj"}, sortedKeys(bindings))
}
