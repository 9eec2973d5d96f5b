package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lbtheory/isoortho/internal/builder"
	"github.com/lbtheory/isoortho/internal/serialization"
)

func TestExportRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "iso.safetensors")

	out, err := execute(t, "export", "--kind", "isotropic", "--max-order", "2", "--dim", "2", "-o", path, "--format", "json")
	require.NoError(t, err)

	var result ExportResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, []string{"isotropic_n0", "isotropic_n1", "isotropic_n2"}, result.Tensors)
	_, err = uuid.Parse(result.RunID)
	require.NoError(t, err)

	tensors, meta, err := serialization.ReadSafeTensors(path)
	require.NoError(t, err)
	assert.Equal(t, "isotropic", meta["kind"])
	assert.Equal(t, "2", meta["dim"])
	assert.Equal(t, result.RunID, meta["run_id"])
	require.Len(t, tensors, 3)

	assert.Equal(t, int64(1), tensors["isotropic_n0"].Item())
	assert.Equal(t, []int64{3, 0, 0, 1, 0, 1, 1, 0, 0, 1, 1, 0, 1, 0, 0, 3}, tensors["isotropic_n2"].Data())
}

func TestExportOrthogonal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ortho.safetensors")

	_, err := execute(t, "export", "-k", "orthogonal", "-n", "2", "-d", "2", "-o", path)
	require.NoError(t, err)

	tensors, _, err := serialization.ReadSafeTensors(path)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 2},
		tensors[TensorName(builder.Orthogonal, 2)].Data())
}

func TestExportRequiresOutput(t *testing.T) {
	_, err := execute(t, "export", "--max-order", "1")
	require.Error(t, err)
}

func TestExportDomainError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.safetensors")
	_, err := execute(t, "export", "--dim", "7", "-o", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.NoFileExists(t, path)
}

func TestExportUnwritablePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "out.safetensors")
	_, err := execute(t, "export", "-o", path, "-d", "1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
