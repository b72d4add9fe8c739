package unpack

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solarmoff-afk/spawn/internal/errs"
)

func writeZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}

func TestAAR_ExtractsFiles(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "lib.aar")
	writeZip(t, archivePath, map[string]string{
		"classes.jar":    "jar contents",
		"res/values.xml": "<resources/>",
	})

	destDir := filepath.Join(dir, "unpacked")
	require.NoError(t, AAR(archivePath, destDir))

	data, err := os.ReadFile(filepath.Join(destDir, "classes.jar"))
	require.NoError(t, err)
	assert.Equal(t, "jar contents", string(data))

	data, err = os.ReadFile(filepath.Join(destDir, "res", "values.xml"))
	require.NoError(t, err)
	assert.Equal(t, "<resources/>", string(data))
}

func TestAAR_Idempotent(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "lib.aar")
	writeZip(t, archivePath, map[string]string{"classes.jar": "v1"})

	destDir := filepath.Join(dir, "unpacked")
	require.NoError(t, AAR(archivePath, destDir))

	// Overwrite the archive and unpack again: the existing directory
	// short-circuits the second call, so the on-disk content is unchanged.
	writeZip(t, archivePath, map[string]string{"classes.jar": "v2"})
	require.NoError(t, AAR(archivePath, destDir))

	data, err := os.ReadFile(filepath.Join(destDir, "classes.jar"))
	require.NoError(t, err)
	assert.Equal(t, "v1", string(data))
}

func TestAAR_RejectsZipSlip(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "evil.aar")
	writeZip(t, archivePath, map[string]string{"../../evil": "payload"})

	destDir := filepath.Join(dir, "unpacked")
	err := AAR(archivePath, destDir)
	require.Error(t, err)

	var e *errs.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errs.UnsafeArchivePath, e.Kind)

	_, statErr := os.Stat(filepath.Join(dir, "evil"))
	assert.True(t, os.IsNotExist(statErr))
}
