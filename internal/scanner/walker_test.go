package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyunomas/dircompare/internal/entities"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func collect(t *testing.T, sc *FileScanner, root string) map[string]entities.FileRecord {
	t.Helper()
	records := make(map[string]entities.FileRecord)
	for rec := range sc.Walk(root) {
		_, dup := records[rec.Path]
		require.False(t, dup, "ruta repetida en el recorrido: %s", rec.Path)
		records[rec.Path] = rec
	}
	return records
}

func TestWalkFindsRegularFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "hola")
	writeFile(t, filepath.Join(root, "sub", "b.txt"), "mundo!")
	writeFile(t, filepath.Join(root, "sub", "deep", "c.txt"), "")

	records := collect(t, New(Config{}), root)
	require.Len(t, records, 3)

	a := records[filepath.Join(root, "a.txt")]
	assert.Equal(t, int64(4), a.Size)

	c := records[filepath.Join(root, "sub", "deep", "c.txt")]
	assert.Equal(t, int64(0), c.Size)
}

func TestWalkRootIsFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "solo.txt")
	writeFile(t, path, "contenido")

	// Una raíz que es archivo regular produce exactamente ese registro.
	records := collect(t, New(Config{}), path)
	require.Len(t, records, 1)
	assert.Equal(t, int64(9), records[path].Size)
}

func TestWalkExcludes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "keep.txt"), "x")
	writeFile(t, filepath.Join(root, ".git", "objects", "blob"), "x")
	writeFile(t, filepath.Join(root, "logs", "app.log"), "x")
	writeFile(t, filepath.Join(root, "logs", "app.txt"), "x")

	sc := New(Config{Excludes: []string{".git", "**/*.log"}})
	records := collect(t, sc, root)

	require.Len(t, records, 2)
	assert.Contains(t, records, filepath.Join(root, "keep.txt"))
	assert.Contains(t, records, filepath.Join(root, "logs", "app.txt"))
}

func TestWalkUnreadableDirSkipsSubtree(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignora los permisos de directorio")
	}

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "visible.txt"), "ok")
	locked := filepath.Join(root, "locked")
	writeFile(t, filepath.Join(locked, "hidden.txt"), "nope")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	// El subárbol ilegible se omite, el resto del recorrido sigue.
	records := collect(t, New(Config{}), root)
	require.Len(t, records, 1)
	assert.Contains(t, records, filepath.Join(root, "visible.txt"))
}

func TestWalkIsLazy(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a", "b", "c", "d"} {
		writeFile(t, filepath.Join(root, name), "x")
	}

	// Cortar la iteración a mitad de camino no debe fallar ni seguir
	// entregando registros.
	count := 0
	for range New(Config{}).Walk(root) {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}
