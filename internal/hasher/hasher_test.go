package hasher

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSumOnlyReadsPrefix(t *testing.T) {
	dir := t.TempDir()
	// Mismo prefijo de 4 bytes, colas distintas: el hash parcial debe
	// coincidir. Esa es justamente la razón por la que nunca es prueba
	// de igualdad.
	a := writeFile(t, dir, "a", "AAAA-cola-uno")
	b := writeFile(t, dir, "b", "AAAA-cola-distinta")

	h := New(4)
	ha, err := h.Sum(a)
	require.NoError(t, err)
	hb, err := h.Sum(b)
	require.NoError(t, err)
	assert.Equal(t, ha, hb)
}

func TestSumDiscriminatesDifferentPrefixes(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a", "XXXX-igual")
	b := writeFile(t, dir, "b", "YYYY-igual")

	h := New(4)
	ha, err := h.Sum(a)
	require.NoError(t, err)
	hb, err := h.Sum(b)
	require.NoError(t, err)
	assert.NotEqual(t, ha, hb)
}

func TestSumShortFile(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a", "ab")
	b := writeFile(t, dir, "b", "ab")

	// Archivos más cortos que el prefijo se consumen enteros.
	h := New(DefaultPrefixSize)
	ha, err := h.Sum(a)
	require.NoError(t, err)
	hb, err := h.Sum(b)
	require.NoError(t, err)
	assert.Equal(t, ha, hb)
}

func TestSumIsStableAcrossCalls(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a", strings.Repeat("z", 10_000))

	// El digest y el buffer se reutilizan: el reset entre archivos debe
	// dejar el estado limpio.
	h := New(DefaultPrefixSize)
	first, err := h.Sum(path)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := h.Sum(path)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestSumLargerThanPrefixIgnoresTail(t *testing.T) {
	dir := t.TempDir()
	prefix := strings.Repeat("p", 2048)
	a := writeFile(t, dir, "a", prefix+strings.Repeat("1", 8192))
	b := writeFile(t, dir, "b", prefix+strings.Repeat("2", 8192))

	h := New(2048)
	ha, err := h.Sum(a)
	require.NoError(t, err)
	hb, err := h.Sum(b)
	require.NoError(t, err)
	assert.Equal(t, ha, hb)
}

func TestSumMissingFile(t *testing.T) {
	h := New(DefaultPrefixSize)
	_, err := h.Sum(filepath.Join(t.TempDir(), "no-existe"))
	assert.Error(t, err)
}
