package hasher

import (
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// stepSize limita cada lectura individual; el prefijo completo puede ser
// mayor y se consume en varios pasos.
const stepSize = 1024

// DefaultPrefixSize define cuántos bytes del inicio del archivo entran al
// digest (4KB). Es un discriminador barato, nunca prueba de igualdad.
const DefaultPrefixSize = 4 * 1024

// Hasher calcula hashes parciales reutilizando el mismo digest y el mismo
// buffer de lectura en todos los archivos de una ejecución. No es seguro
// para uso concurrente: la ejecución es estrictamente secuencial.
type Hasher struct {
	digest     *xxhash.Digest
	buf        []byte
	prefixSize int
}

// New crea un Hasher que lee como máximo prefixSize bytes por archivo.
func New(prefixSize int) *Hasher {
	if prefixSize <= 0 {
		prefixSize = DefaultPrefixSize
	}
	step := stepSize
	if prefixSize < step {
		step = prefixSize
	}
	return &Hasher{
		digest:     xxhash.New(),
		buf:        make([]byte, step),
		prefixSize: prefixSize,
	}
}

// Sum abre el archivo y calcula el hash de su prefijo. Un archivo más corto
// que el prefijo se consume entero; el hash resultante sigue siendo válido
// como discriminador dentro de su bucket de tamaño.
func (h *Hasher) Sum(path string) (uint64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	h.digest.Reset()

	count := 0
	for count < h.prefixSize {
		limit := len(h.buf)
		if remaining := h.prefixSize - count; remaining < limit {
			limit = remaining
		}

		n, err := file.Read(h.buf[:limit])
		if n > 0 {
			_, _ = h.digest.Write(h.buf[:n])
			count += n
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
	}

	return h.digest.Sum64(), nil
}
