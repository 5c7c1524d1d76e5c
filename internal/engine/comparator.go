package engine

import (
	"bytes"
	"io"
	"log/slog"
	"os"

	"github.com/soyunomas/dircompare/internal/config"
	"github.com/soyunomas/dircompare/internal/entities"
	"github.com/soyunomas/dircompare/internal/hasher"
)

// hashEntry asocia un hash parcial con los grupos de equivalencia que
// cayeron bajo esa llave. Se mantiene como lista ordenada y se recorre
// linealmente: un hash igual jamás se trata como prueba de contenido
// igual, solo como candidato a verificar.
type hashEntry struct {
	key    uint64
	groups [][]int
}

// Comparator verifica igualdad de contenido dentro de cada bucket de
// tamaño. Es dueño exclusivo de sus dos buffers de comparación y del
// hasher: se reutilizan en todas las comparaciones de la ejecución y solo
// crecen cuando un archivo no cabe, nunca se realojan por par.
type Comparator struct {
	readSize    int
	maxFileSize int64
	chunksOnly  bool

	hasher *hasher.Hasher
	bufA   []byte
	bufB   []byte

	// OnProgress se dispara una vez por índice procesado contra el total
	// precalculado. Es observacional: el motor nunca escribe a consola.
	OnProgress func(done, total int)
	done       int
	total      int
}

// NewComparator construye el comparador a partir de la configuración.
func NewComparator(cfg *config.Config) *Comparator {
	return &Comparator{
		readSize:    cfg.ReadSize,
		maxFileSize: cfg.MaxFileSize,
		chunksOnly:  cfg.ChunksOnly,
		hasher:      hasher.New(cfg.HashSize),
		bufA:        make([]byte, cfg.ReadSize),
		bufB:        make([]byte, cfg.ReadSize),
	}
}

// setTotal fija el denominador del progreso: la suma de los tamaños de
// todos los buckets a procesar.
func (c *Comparator) setTotal(total int) {
	c.done = 0
	c.total = total
}

func (c *Comparator) tick() {
	c.done++
	if c.OnProgress != nil {
		c.OnProgress(c.done, c.total)
	}
}

// Separate procesa un bucket de índices que comparten tamaño y lo separa
// en grupos confirmados, únicos y errores de E/S.
//
// Para cada índice se calcula el hash parcial y se busca su entrada. Dentro
// de una entrada, el candidato se compara solo contra el representante
// (primer miembro) de cada grupo: la igualdad byte a byte es transitiva,
// así que verificar contra el representante basta. Si dos archivos
// comparten token de identidad (mismo device+inode) son el mismo archivo
// físico y no hace falta leer contenido. Una colisión de hash sin grupo
// coincidente crea un grupo nuevo bajo la misma llave.
func (c *Comparator) Separate(bucket []int, info []entities.FileRecord) entities.FileSeparation {
	entries := make([]hashEntry, 0, len(bucket)/2+1)
	var errors []int

	var size int64
	if len(bucket) > 0 {
		size = info[bucket[0]].Size
	}

	// Estrategia única por bucket, decidida por el tamaño representativo:
	// buffer completo para archivos medianos, secuencial para los muy
	// chicos (syscalls baratas) y los muy grandes (memoria acotada).
	full := !c.chunksOnly && 2*int64(c.readSize) < size && size < c.maxFileSize

	for _, idx := range bucket {
		c.tick()

		// Un índice fuera de la lista compartida es un error de lógica del
		// programa: preferimos el panic del runtime a corromper la salida.
		rec := &info[idx]

		key, err := c.hasher.Sum(rec.Path)
		if err != nil {
			slog.Warn("no se pudo calcular el hash, se descarta el archivo", "path", rec.Path, "error", err)
			errors = append(errors, idx)
			continue
		}

		pos := -1
		for i := range entries {
			if entries[i].key == key {
				pos = i
				break
			}
		}

		if pos < 0 {
			entries = append(entries, hashEntry{key: key, groups: [][]int{{idx}}})
			continue
		}

		matched := false
		failed := false
		for gi := range entries[pos].groups {
			group := entries[pos].groups[gi]
			rep := &info[group[0]]

			if rec.SameIdentity(rep) {
				entries[pos].groups[gi] = append(group, idx)
				matched = true
				break
			}

			equal, err := c.compare(rec.Path, rep.Path, full)
			if err != nil {
				slog.Warn("falló la comparación, se descarta el archivo",
					"path", rec.Path, "against", rep.Path, "error", err)
				errors = append(errors, idx)
				failed = true
				break
			}
			if equal {
				entries[pos].groups[gi] = append(group, idx)
				matched = true
				break
			}
		}

		// Colisión de hash confirmada: mismo hash parcial, contenido
		// distinto a todos los grupos existentes.
		if !matched && !failed {
			entries[pos].groups = append(entries[pos].groups, []int{idx})
		}
	}

	sep := entities.FileSeparation{Errors: errors}
	for _, entry := range entries {
		for _, group := range entry.groups {
			if len(group) == 1 {
				sep.Unique = append(sep.Unique, group[0])
				continue
			}
			sep.Same = append(sep.Same, group)
		}
	}
	return sep
}

func (c *Comparator) compare(a, b string, full bool) (bool, error) {
	if full {
		return c.compareFull(a, b)
	}
	return c.compareSeq(a, b)
}

// compareFull lee ambos archivos completos en los buffers reutilizables y
// compara en memoria. Longitudes distintas o cualquier byte distinto
// significan no-iguales.
func (c *Comparator) compareFull(a, b string) (bool, error) {
	fa, fb, err := openPair(a, b)
	if err != nil {
		return false, err
	}
	defer fa.Close()
	defer fb.Close()

	var na, nb int
	c.bufA, na, err = c.readToEnd(fa, c.bufA)
	if err != nil {
		return false, err
	}
	c.bufB, nb, err = c.readToEnd(fb, c.bufB)
	if err != nil {
		return false, err
	}

	return na == nb && bytes.Equal(c.bufA[:na], c.bufB[:nb]), nil
}

// compareSeq lee bloques de readSize de ambos archivos en paralelo lógico.
// Cualquier desajuste de longitud o contenido corta de inmediato; solo es
// igualdad si ambos lados reportan fin de archivo en el mismo bloque.
func (c *Comparator) compareSeq(a, b string) (bool, error) {
	fa, fb, err := openPair(a, b)
	if err != nil {
		return false, err
	}
	defer fa.Close()
	defer fb.Close()

	bufA := c.bufA[:c.readSize]
	bufB := c.bufB[:c.readSize]

	for {
		na, err := io.ReadFull(fa, bufA)
		if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
			return false, err
		}
		nb, err := io.ReadFull(fb, bufB)
		if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
			return false, err
		}

		if na != nb || !bytes.Equal(bufA[:na], bufB[:nb]) {
			return false, nil
		}
		if na == 0 && nb == 0 {
			return true, nil
		}
	}
}

// readToEnd consume el archivo entero dentro de buf, creciéndolo solo si el
// contenido no cabe. Devuelve el buffer (posiblemente crecido) y cuántos
// bytes válidos contiene.
func (c *Comparator) readToEnd(f *os.File, buf []byte) ([]byte, int, error) {
	buf = buf[:cap(buf)]
	n := 0
	for {
		if n == len(buf) {
			grown := make([]byte, len(buf)*2)
			copy(grown, buf)
			buf = grown
			slog.Debug("buffer de comparación crecido", "capacity", len(buf))
		}
		m, err := f.Read(buf[n:])
		n += m
		if err == io.EOF {
			return buf, n, nil
		}
		if err != nil {
			return buf, n, err
		}
	}
}

func openPair(a, b string) (*os.File, *os.File, error) {
	fa, err := os.Open(a)
	if err != nil {
		return nil, nil, err
	}
	fb, err := os.Open(b)
	if err != nil {
		fa.Close()
		return nil, nil, err
	}
	return fa, fb, nil
}
