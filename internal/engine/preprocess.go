package engine

import (
	"github.com/soyunomas/dircompare/internal/config"
	"github.com/soyunomas/dircompare/internal/entities"
	"github.com/soyunomas/dircompare/internal/scanner"
)

// Preprocess consume el recorrido de una o dos raíces y particiona los
// índices por tamaño en una sola pasada. Archivos de tamaño único no pueden
// tener duplicado de contenido, así que se resuelven aquí sin tocar el
// disco; los de tamaño 0 van a su propia categoría y nunca se comparan.
//
// Garantía: la unión de Zero, Unique y los buckets de ToProcess es una
// partición exacta de todos los índices descubiertos.
func Preprocess(cfg *config.Config, sc *scanner.FileScanner) *entities.Preprocessed {
	prep := &entities.Preprocessed{}
	sizeMap := make(map[int64][]int)

	collect := func(rec entities.FileRecord) {
		idx := len(prep.Info)
		prep.Info = append(prep.Info, rec)
		if rec.Size == 0 {
			prep.Zero = append(prep.Zero, idx)
			return
		}
		sizeMap[rec.Size] = append(sizeMap[rec.Size], idx)
	}

	for rec := range sc.Walk(cfg.Lhs) {
		collect(rec)
	}
	// Si ambas raíces canónicas coinciden, un segundo recorrido solo
	// duplicaría cada registro.
	if !cfg.SingleRoot() {
		for rec := range sc.Walk(cfg.Rhs) {
			collect(rec)
		}
	}

	for _, bucket := range sizeMap {
		if len(bucket) == 1 {
			prep.Unique = append(prep.Unique, bucket[0])
			continue
		}
		prep.ToProcess = append(prep.ToProcess, bucket)
	}

	return prep
}
