package engine

import (
	"log/slog"

	"github.com/soyunomas/dircompare/internal/entities"
)

// Process pliega los veredictos de cada bucket en el resultado final de la
// ejecución. Los índices con error de E/S se resuelven a su ruta solo para
// el diagnóstico y se descartan: no aparecen en Zero, Unique ni Same, por
// lo que el conteo final puede ser legítimamente menor que el de archivos
// descubiertos.
func Process(prep *entities.Preprocessed, cmp *Comparator) entities.Result {
	total := 0
	for _, bucket := range prep.ToProcess {
		total += len(bucket)
	}
	cmp.setTotal(total)

	res := entities.Result{
		Info:   prep.Info,
		Zero:   prep.Zero,
		Unique: prep.Unique,
	}

	for _, bucket := range prep.ToProcess {
		sep := cmp.Separate(bucket, prep.Info)
		res.Same = append(res.Same, sep.Same...)
		res.Unique = append(res.Unique, sep.Unique...)

		for _, idx := range sep.Errors {
			if idx < 0 || idx >= len(prep.Info) {
				slog.Error("índice de error fuera de la lista de archivos", "index", idx)
				continue
			}
			slog.Warn("archivo excluido del reporte por errores de E/S", "path", prep.Info[idx].Path)
		}
	}

	sortResult(&res)
	return res
}
