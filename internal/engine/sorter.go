package engine

import (
	"sort"

	"github.com/soyunomas/dircompare/internal/entities"
)

// sortResult ordena las tres particiones para que la salida sea
// reproducible entre ejecuciones, sin importar el orden de recorrido ni el
// orden en que los hashes resolvieron los grupos.
//
// Dentro de cada grupo los índices se ordenan ascendente; los grupos se
// ordenan por su primer índice. Tras la clasificación el representante ya
// cumplió su función, así que reordenar el grupo es seguro.
func sortResult(res *entities.Result) {
	sort.Ints(res.Zero)
	sort.Ints(res.Unique)

	for _, group := range res.Same {
		sort.Ints(group)
	}
	sort.Slice(res.Same, func(i, j int) bool {
		return res.Same[i][0] < res.Same[j][0]
	})
}
