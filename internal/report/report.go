package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/soyunomas/dircompare/internal/entities"
)

// IndexError marca un índice que no resuelve dentro de la lista de
// archivos. Nunca debería ocurrir en una ejecución correcta: si aparece es
// un error de lógica del programa, no una condición de runtime.
type IndexError int

func (e IndexError) Error() string {
	return fmt.Sprintf("índice %d fuera de la lista de archivos", int(e))
}

// Report es la estructura final de presentación: todos los índices ya
// resueltos a sus FileRecord. Este es el único punto del programa donde un
// índice vuelve a convertirse en ruta y tamaño.
type Report struct {
	Summary  Summary                 `json:"summary"`
	Zero     []entities.FileRecord   `json:"zero"`
	Unique   []entities.FileRecord   `json:"unique"`
	Same     [][]entities.FileRecord `json:"same"`
	Metadata Metadata                `json:"metadata"`
}

type Metadata struct {
	Lhs       string    `json:"lhs"`
	Rhs       string    `json:"rhs"`
	Timestamp time.Time `json:"timestamp"`
	Duration  string    `json:"duration_human"`
}

type Summary struct {
	TotalFilesScanned int    `json:"total_files_scanned"`
	DuplicateGroups   int    `json:"duplicate_groups"`
	TotalDuplicates   int    `json:"total_duplicates"`
	TotalHardLinks    int    `json:"total_hard_links"`
	ZeroLength        int    `json:"zero_length_files"`
	BytesWasted       int64  `json:"bytes_wasted"`
	BytesWastedHuman  string `json:"bytes_wasted_human"`
}

type sysID struct {
	dev, inode uint64
}

// Build resuelve el Result del motor contra su lista compartida y calcula
// el resumen. Dentro de cada grupo, las copias que comparten device+inode
// con un miembro ya visto son hard links: ocupan 0 bytes extra y no cuentan
// como duplicados recuperables.
func Build(res *entities.Result, meta Metadata) (*Report, error) {
	zero, err := resolve(res.Zero, res.Info)
	if err != nil {
		return nil, err
	}
	unique, err := resolve(res.Unique, res.Info)
	if err != nil {
		return nil, err
	}

	rpt := &Report{
		Zero:     zero,
		Unique:   unique,
		Same:     make([][]entities.FileRecord, 0, len(res.Same)),
		Metadata: meta,
		Summary: Summary{
			TotalFilesScanned: len(res.Info),
			ZeroLength:        len(res.Zero),
		},
	}

	for _, group := range res.Same {
		files, err := resolve(group, res.Info)
		if err != nil {
			return nil, err
		}
		rpt.Same = append(rpt.Same, files)
		rpt.Summary.DuplicateGroups++

		seen := make(map[sysID]bool, len(files))
		for i := range files {
			f := &files[i]
			id := sysID{f.Dev, f.Inode}
			if i == 0 {
				if f.Inode != 0 {
					seen[id] = true
				}
				continue
			}
			if f.Inode != 0 && seen[id] {
				rpt.Summary.TotalHardLinks++
				continue
			}
			if f.Inode != 0 {
				seen[id] = true
			}
			rpt.Summary.TotalDuplicates++
			rpt.Summary.BytesWasted += f.Size
		}
	}

	rpt.Summary.BytesWastedHuman = humanize.IBytes(uint64(rpt.Summary.BytesWasted))
	return rpt, nil
}

// WriteJSON serializa el reporte con sangría para consumo humano o de
// herramientas.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func resolve(indices []int, info []entities.FileRecord) ([]entities.FileRecord, error) {
	out := make([]entities.FileRecord, 0, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(info) {
			return nil, IndexError(idx)
		}
		out = append(out, info[idx])
	}
	return out, nil
}
