package scanner

import (
	"io/fs"
	"iter"
	"log/slog"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/soyunomas/dircompare/internal/entities"
)

// Config define las reglas para el escaneo.
type Config struct {
	Excludes []string // Patrones glob (doublestar) relativos a la raíz
}

// FileScanner encapsula la lógica de recorrido del sistema de archivos.
// El recorrido es perezoso: cada FileRecord se materializa justo antes de
// entregarse, y el orden de visita no forma parte del contrato.
type FileScanner struct {
	cfg Config
}

// New crea una nueva instancia del escáner con configuración.
func New(cfg Config) *FileScanner {
	return &FileScanner{cfg: cfg}
}

// Walk recorre root en profundidad y produce un FileRecord por cada archivo
// regular alcanzable. Una raíz que es a su vez un archivo regular produce
// exactamente ese registro. Los errores de acceso nunca abortan el
// recorrido: el subárbol o archivo afectado se omite con un diagnóstico.
func (s *FileScanner) Walk(root string) iter.Seq[entities.FileRecord] {
	return func(yield func(entities.FileRecord) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			// 1. Errores de acceso (permisos, listado fallido): omitir y seguir
			if err != nil {
				slog.Warn("no se pudo leer la entrada, se omite", "path", path, "error", err)
				return nil
			}

			if d.IsDir() {
				if path != root && s.excluded(root, path, d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}

			// 2. Política de tipos: solo archivos regulares. Dispositivos,
			// FIFOs, sockets y symlinks quedan fuera sin importar cómo se
			// llegó a ellos.
			if !d.Type().IsRegular() {
				slog.Debug("archivo especial excluido por política", "path", path, "type", d.Type().String())
				return nil
			}

			if s.excluded(root, path, d.Name()) {
				return nil
			}

			info, err := d.Info()
			if err != nil {
				slog.Warn("no se pudo leer metadata, se omite el archivo", "path", path, "error", err)
				return nil
			}

			st := getStatInfo(info)
			rec := entities.FileRecord{
				Path:  path,
				Size:  info.Size(),
				Dev:   st.dev,
				Inode: st.inode,
			}
			if !yield(rec) {
				return fs.SkipAll
			}
			return nil
		})
	}
}

// excluded compara los patrones contra la ruta relativa a la raíz y contra
// el nombre base (compatibilidad con excludes simples tipo ".git").
func (s *FileScanner) excluded(root, path, name string) bool {
	if len(s.cfg.Excludes) == 0 {
		return false
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = name
	}
	rel = filepath.ToSlash(rel)

	for _, pattern := range s.cfg.Excludes {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
