package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
)

// Valores por defecto del motor. Coinciden con los tamaños que mejor
// funcionan en disco local: bloques de 64KB para comparación secuencial,
// prefijo de 4KB para el hash y tope de 1GB para cargar un archivo entero.
const (
	DefaultReadSize    = 64 * 1024
	DefaultHashSize    = 4 * 1024
	DefaultMaxFileSize = 1024 * 1024 * 1024
)

// Config agrupa todo lo que el núcleo necesita de la capa CLI. Las rutas
// llegan crudas y se canonicalizan con Resolve antes de usarse.
type Config struct {
	Lhs         string   // Primera raíz; por defecto el directorio actual
	Rhs         string   // Segunda raíz; por defecto igual a Lhs
	Output      string   // Archivo de reporte; vacío = stdout
	ReadSize    int      // Tamaño de bloque para comparación secuencial
	HashSize    int      // Bytes de prefijo para el hash parcial
	MaxFileSize int64    // Techo para la comparación con buffer completo
	ChunksOnly  bool     // Deshabilita la comparación con buffer completo
	Verbose     bool     // Progreso y diagnósticos extendidos
	JSON        bool     // Reporte JSON en lugar de texto
	Excludes    []string // Patrones glob a ignorar durante el escaneo
}

// Default devuelve una configuración lista para comparar el directorio
// actual contra sí mismo.
func Default() Config {
	return Config{
		ReadSize:    DefaultReadSize,
		HashSize:    DefaultHashSize,
		MaxFileSize: DefaultMaxFileSize,
	}
}

// Resolve canonicaliza ambas raíces y valida los tamaños. Cualquier fallo
// aquí es fatal: sin rutas canónicas no hay manera de deduplicar el
// recorrido ni de confiar en los tokens de identidad.
func (c *Config) Resolve() error {
	if c.ReadSize <= 0 {
		return fmt.Errorf("read-size debe ser positivo, recibido %d", c.ReadSize)
	}
	if c.HashSize <= 0 {
		return fmt.Errorf("hash-size debe ser positivo, recibido %d", c.HashSize)
	}
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("max-file-size debe ser positivo, recibido %d", c.MaxFileSize)
	}

	lhs := c.Lhs
	if lhs == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("no se pudo obtener el directorio actual: %w", err)
		}
		lhs = cwd
	}

	resolved, err := canonicalize(lhs)
	if err != nil {
		return fmt.Errorf("no se pudo canonicalizar la ruta %q: %w", lhs, err)
	}
	c.Lhs = resolved

	rhs := c.Rhs
	if rhs == "" {
		c.Rhs = c.Lhs
		return nil
	}

	resolved, err = canonicalize(rhs)
	if err != nil {
		return fmt.Errorf("no se pudo canonicalizar la ruta %q: %w", rhs, err)
	}
	c.Rhs = resolved
	return nil
}

// SingleRoot indica si ambas raíces canónicas son la misma: en ese caso el
// preprocesador recorre el árbol una sola vez.
func (c *Config) SingleRoot() bool {
	return c.Lhs == c.Rhs
}

// ParseSize interpreta tamaños humanos ("64KB", "1GiB") o números pelados.
func ParseSize(s string) (int64, error) {
	v, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("tamaño inválido %q: %w", s, err)
	}
	return int64(v), nil
}

// FormatSize es la inversa para textos de ayuda y resúmenes.
func FormatSize(n int64) string {
	return humanize.IBytes(uint64(n))
}

func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	// EvalSymlinks falla si la ruta no existe: exactamente el contrato que
	// queremos para errores fatales tempranos.
	return filepath.EvalSymlinks(abs)
}
