//go:build windows

package scanner

import "io/fs"

// statInfo agrupa la metadata específica de plataforma.
type statInfo struct {
	dev   uint64
	inode uint64
}

// getStatInfo en Windows no expone inode: devolvemos ceros y el motor
// renuncia al atajo de identidad (siempre compara contenido).
func getStatInfo(_ fs.FileInfo) statInfo {
	return statInfo{}
}
