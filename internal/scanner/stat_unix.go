//go:build !windows

package scanner

import (
	"io/fs"
	"syscall"
)

// statInfo agrupa la metadata específica de plataforma.
type statInfo struct {
	dev   uint64
	inode uint64
}

// getStatInfo extrae device e inode del stat subyacente. Si el cast falla
// devolvemos ceros: el inode 0 se interpreta como "sin token de identidad".
func getStatInfo(info fs.FileInfo) statInfo {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return statInfo{}
	}
	return statInfo{
		dev:   uint64(stat.Dev),
		inode: uint64(stat.Ino),
	}
}
