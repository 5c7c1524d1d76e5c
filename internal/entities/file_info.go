package entities

// FileRecord representa un archivo regular descubierto durante el escaneo.
// Se crea una sola vez en el walker y después es inmutable: las fases
// posteriores lo referencian únicamente por índice dentro de la lista
// compartida, nunca por copia.
type FileRecord struct {
	Path  string `json:"path"`
	Size  int64  `json:"size_bytes"`
	Dev   uint64 `json:"-"`
	Inode uint64 `json:"-"`
}

// SameIdentity indica si dos registros apuntan al mismo archivo físico
// (mismo device + inode). Un inode 0 significa "sin token de identidad"
// (plataforma sin soporte) y nunca cuenta como coincidencia.
func (f *FileRecord) SameIdentity(other *FileRecord) bool {
	return f.Inode != 0 && f.Inode == other.Inode && f.Dev == other.Dev
}

// Preprocessed es la salida del preprocesador: la lista plana de registros
// más la partición inicial por tamaño. Todo índice descubierto aparece en
// exactamente uno de Zero, Unique o un bucket de ToProcess.
type Preprocessed struct {
	Info      []FileRecord
	Zero      []int
	Unique    []int
	ToProcess [][]int
}

// FileSeparation es el veredicto del comparador para un bucket:
// grupos confirmados byte a byte, índices sin pareja, e índices
// descartados por errores de E/S.
type FileSeparation struct {
	Same   [][]int
	Unique []int
	Errors []int
}

// Result es la salida final de una ejecución. Los índices de error no
// aparecen aquí: se reportan como diagnósticos y se descartan.
type Result struct {
	Info   []FileRecord
	Zero   []int
	Unique []int
	Same   [][]int
}
