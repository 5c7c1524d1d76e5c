package report

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyunomas/dircompare/internal/entities"
)

func sampleResult() *entities.Result {
	return &entities.Result{
		Info: []entities.FileRecord{
			{Path: "/x/a", Size: 5},
			{Path: "/x/b", Size: 5},
			{Path: "/x/c", Size: 5},
			{Path: "/x/unico", Size: 9},
			{Path: "/x/vacio", Size: 0},
		},
		Zero:   []int{4},
		Unique: []int{3},
		Same:   [][]int{{0, 1, 2}},
	}
}

func TestBuildResolvesIndices(t *testing.T) {
	rpt, err := Build(sampleResult(), Metadata{Lhs: "/x", Rhs: "/x", Timestamp: time.Now()})
	require.NoError(t, err)

	require.Len(t, rpt.Same, 1)
	assert.Equal(t, "/x/a", rpt.Same[0][0].Path)
	require.Len(t, rpt.Unique, 1)
	assert.Equal(t, "/x/unico", rpt.Unique[0].Path)
	require.Len(t, rpt.Zero, 1)
	assert.Equal(t, "/x/vacio", rpt.Zero[0].Path)

	assert.Equal(t, 5, rpt.Summary.TotalFilesScanned)
	assert.Equal(t, 1, rpt.Summary.DuplicateGroups)
	assert.Equal(t, 2, rpt.Summary.TotalDuplicates)
	assert.Equal(t, int64(10), rpt.Summary.BytesWasted)
	assert.Equal(t, 1, rpt.Summary.ZeroLength)
}

func TestBuildHardLinkAccounting(t *testing.T) {
	res := &entities.Result{
		Info: []entities.FileRecord{
			{Path: "/x/a", Size: 100, Dev: 1, Inode: 50},
			{Path: "/x/a-link", Size: 100, Dev: 1, Inode: 50},
			{Path: "/x/copia", Size: 100, Dev: 1, Inode: 51},
		},
		Same: [][]int{{0, 1, 2}},
	}

	rpt, err := Build(res, Metadata{})
	require.NoError(t, err)

	// El hard link no ocupa espacio extra: un duplicado real, un link.
	assert.Equal(t, 1, rpt.Summary.TotalDuplicates)
	assert.Equal(t, 1, rpt.Summary.TotalHardLinks)
	assert.Equal(t, int64(100), rpt.Summary.BytesWasted)
}

func TestBuildIndexOutOfRange(t *testing.T) {
	res := &entities.Result{
		Info:   []entities.FileRecord{{Path: "/solo", Size: 1}},
		Unique: []int{7},
	}

	_, err := Build(res, Metadata{})
	require.Error(t, err)
	assert.ErrorContains(t, err, "índice 7")

	var idxErr IndexError
	require.ErrorAs(t, err, &idxErr)
	assert.Equal(t, 7, int(idxErr))
}

func TestWriteJSON(t *testing.T) {
	rpt, err := Build(sampleResult(), Metadata{Lhs: "/x", Rhs: "/y", Duration: "12ms"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, rpt.WriteJSON(&buf))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "summary")
	assert.Contains(t, decoded, "zero")
	assert.Contains(t, decoded, "unique")
	assert.Contains(t, decoded, "same")
	assert.Contains(t, decoded, "metadata")
}
