package wgpu_backend

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testArena(chunkSize uint64) (*uniformArena, *int) {
	allocs := 0
	a := newUniformArena(chunkSize, 256, func(string, uint64) (*wgpu.Buffer, error) {
		allocs++
		return nil, nil
	})
	return a, &allocs
}

func TestArenaAlignsOffsets(t *testing.T) {
	a, allocs := testArena(1024)

	s0, err := a.push(make([]byte, 48))
	require.NoError(t, err)
	s1, err := a.push(make([]byte, 208))
	require.NoError(t, err)

	assert.Equal(t, arenaSlice{chunk: 0, offset: 0}, s0)
	assert.Equal(t, arenaSlice{chunk: 0, offset: 256}, s1)
	assert.Equal(t, 1, *allocs)
}

func TestArenaRollsOverToNewChunk(t *testing.T) {
	a, allocs := testArena(512)

	for range 2 {
		_, err := a.push(make([]byte, 200))
		require.NoError(t, err)
	}
	s, err := a.push(make([]byte, 200))
	require.NoError(t, err)
	assert.Equal(t, arenaSlice{chunk: 1, offset: 0}, s)
	assert.Equal(t, 2, *allocs)

	a.reset()
	s, err = a.push(make([]byte, 200))
	require.NoError(t, err)
	assert.Equal(t, arenaSlice{chunk: 0, offset: 0}, s)
	assert.Equal(t, 2, *allocs, "chunks are reused across frames")
}

func TestArenaRejectsOversizedBlock(t *testing.T) {
	a, _ := testArena(256)
	_, err := a.push(make([]byte, 300))
	assert.Error(t, err)
}

func TestArenaWritesCoverUsedBytes(t *testing.T) {
	a, _ := testArena(1024)
	_, err := a.push([]byte{1, 2, 3, 4})
	require.NoError(t, err)
	_, err = a.push([]byte{5, 6, 7, 8, 9, 10})
	require.NoError(t, err)

	writes := a.writes()
	require.Len(t, writes, 1)
	assert.Len(t, writes[0].Data, 264)
	assert.Equal(t, []byte{5, 6, 7, 8, 9, 10}, writes[0].Data[256:262])
}

func TestSnapshotReusesUnchangedValue(t *testing.T) {
	a, _ := testArena(4096)
	var s snapshot

	first, err := s.upload(a, 1, 1, make([]byte, 64))
	require.NoError(t, err)
	again, err := s.upload(a, 1, 1, make([]byte, 64))
	require.NoError(t, err)
	assert.Equal(t, first, again)

	changed, err := s.upload(a, 1, 2, make([]byte, 64))
	require.NoError(t, err)
	assert.NotEqual(t, first, changed)

	a.reset()
	nextFrame, err := s.upload(a, 2, 2, make([]byte, 64))
	require.NoError(t, err)
	assert.Equal(t, arenaSlice{chunk: 0, offset: 0}, nextFrame)
}
