package vmap

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-vmap/pkg/vmath"
)

func boundedSpawn() Spawn {
	return Spawn{
		Flags:  FlagWorldSpawn | FlagHasBound,
		TileID: 12,
		ID:     40001,
		Pos:    vmath.Vec3{X: 100.5, Y: -200.25, Z: 30},
		Rot:    vmath.Vec3{X: 0, Y: 90, Z: 45},
		Scale:  1.5,
		Bound: vmath.AABB{
			Min: vmath.Vec3{X: 90, Y: -210, Z: 20},
			Max: vmath.Vec3{X: 110, Y: -190, Z: 60},
		},
		Name: "world/generic/azeroth_tower.wmo",
	}
}

func simpleSpawn() Spawn {
	return Spawn{
		Flags:  FlagSimpleModel,
		TileID: 3,
		ID:     7,
		Pos:    vmath.Vec3{X: 1, Y: 2, Z: 3},
		Rot:    vmath.Vec3{X: 10, Y: 20, Z: 30},
		Scale:  0.25,
		Name:   "world/props/barrel01.m2",
	}
}

func TestSpawnRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		spawn Spawn
	}{
		{"with bound", boundedSpawn()},
		{"without bound", simpleSpawn()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteSpawn(&buf, tt.spawn))

			got, err := ReadSpawn(&buf)
			require.NoError(t, err)
			require.Equal(t, tt.spawn, got)
			require.Zero(t, buf.Len(), "no trailing bytes")
		})
	}
}

func TestReadSpawnCleanEOF(t *testing.T) {
	_, err := ReadSpawn(bytes.NewReader(nil))
	require.Equal(t, io.EOF, err)
}

func TestReadSpawnTruncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSpawn(&buf, boundedSpawn()))
	full := buf.Bytes()

	// Cut the stream inside the fixed-width fields at several points.
	for _, n := range []int{1, 4, 9, 20, 40, 60} {
		_, err := ReadSpawn(bytes.NewReader(full[:n]))
		require.ErrorIs(t, err, ErrCorruptSpawn, "prefix of %d bytes", n)
	}
}

func TestReadSpawnNameTooLong(t *testing.T) {
	var buf bytes.Buffer
	s := simpleSpawn()
	s.Name = strings.Repeat("x", MaxSpawnNameLen+1)
	require.NoError(t, WriteSpawn(&buf, s))

	r := bytes.NewReader(buf.Bytes())
	_, err := ReadSpawn(r)
	require.ErrorIs(t, err, ErrSpawnNameTooLong)
	// The name bytes themselves were never consumed.
	require.Equal(t, MaxSpawnNameLen+1, r.Len())
}

func TestReadSpawnNameShortRead(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSpawn(&buf, simpleSpawn()))
	full := buf.Bytes()

	// Drop half of the name bytes at the tail.
	_, err := ReadSpawn(bytes.NewReader(full[:len(full)-10]))
	require.ErrorIs(t, err, ErrCorruptSpawn)
}

func TestReadSpawnsStream(t *testing.T) {
	var buf bytes.Buffer
	want := []Spawn{boundedSpawn(), simpleSpawn(), boundedSpawn()}
	require.NoError(t, WriteSpawns(&buf, want))

	got, err := ReadSpawns(&buf)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestReadSpawnsReportsRecordIndex(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSpawn(&buf, simpleSpawn()))
	require.NoError(t, WriteSpawn(&buf, boundedSpawn()))
	data := buf.Bytes()[:buf.Len()-5]

	spawns, err := ReadSpawns(bytes.NewReader(data))
	require.ErrorIs(t, err, ErrCorruptSpawn)
	require.Len(t, spawns, 1, "the record before the corruption survives")
}

func TestSpawnFlags(t *testing.T) {
	s := boundedSpawn()
	require.True(t, s.HasBound())
	require.True(t, s.Flags.Has(FlagWorldSpawn))
	require.False(t, s.Flags.Has(FlagSimpleModel))

	require.Equal(t, "WorldSpawn|HasBound", s.Flags.String())
	require.Equal(t, "None", SpawnFlags(0).String())
}
