// Package vmap manages placements of pre-authored 3D models in the
// game world and answers ray, ground and liquid queries against them.
package vmap

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-vmap/internal/logger"
	"github.com/Faultbox/midgard-vmap/pkg/vmath"
)

// Spawn format errors.
var (
	ErrCorruptSpawn     = errors.New("corrupt spawn record")
	ErrSpawnNameTooLong = errors.New("spawn name too long")
)

// MaxSpawnNameLen bounds the declared name length of a spawn record.
// Asset file names are never this long, so anything larger is treated
// as stream corruption rather than attempted as an allocation.
const MaxSpawnNameLen = 500

// SpawnFlags is a bit-set describing a model placement.
type SpawnFlags uint32

// Known flag bits.
const (
	// FlagSimpleModel marks a simple prop model that carries no
	// area/ground data.
	FlagSimpleModel SpawnFlags = 0x1
	// FlagWorldSpawn marks a global spawn placed by the world
	// assembly tools.
	FlagWorldSpawn SpawnFlags = 0x2
	// FlagHasBound marks that the record persists a precomputed
	// world-space bounding box.
	FlagHasBound SpawnFlags = 0x4
)

// Has reports whether all given bits are set.
func (f SpawnFlags) Has(bits SpawnFlags) bool {
	return f&bits == bits
}

// String returns a human-readable flag list.
func (f SpawnFlags) String() string {
	s := ""
	if f.Has(FlagSimpleModel) {
		s += "SimpleModel|"
	}
	if f.Has(FlagWorldSpawn) {
		s += "WorldSpawn|"
	}
	if f.Has(FlagHasBound) {
		s += "HasBound|"
	}
	if s == "" {
		return "None"
	}
	return s[:len(s)-1]
}

// Spawn describes one model placement. It is immutable after decoding.
type Spawn struct {
	Flags  SpawnFlags
	TileID uint16     // Map tile/region the placement belongs to
	ID     uint32     // Unique placement identifier
	Pos    vmath.Vec3 // World-space origin
	Rot    vmath.Vec3 // Euler angles in degrees
	Scale  float32    // Uniform scale, non-zero
	Bound  vmath.AABB // World-space box, valid iff FlagHasBound
	Name   string     // Source mesh asset name
}

// HasBound reports whether the record persists a bounding box.
func (s *Spawn) HasBound() bool {
	return s.Flags.Has(FlagHasBound)
}

// fieldReader reads fixed-width little-endian fields, counting the
// primitives read so the record-level field count can be verified the
// way the offline assembler wrote it.
type fieldReader struct {
	r      io.Reader
	fields uint32
	err    error
}

func (fr *fieldReader) read(v any, n uint32) {
	if fr.err != nil {
		return
	}
	if err := binary.Read(fr.r, binary.LittleEndian, v); err != nil {
		fr.err = err
		return
	}
	fr.fields += n
}

// ReadSpawn decodes the next spawn record from r. A clean end of
// stream (no bytes before the first field) returns io.EOF; any other
// short read is reported as corruption.
func ReadSpawn(r io.Reader) (Spawn, error) {
	var s Spawn
	fr := &fieldReader{r: r}

	fr.read(&s.Flags, 1)
	if fr.err == io.EOF {
		return Spawn{}, io.EOF
	}

	fr.read(&s.TileID, 1)
	fr.read(&s.ID, 1)
	fr.read(&s.Pos, 3)
	fr.read(&s.Rot, 3)
	fr.read(&s.Scale, 1)

	// The bound block is all-or-nothing, keyed off the flags bit.
	hasBound := s.Flags.Has(FlagHasBound)
	if hasBound {
		fr.read(&s.Bound.Min, 3)
		fr.read(&s.Bound.Max, 3)
	}

	var nameLen uint32
	fr.read(&nameLen, 1)

	want := uint32(11)
	if hasBound {
		want = 17
	}
	if fr.fields != want {
		logger.Error("error reading spawn record",
			zap.Uint32("fieldsRead", fr.fields),
			zap.Uint32("fieldsWanted", want))
		return Spawn{}, fmt.Errorf("%w: read %d of %d fields", ErrCorruptSpawn, fr.fields, want)
	}

	if nameLen > MaxSpawnNameLen {
		logger.Error("error reading spawn record, name too long",
			zap.Uint32("nameLen", nameLen))
		return Spawn{}, fmt.Errorf("%w: declared length %d", ErrSpawnNameTooLong, nameLen)
	}
	name := make([]byte, nameLen)
	if _, err := io.ReadFull(r, name); err != nil {
		logger.Error("error reading spawn record name", zap.Error(err))
		return Spawn{}, fmt.Errorf("%w: reading name", ErrCorruptSpawn)
	}
	s.Name = string(name)

	return s, nil
}

// fieldWriter mirrors fieldReader for the encode path.
type fieldWriter struct {
	w      io.Writer
	fields uint32
	err    error
}

func (fw *fieldWriter) write(v any, n uint32) {
	if fw.err != nil {
		return
	}
	if err := binary.Write(fw.w, binary.LittleEndian, v); err != nil {
		fw.err = err
		return
	}
	fw.fields += n
}

// WriteSpawn encodes a spawn record to w, field-for-field symmetric
// with ReadSpawn.
func WriteSpawn(w io.Writer, s Spawn) error {
	fw := &fieldWriter{w: w}

	fw.write(s.Flags, 1)
	fw.write(s.TileID, 1)
	fw.write(s.ID, 1)
	fw.write(s.Pos, 3)
	fw.write(s.Rot, 3)
	fw.write(s.Scale, 1)

	hasBound := s.Flags.Has(FlagHasBound)
	if hasBound {
		fw.write(s.Bound.Min, 3)
		fw.write(s.Bound.Max, 3)
	}

	fw.write(uint32(len(s.Name)), 1)

	want := uint32(11)
	if hasBound {
		want = 17
	}
	if fw.fields != want {
		logger.Error("error writing spawn record",
			zap.Uint32("fieldsWritten", fw.fields),
			zap.Uint32("fieldsWanted", want))
		return fmt.Errorf("%w: wrote %d of %d fields", ErrCorruptSpawn, fw.fields, want)
	}

	n, err := w.Write([]byte(s.Name))
	if err != nil || n != len(s.Name) {
		logger.Error("error writing spawn record name", zap.Error(err))
		return fmt.Errorf("%w: writing name", ErrCorruptSpawn)
	}
	return nil
}

// ReadSpawns decodes spawn records from r until end of stream.
func ReadSpawns(r io.Reader) ([]Spawn, error) {
	var spawns []Spawn
	for {
		s, err := ReadSpawn(r)
		if err == io.EOF {
			return spawns, nil
		}
		if err != nil {
			return spawns, fmt.Errorf("reading spawn %d: %w", len(spawns), err)
		}
		spawns = append(spawns, s)
	}
}

// WriteSpawns encodes all spawn records to w.
func WriteSpawns(w io.Writer, spawns []Spawn) error {
	for i, s := range spawns {
		if err := WriteSpawn(w, s); err != nil {
			return fmt.Errorf("writing spawn %d: %w", i, err)
		}
	}
	return nil
}

// ReadSpawnFile decodes a spawn file from disk.
func ReadSpawnFile(path string) ([]Spawn, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening spawn file: %w", err)
	}
	defer f.Close()
	return ReadSpawns(f)
}
