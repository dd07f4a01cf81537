package results

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"hash/crc32"
	"os"

	"github.com/golang/snappy"
)

// File format: magic, uncompressed length, crc32 of the compressed
// payload, then the snappy-compressed gob payload.
var fileMagic = [4]byte{'P', 'N', 'R', '1'}

// Common sentinel errors for the file store
var (
	ErrBadMagic  = errors.New("not a result-set file")
	ErrChecksum  = errors.New("result-set file checksum mismatch")
	ErrTruncated = errors.New("result-set file truncated")
)

// fileSet is the serialized form of a Set.
type fileSet struct {
	RunID      string
	Quantity   string
	Times      []float64
	Fields     map[float64][]float64
	Steady     bool
	SteadyTime float64
}

// Save writes the result set to path, snappy-compressed and checksummed.
func Save(path string, s *Set) error {
	s.mu.RLock()
	fs := fileSet{
		RunID:      s.runID,
		Quantity:   s.quantity,
		Times:      append([]float64(nil), s.times...),
		Fields:     make(map[float64][]float64, len(s.fields)),
		Steady:     s.steady,
		SteadyTime: s.steadyTime,
	}
	for t, f := range s.fields {
		fs.Fields[t] = append([]float64(nil), f...)
	}
	s.mu.RUnlock()

	var payload bytes.Buffer
	if err := gob.NewEncoder(&payload).Encode(&fs); err != nil {
		return fmt.Errorf("failed to encode result set: %w", err)
	}

	compressed := snappy.Encode(nil, payload.Bytes())

	var out bytes.Buffer
	out.Write(fileMagic[:])
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(payload.Len()))
	out.Write(lenBuf[:])
	var crcBuf [4]byte
	binary.LittleEndian.PutUint32(crcBuf[:], crc32.ChecksumIEEE(compressed))
	out.Write(crcBuf[:])
	out.Write(compressed)

	return os.WriteFile(path, out.Bytes(), 0644)
}

// Load reads a result set previously written by Save.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read result set: %w", err)
	}
	if len(data) < 16 {
		return nil, ErrTruncated
	}
	if !bytes.Equal(data[:4], fileMagic[:]) {
		return nil, ErrBadMagic
	}

	wantCRC := binary.LittleEndian.Uint32(data[12:16])
	compressed := data[16:]
	if crc32.ChecksumIEEE(compressed) != wantCRC {
		return nil, ErrChecksum
	}

	payload, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress result set: %w", err)
	}

	var fs fileSet
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&fs); err != nil {
		return nil, fmt.Errorf("failed to decode result set: %w", err)
	}

	s := NewSet(fs.Quantity)
	s.runID = fs.RunID
	s.times = fs.Times
	s.fields = fs.Fields
	s.steady = fs.Steady
	s.steadyTime = fs.SteadyTime
	if s.fields == nil {
		s.fields = make(map[float64][]float64)
	}
	return s, nil
}
