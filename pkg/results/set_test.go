package results

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/dd0wney/cluso-porenet/pkg/network"
	"github.com/dd0wney/cluso-porenet/pkg/phase"
)

func TestAppendOrdersTimes(t *testing.T) {
	s := NewSet("pore.concentration")
	s.Append(5, []float64{1})
	s.Append(0, []float64{2})
	s.Append(10, []float64{3})

	times := s.Times()
	if len(times) != 3 || times[0] != 0 || times[1] != 5 || times[2] != 10 {
		t.Errorf("Times = %v, want [0 5 10]", times)
	}
}

func TestAppendCopiesField(t *testing.T) {
	s := NewSet("pore.concentration")
	field := []float64{1, 2}
	s.Append(0, field)
	field[0] = 99

	got, err := s.At(0)
	if err != nil {
		t.Fatalf("At failed: %v", err)
	}
	if got[0] != 1 {
		t.Error("stored snapshot aliases the caller's slice")
	}
}

func TestReadBackDoesNotAliasSnapshot(t *testing.T) {
	s := NewSet("pore.concentration")
	s.Append(0, []float64{1, 2})
	s.Append(4, []float64{3, 4})

	got, err := s.At(0)
	if err != nil {
		t.Fatalf("At failed: %v", err)
	}
	got[0] = 99

	last, _, err := s.Last()
	if err != nil {
		t.Fatalf("Last failed: %v", err)
	}
	last[1] = 99

	again, _ := s.At(0)
	if again[0] != 1 {
		t.Error("At returns a slice aliasing the stored snapshot")
	}
	lastAgain, _, _ := s.Last()
	if lastAgain[1] != 4 {
		t.Error("Last returns a slice aliasing the stored snapshot")
	}
}

func TestAtUnknownTime(t *testing.T) {
	s := NewSet("pore.concentration")
	if _, err := s.At(3.5); !errors.Is(err, ErrUnknownSnapshot) {
		t.Errorf("expected ErrUnknownSnapshot, got %v", err)
	}
}

func TestLast(t *testing.T) {
	s := NewSet("pore.concentration")
	if _, _, err := s.Last(); !errors.Is(err, ErrNoSnapshots) {
		t.Errorf("expected ErrNoSnapshots, got %v", err)
	}

	s.Append(0, []float64{1})
	s.Append(7, []float64{2})
	field, at, err := s.Last()
	if err != nil {
		t.Fatalf("Last failed: %v", err)
	}
	if at != 7 || field[0] != 2 {
		t.Errorf("Last = %v at %v, want [2] at 7", field, at)
	}
}

func TestExportLabels(t *testing.T) {
	s := NewSet("pore.concentration")
	s.Append(0, []float64{1})
	s.Append(2.5, []float64{2})

	export := s.Export()
	if _, ok := export["pore.concentration@0"]; !ok {
		t.Errorf("missing label pore.concentration@0, got %v", keys(export))
	}
	if _, ok := export["pore.concentration@2.5"]; !ok {
		t.Errorf("missing label pore.concentration@2.5, got %v", keys(export))
	}
}

func keys(m map[string][]float64) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestMergeInto(t *testing.T) {
	net, err := network.NewCubic(network.CubicOptions{Shape: [3]int{2, 1, 1}, Spacing: 1e-4})
	if err != nil {
		t.Fatalf("NewCubic failed: %v", err)
	}
	ph := phase.New("test", net)

	s := NewSet("pore.concentration")
	s.Append(0, []float64{0, 0})
	s.Append(1, []float64{0.5, 0.25})

	if err := s.MergeInto(ph); err != nil {
		t.Fatalf("MergeInto failed: %v", err)
	}

	// Final snapshot published under the bare quantity name
	final, err := ph.Field("pore.concentration")
	if err != nil {
		t.Fatalf("quantity field missing: %v", err)
	}
	if final[0] != 0.5 {
		t.Errorf("final[0] = %v, want 0.5", final[0])
	}

	// Every snapshot published under its label
	if _, err := ph.Field("pore.concentration@1"); err != nil {
		t.Errorf("labeled snapshot missing: %v", err)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	s := NewSet("pore.concentration")
	s.Append(0, []float64{0, 1, 2})
	s.Append(5, []float64{3, 4, 5})
	s.MarkSteady(5)

	path := filepath.Join(t.TempDir(), "run.pnr")
	if err := Save(path, s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.RunID() != s.RunID() {
		t.Errorf("RunID = %q, want %q", loaded.RunID(), s.RunID())
	}
	if loaded.Quantity() != "pore.concentration" {
		t.Errorf("Quantity = %q", loaded.Quantity())
	}
	steady, at := loaded.SteadyState()
	if !steady || at != 5 {
		t.Errorf("SteadyState = %v at %v, want true at 5", steady, at)
	}
	field, err := loaded.At(5)
	if err != nil {
		t.Fatalf("At failed: %v", err)
	}
	if field[2] != 5 {
		t.Errorf("field[2] = %v, want 5", field[2])
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.pnr")

	writeFile(t, path, []byte("definitely not a result set file"))
	if _, err := Load(path); !errors.Is(err, ErrBadMagic) {
		t.Errorf("expected ErrBadMagic, got %v", err)
	}

	writeFile(t, path, []byte("abc"))
	if _, err := Load(path); !errors.Is(err, ErrTruncated) {
		t.Errorf("expected ErrTruncated, got %v", err)
	}
}

func TestLoadDetectsCorruption(t *testing.T) {
	s := NewSet("pore.concentration")
	s.Append(0, []float64{1, 2, 3})

	path := filepath.Join(t.TempDir(), "run.pnr")
	if err := Save(path, s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data := readFile(t, path)
	data[len(data)-1] ^= 0xFF
	writeFile(t, path, data)

	if _, err := Load(path); !errors.Is(err, ErrChecksum) {
		t.Errorf("expected ErrChecksum, got %v", err)
	}
}
