package chunking

import (
	"strings"
	"testing"

	"github.com/documind/documind/internal/core/domain"
)

func TestNewSplitterRejectsOverlapNotBelowSize(t *testing.T) {
	cases := []struct {
		name    string
		size    int
		overlap int
	}{
		{"equal", 1000, 1000},
		{"greater", 1000, 1200},
		{"zero size", 0, 0},
		{"negative overlap", 1000, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSplitter(tc.size, tc.overlap)
			if err == nil {
				t.Fatalf("expected error for size=%d overlap=%d", tc.size, tc.overlap)
			}
			if !domain.IsKind(err, domain.ErrInvalidConfiguration) {
				t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
			}
		})
	}
}

func TestNewSplitterAcceptsShippedConfigurations(t *testing.T) {
	for _, pair := range [][2]int{{1000, 200}, {1500, 300}} {
		if _, err := NewSplitter(pair[0], pair[1]); err != nil {
			t.Fatalf("NewSplitter(%d, %d) error = %v", pair[0], pair[1], err)
		}
	}
}

func TestSplitHardCutScenario(t *testing.T) {
	// 2400 unbroken characters with size 1000 / overlap 200 must yield
	// exactly three chunks sharing 200-character boundary regions.
	s, err := NewSplitter(1000, 200)
	if err != nil {
		t.Fatalf("NewSplitter() error = %v", err)
	}
	text := strings.Repeat("x", 2400)

	chunks := s.Split(text)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if len([]rune(chunk)) > 1000 {
			t.Fatalf("chunk %d exceeds size: %d", i, len([]rune(chunk)))
		}
	}
	for i := 0; i < len(chunks)-1; i++ {
		prev := []rune(chunks[i])
		next := []rune(chunks[i+1])
		tail := string(prev[len(prev)-200:])
		head := string(next[:200])
		if tail != head {
			t.Fatalf("chunks %d/%d do not share a 200-character overlap", i, i+1)
		}
	}
}

func TestSplitNeverDropsText(t *testing.T) {
	s, err := NewSplitter(100, 20)
	if err != nil {
		t.Fatalf("NewSplitter() error = %v", err)
	}
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 30)

	chunks := s.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	var b strings.Builder
	b.WriteString(chunks[0])
	for _, chunk := range chunks[1:] {
		runes := []rune(chunk)
		b.WriteString(string(runes[20:]))
	}
	if b.String() != text {
		t.Fatalf("reassembled chunks do not reproduce the input")
	}
}

func TestSplitPrefersSentenceBoundary(t *testing.T) {
	s, err := NewSplitter(100, 10)
	if err != nil {
		t.Fatalf("NewSplitter() error = %v", err)
	}
	text := strings.Repeat("word ", 14) + "End. " + strings.Repeat("word ", 20)

	chunks := s.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	if !strings.HasSuffix(chunks[0], "End. ") {
		t.Fatalf("expected first chunk to end at sentence boundary, got %q", chunks[0])
	}
}

func TestSplitDeterministic(t *testing.T) {
	s, err := NewSplitter(50, 10)
	if err != nil {
		t.Fatalf("NewSplitter() error = %v", err)
	}
	text := strings.Repeat("alpha beta gamma delta. ", 12)

	first := s.Split(text)
	second := s.Split(text)
	if len(first) != len(second) {
		t.Fatalf("non-deterministic chunk count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("non-deterministic chunk %d", i)
		}
	}
}

func TestSplitEmptyInput(t *testing.T) {
	s, err := NewSplitter(1000, 200)
	if err != nil {
		t.Fatalf("NewSplitter() error = %v", err)
	}
	if chunks := s.Split(""); chunks != nil {
		t.Fatalf("expected nil for empty input, got %v", chunks)
	}
}

func TestSplitShortInputSingleChunk(t *testing.T) {
	s, err := NewSplitter(1000, 200)
	if err != nil {
		t.Fatalf("NewSplitter() error = %v", err)
	}
	chunks := s.Split("short text")
	if len(chunks) != 1 {
		t.Fatalf("expected a single chunk, got %d", len(chunks))
	}
	if chunks[0] != "short text" {
		t.Fatalf("unexpected chunk content %q", chunks[0])
	}
}
