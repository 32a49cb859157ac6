package tokenizer

import "testing"

func TestEstimate(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"abc", 1},
		{"abcdef", 2},
		{"hello world, how are you", 8},
	}
	for _, tt := range tests {
		if got := Estimate(tt.text); got != tt.want {
			t.Errorf("Estimate(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestCountEmptyTextSkipsLoading(t *testing.T) {
	counter := NewTiktoken("no-such-encoding", nil)
	if got := counter.Count(""); got != 0 {
		t.Fatalf("Count(\"\") = %d, want 0", got)
	}
}

func TestUnknownEncodingFallsBackToEstimate(t *testing.T) {
	counter := NewTiktoken("no-such-encoding", nil)
	if err := counter.Ready(); err == nil {
		t.Fatal("expected Ready to fail for an unknown encoding")
	}
	text := "estimate me please"
	if got, want := counter.Count(text), Estimate(text); got != want {
		t.Fatalf("Count = %d, want fallback %d", got, want)
	}
}
