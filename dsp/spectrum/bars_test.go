package spectrum

import (
	"errors"
	"math"
	"testing"
)

func TestNewBarLayoutMapping(t *testing.T) {
	cfg := DefaultBarConfig()

	l, err := NewBarLayout(cfg)
	if err != nil {
		t.Fatal(err)
	}

	if l.Len() != cfg.Bars {
		t.Fatalf("Len() = %d, want %d", l.Len(), cfg.Bars)
	}

	freqs := l.Frequencies()
	bins := l.Bins()

	if freqs[0] != cfg.MinFreq {
		t.Fatalf("freqs[0] = %v, want %v", freqs[0], cfg.MinFreq)
	}

	if bins[0] != 2 {
		t.Fatalf("bins[0] = %d, want 2", bins[0])
	}

	for b := range freqs {
		want := cfg.MinFreq * math.Pow(cfg.MaxFreq/cfg.MinFreq, float64(b)/float64(cfg.Bars))
		if math.Abs(freqs[b]-want) > 1e-9 {
			t.Fatalf("freqs[%d] = %v, want %v", b, freqs[b], want)
		}

		wantBin := int(math.Round(want / cfg.SampleRate * float64(cfg.FFTSize)))
		if bins[b] != wantBin {
			t.Fatalf("bins[%d] = %d, want %d", b, bins[b], wantBin)
		}

		if b > 0 && bins[b] < bins[b-1] {
			t.Fatalf("bins not monotonic at %d: %v", b, bins)
		}
	}

	if freqs[len(freqs)-1] >= cfg.MaxFreq {
		t.Fatalf("last bar %v should stay below MaxFreq", freqs[len(freqs)-1])
	}
}

func TestNewBarLayoutInvalid(t *testing.T) {
	mutations := map[string]func(*BarConfig){
		"no bars":       func(c *BarConfig) { c.Bars = 0 },
		"no height":     func(c *BarConfig) { c.Height = 0 },
		"no rate":       func(c *BarConfig) { c.SampleRate = 0 },
		"no fft":        func(c *BarConfig) { c.FFTSize = 0 },
		"zero min freq": func(c *BarConfig) { c.MinFreq = 0 },
		"inverted freq": func(c *BarConfig) { c.MaxFreq = 10 },
		"inverted db":   func(c *BarConfig) { c.MinDB = 5 },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultBarConfig()
			mutate(&cfg)

			if _, err := NewBarLayout(cfg); !errors.Is(err, ErrInvalidBarConfig) {
				t.Fatalf("error = %v, want ErrInvalidBarConfig", err)
			}
		})
	}
}

func TestHeights(t *testing.T) {
	cfg := DefaultBarConfig()

	l, err := NewBarLayout(cfg)
	if err != nil {
		t.Fatal(err)
	}

	spectrumDB := make([]float64, cfg.FFTSize/2+1)
	heights := make([]int, cfg.Bars)

	tests := []struct {
		name string
		db   float64
		want int
	}{
		{name: "floor", db: -30, want: 0},
		{name: "half", db: -15, want: 5},
		{name: "ceiling", db: 0, want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := range spectrumDB {
				spectrumDB[i] = tt.db
			}

			if n := l.Heights(heights, spectrumDB); n != cfg.Bars {
				t.Fatalf("n = %d, want %d", n, cfg.Bars)
			}

			for b, h := range heights {
				if h != tt.want {
					t.Fatalf("heights[%d] = %d, want %d", b, h, tt.want)
				}
			}
		})
	}
}

func TestHeightsOutOfRangeBinsReadFloor(t *testing.T) {
	l, err := NewBarLayout(DefaultBarConfig())
	if err != nil {
		t.Fatal(err)
	}

	short := []float64{0, 0, 0}
	heights := make([]int, l.Len())

	l.Heights(heights, short)

	if heights[0] != 10 {
		t.Fatalf("heights[0] = %d, want 10 (bin 2 in range)", heights[0])
	}

	last := l.Len() - 1
	if heights[last] != 0 {
		t.Fatalf("heights[last] = %d, want 0", heights[last])
	}

	if levels[last] != DefaultMinDB {
		t.Fatalf("levels[last] = %v, want floor", levels[last])
	}
}
