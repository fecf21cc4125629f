package audio

import (
	"encoding/binary"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-vocoder/dsp/buffer"
)

// bridge carries samples between a device callback and the processing loop.
type bridge struct {
	capture  *buffer.Ring
	playback *buffer.Ring

	inScratch  []float32
	outScratch []float32

	captured  atomic.Uint64
	played    atomic.Uint64
	overruns  atomic.Uint64
	underruns atomic.Uint64
	dropped   atomic.Uint64
}

func newBridge(cfg Config) *bridge {
	size := cfg.BlockSize * cfg.BufferBlocks

	return &bridge{
		capture:    buffer.NewRing(size),
		playback:   buffer.NewRing(size),
		inScratch:  make([]float32, cfg.BlockSize),
		outScratch: make([]float32, cfg.BlockSize),
	}
}

func (b *bridge) Capture(buf []float64) int {
	n := b.capture.Read(buf)
	b.captured.Add(uint64(n))

	return n
}

func (b *bridge) Playback(buf []float64) int {
	n := b.playback.Write(buf)
	b.played.Add(uint64(n))

	if lost := len(buf) - n; lost > 0 {
		b.dropped.Add(uint64(lost))
	}

	return n
}

func (b *bridge) Stats() Stats {
	return Stats{
		Captured:  b.captured.Load(),
		Played:    b.played.Load(),
		Overruns:  b.overruns.Load(),
		Underruns: b.underruns.Load(),
		Dropped:   b.dropped.Load(),
		Queued:    uint64(b.playback.Len()),
	}
}

// duplex is the device callback: in is pushed to the capture ring and out is
// filled from the playback ring, zero-padded on underrun.
func (b *bridge) duplex(in, out []float32) {
	if w := b.capture.Write32(in); w < len(in) {
		b.overruns.Add(uint64(len(in) - w))
	}

	r := b.playback.Read32(out)
	if r < len(out) {
		clear(out[r:])
		b.underruns.Add(uint64(len(out) - r))
	}
}

// duplexBytes adapts duplex to interleaved little-endian float32 buffers.
func (b *bridge) duplexBytes(out, in []byte, frames uint32) {
	n := int(frames)
	if cap(b.inScratch) < n {
		b.inScratch = make([]float32, n)
		b.outScratch = make([]float32, n)
	}

	nIn := min(n, len(in)/4)
	ins := b.inScratch[:nIn]

	for i := range ins {
		ins[i] = math.Float32frombits(binary.LittleEndian.Uint32(in[4*i:]))
	}

	outs := b.outScratch[:min(n, len(out)/4)]
	b.duplex(ins, outs)

	for i, v := range outs {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(v))
	}
}
