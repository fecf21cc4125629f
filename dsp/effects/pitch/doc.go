// Package pitch provides the block-oriented pitch-shift engine used by the
// live monitor.
//
// [Engine] runs one STFT frame per processed block: the block is windowed,
// transformed, remapped by a phase-vocoder bin shift, transformed back and
// scaled by the output volume. Two framings are available:
//   - block framing (default): each block is windowed in place at the start
//     of a zero-padded frame and written back directly.
//   - streaming framing ([WithOverlapAdd]): the frame is a sliding history of
//     the last N input samples; successive frames are overlap-added and
//     normalised by the accumulated window energy. Output trails input by
//     N samples.
//
// The engine also exposes the dB spectrum of the most recent analysis frame
// for display.
package pitch
