package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/cwbudde/algo-vocoder/dsp/window"
	"github.com/cwbudde/algo-vocoder/internal/config"
)

// infoWindows are the tapers compared in the --info table.
var infoWindows = []window.Type{
	window.TypeRectangular,
	window.TypeHann,
	window.TypeHamming,
	window.TypeBlackman,
}

// PrintInfo writes the derived processing parameters of cfg followed by a
// spectral comparison of the available windows at the transform size.
func PrintInfo(w io.Writer, cfg config.Config, latency time.Duration) error {
	fmt.Fprintln(w, TitleStyle.Render("Vocoder session"))

	rows := [][2]string{
		{"Backend", cfg.Backend},
		{"Sample rate", fmt.Sprintf("%.0f Hz", cfg.SampleRate)},
		{"Block size", fmt.Sprintf("%d frames (%.1f ms)", cfg.BlockSize, 1000*float64(cfg.BlockSize)/cfg.SampleRate)},
		{"FFT size", fmt.Sprintf("%d (%d bins)", cfg.FFTSize, cfg.FFTSize/2+1)},
		{"Hop size", fmt.Sprintf("%d (%.0f%% overlap)", cfg.HopSize, 100*(1-float64(cfg.HopSize)/float64(cfg.FFTSize)))},
		{"Bin width", fmt.Sprintf("%.2f Hz", cfg.BinWidth())},
		{"Overlap-add", fmt.Sprintf("%t", cfg.OverlapAdd)},
		{"Latency", latency.String()},
		{"Pitch", fmt.Sprintf("%+.2f st (x%.4f)", cfg.PitchSemitones, cfg.PitchRatio())},
		{"Volume", fmt.Sprintf("%.2f", cfg.Volume)},
	}

	for _, row := range rows {
		fmt.Fprintf(w, "%s %s\n", KeyStyle.Render(fmt.Sprintf("%-12s", row[0]+":")), ValueStyle.Render(row[1]))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, SectionStyle.Render("Windows:"))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Window\tCoherent Gain\tENBW [bins]\tENBW [Hz]\tBW 3dB [bins]\tScallop [dB]\tOLA Gain\n")
	fmt.Fprintf(tw, "------\t-------------\t-----------\t---------\t-------------\t------------\t--------\n")

	for _, typ := range infoWindows {
		a := window.Analyze(window.Generate(typ, cfg.FFTSize))

		fmt.Fprintf(tw, "%s\t%.6f\t%.4f\t%.2f\t%.4f\t%.4f\t%.4f\n",
			typ,
			a.CoherentGain,
			a.ENBW,
			a.ENBW*cfg.BinWidth(),
			a.Bandwidth3dB,
			a.ScallopLossdB,
			a.OverlapGain,
		)
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("cli: write info: %w", err)
	}

	return nil
}
