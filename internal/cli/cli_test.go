package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/cwbudde/algo-vocoder/internal/config"
)

func TestPrintInfo(t *testing.T) {
	var buf bytes.Buffer

	cfg := config.Default()
	cfg.Backend = "tone"

	if err := PrintInfo(&buf, cfg, 69*time.Millisecond); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"tone", "44100 Hz", "4096 (2049 bins)", "75% overlap", "10.77 Hz", "69ms", "Rectangular", "Hann", "Hamming", "Blackman"} {
		if !strings.Contains(out, want) {
			t.Errorf("info missing %q:\n%s", want, out)
		}
	}
}

func TestFprintError(t *testing.T) {
	var buf bytes.Buffer
	FprintError(&buf, "device busy")

	if got := buf.String(); !strings.Contains(got, "Error:") || !strings.Contains(got, "device busy") {
		t.Fatalf("FprintError wrote %q", got)
	}
}

type helpCLI struct {
	Backend string `short:"b" default:"malgo" help:"Audio backend." placeholder:"name"`
	Verbose bool   `help:"Verbose output."`
	Secret  string `hidden:"" help:"Not shown."`
}

func TestStyledHelpPrinter(t *testing.T) {
	var out bytes.Buffer

	parser, err := kong.New(&helpCLI{},
		kong.Name("vocoder"),
		kong.Writers(&out, &out),
		kong.Exit(func(int) {}),
		kong.Help(StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)
	if err != nil {
		t.Fatal(err)
	}

	_, _ = parser.Parse([]string{"--help"})

	help := out.String()
	for _, want := range []string{"Usage:", "vocoder [flags]", "-b, --backend=NAME", "Audio backend.", "--verbose", "Keys:", "Toggle mute"} {
		if !strings.Contains(help, want) {
			t.Errorf("help missing %q:\n%s", want, help)
		}
	}

	if strings.Contains(help, "--secret") {
		t.Errorf("hidden flag listed:\n%s", help)
	}
}
