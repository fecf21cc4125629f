package cli

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
)

var (
	helpDescStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Italic(true).
			MarginBottom(1)

	helpFlagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00AA00")).
			Bold(true)

	helpDefaultStyle = lipgloss.NewStyle().
				Foreground(mutedColor).
				Italic(true)
)

// KeyBindings lists the monitor keys shown in the help output.
var KeyBindings = [][2]string{
	{"up, k", "Pitch up one semitone"},
	{"down, j", "Pitch down one semitone"},
	{"0", "Reset pitch"},
	{"+, =", "Volume up"},
	{"-", "Volume down"},
	{"m", "Toggle mute"},
	{"q, ctrl+c", "Quit"},
}

type helpFlag struct {
	flags      string
	help       string
	defaultVal string
}

// StyledHelpPrinter creates a help printer with Lipgloss styling
func StyledHelpPrinter(options kong.HelpOptions) func(options kong.HelpOptions, ctx *kong.Context) error {
	return func(_ kong.HelpOptions, ctx *kong.Context) error {
		var sb strings.Builder

		sb.WriteString(TitleStyle.Render("Vocoder"))
		sb.WriteString("\n")
		sb.WriteString(helpDescStyle.Render("Live microphone pitch shifter with level and spectrum display"))
		sb.WriteString("\n")

		sb.WriteString(SectionStyle.Render("Usage:"))
		fmt.Fprintf(&sb, "\n  %s [flags]\n", ctx.Model.Name)

		sb.WriteString("\n")
		sb.WriteString(SectionStyle.Render("Flags:"))
		sb.WriteString("\n")

		for _, f := range collectFlags(ctx.Model.Node.Flags) {
			sb.WriteString("  ")
			sb.WriteString(helpFlagStyle.Render(f.flags))

			if f.help != "" {
				sb.WriteString("  ")
				sb.WriteString(f.help)
			}

			if f.defaultVal != "" {
				sb.WriteString(" ")
				sb.WriteString(helpDefaultStyle.Render("(default: " + f.defaultVal + ")"))
			}

			sb.WriteString("\n")
		}

		sb.WriteString("\n")
		sb.WriteString(SectionStyle.Render("Keys:"))
		sb.WriteString("\n")

		for _, kb := range KeyBindings {
			fmt.Fprintf(&sb, "  %s  %s\n", helpFlagStyle.Render(fmt.Sprintf("%-10s", kb[0])), kb[1])
		}

		sb.WriteString("\n")
		fmt.Fprint(ctx.Stdout, sb.String())

		return nil
	}
}

func collectFlags(flags []*kong.Flag) []helpFlag {
	out := []helpFlag{{flags: "-h, --help", help: "Show context-sensitive help."}}

	for _, f := range flags {
		if f.Name == "help" || f.Hidden {
			continue
		}

		name := "--" + f.Name
		if f.Short != 0 {
			name = fmt.Sprintf("-%c, --%s", f.Short, f.Name)
		}

		if !f.IsBool() && f.PlaceHolder != "" {
			name += "=" + strings.ToUpper(f.PlaceHolder)
		}

		out = append(out, helpFlag{flags: name, help: f.Help, defaultVal: f.FormatPlaceHolder()})
	}

	return out
}
