package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	gocert "github.com/VantageDataChat/GoCert"
)

func main() {
	var (
		settingsPath string
		constrained  string
		fontDirs     []string
		families     []string
		verbose      bool
	)

	flags := pflag.NewFlagSet("fontcheck", pflag.ExitOnError)
	flags.StringVar(&settingsPath, "settings", "", "Engine settings file (YAML)")
	flags.StringVar(&constrained, "constrained", "auto", "Constrained environment: auto|on|off")
	flags.StringSliceVar(&fontDirs, "font-dir", nil, "Extra directories to scan for system fonts")
	flags.StringSliceVar(&families, "family", []string{"sans-serif", "serif"}, "Installed families to look up")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log resolution steps")
	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	logger := zap.NewNop()
	if verbose {
		if l, err := zap.NewDevelopment(); err == nil {
			logger = l
		}
	}
	defer func() { _ = logger.Sync() }()

	settings, err := gocert.LoadSettings(settingsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "settings: %v\n", err)
		os.Exit(1)
	}
	switch constrained {
	case "on", "off":
		v := constrained == "on"
		settings.Constrained = &v
	case "auto":
	default:
		fmt.Fprintf(os.Stderr, "invalid --constrained %q\n", constrained)
		os.Exit(2)
	}
	settings.FontDirs = append(settings.FontDirs, fontDirs...)

	engine := gocert.NewEngineFromSettings(settings, logger)
	res := engine.FontResolver().Resolve(context.Background())

	fmt.Printf("family:          %s\n", res.Family)
	fmt.Printf("source:          %s\n", res.Source)
	fmt.Printf("extended chars:  %v\n", res.ExtendedChars)
	fmt.Printf("constrained:     %v\n", res.Constrained)
	fmt.Printf("ascii only:      %v\n", res.ASCIIOnly)
	fmt.Printf("embeddable:      %v\n", res.HasProgram())

	sys := engine.FontResolver().SystemFonts()
	fmt.Printf("system fonts:    %d names\n", sys.Families())
	for _, fam := range families {
		fmt.Printf("  %-16s installed=%v\n", fam, sys.Lookup(fam, false) != nil)
	}

	sample := "Certificação de participação – “Açaí”"
	fmt.Printf("sanitized:       %s\n", res.Sanitizer().Sanitize(sample))
}
