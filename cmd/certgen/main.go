package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	gocert "github.com/VantageDataChat/GoCert"
)

func main() {
	var (
		configPath   string
		presetID     string
		settingsPath string
		participants string
		name         string
		eventName    string
		eventDate    string
		startTime    string
		endTime      string
		eventID      string
		format       string
		outDir       string
		concurrency  int
		verbose      bool
		listPresets  bool
		validateOnly bool
	)

	flags := pflag.NewFlagSet("certgen", pflag.ExitOnError)
	flags.StringVarP(&configPath, "config", "c", "", "Certificate config file (YAML or JSON)")
	flags.StringVarP(&presetID, "preset", "p", "", "Start from a catalog preset instead of a config file")
	flags.StringVar(&settingsPath, "settings", "", "Engine settings file (YAML)")
	flags.StringVar(&participants, "participants", "", "Participants file (YAML or JSON list)")
	flags.StringVarP(&name, "name", "n", "", "Participant name (single certificate)")
	flags.StringVarP(&eventName, "event", "e", "", "Event name")
	flags.StringVarP(&eventDate, "date", "d", "", "Event date (YYYY-MM-DD)")
	flags.StringVar(&startTime, "start", "", "Event start time (HH:MM)")
	flags.StringVar(&endTime, "end", "", "Event end time (HH:MM)")
	flags.StringVar(&eventID, "event-id", "", "Event identifier for the default QR payload")
	flags.StringVarP(&format, "format", "f", "png", "Output format: png|pdf|both")
	flags.StringVarP(&outDir, "output", "o", ".", "Output directory")
	flags.IntVarP(&concurrency, "concurrency", "j", 0, "Concurrent renders (0 uses GOMAXPROCS)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Development logging")
	flags.BoolVar(&listPresets, "list-presets", false, "List catalog presets")
	flags.BoolVar(&validateOnly, "validate", false, "Validate the config and exit")

	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, "certgen", gocert.Version)
		fmt.Fprintf(os.Stderr, "Usage: certgen [flags]\n")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flags.PrintDefaults()
	}
	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	if listPresets {
		for _, p := range gocert.Presets() {
			fmt.Printf("%-12s %-12s %s\n", p.ID, p.Name, p.Description)
		}
		return
	}

	logger := newLogger(verbose)
	defer func() { _ = logger.Sync() }()

	cfg, raw, err := loadConfig(configPath, presetID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if validateOnly {
		if err := raw.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println("config is valid")
		return
	}
	if err := raw.Validate(); err != nil {
		logger.Warn("config has problems, rendering clamped values", zap.Error(err))
	}

	list, err := loadParticipants(participants, gocert.CertificateData{
		ParticipantName: name,
		EventName:       eventName,
		StartTime:       startTime,
		EndTime:         endTime,
		EventID:         eventID,
	}, eventDate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "participants: %v\n", err)
		os.Exit(1)
	}

	settings, err := gocert.LoadSettings(settingsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "settings: %v\n", err)
		os.Exit(1)
	}
	engine := gocert.NewEngineFromSettings(settings, logger)

	renderers, err := selectRenderers(engine, format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		fmt.Fprintf(os.Stderr, "mkdir: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	failed := 0
	for _, r := range renderers {
		results := gocert.RenderBatch(ctx, r, cfg, list, concurrency)
		for _, res := range results {
			if res.Err != nil {
				logger.Error("render failed",
					zap.Int("index", res.Index),
					zap.String("participant", res.Data.ParticipantName),
					zap.Error(res.Err))
				continue
			}
			path := filepath.Join(outDir, fileName(res.Index, res.Data.ParticipantName)+res.Certificate.Extension())
			if err := os.WriteFile(path, res.Certificate.Data, 0o640); err != nil {
				logger.Error("write failed", zap.String("path", path), zap.Error(err))
				failed++
				continue
			}
			fmt.Println(path)
		}
		failed += gocert.BatchErrors(results)
	}
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d certificate(s) failed\n", failed)
		os.Exit(1)
	}
}

func newLogger(verbose bool) *zap.Logger {
	var (
		l   *zap.Logger
		err error
	)
	if verbose {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// loadConfig returns the effective config and the unclamped one for
// validation.
func loadConfig(path, preset string) (gocert.CertificateConfig, gocert.CertificateConfig, error) {
	switch {
	case path != "":
		doc, err := gocert.LoadConfigDocument(path)
		if err != nil {
			return gocert.CertificateConfig{}, gocert.CertificateConfig{}, err
		}
		return doc.Resolve(), doc.Merge(), nil
	case preset != "":
		p, err := gocert.PresetByID(preset)
		if err != nil {
			return gocert.CertificateConfig{}, gocert.CertificateConfig{}, err
		}
		return p.Config.Effective(), p.Config, nil
	default:
		cfg := gocert.DefaultConfig()
		return cfg, cfg, nil
	}
}

func loadParticipants(path string, single gocert.CertificateData, date string) ([]gocert.CertificateData, error) {
	if path != "" {
		return gocert.LoadCertificateData(path)
	}
	if strings.TrimSpace(single.ParticipantName) == "" {
		return nil, fmt.Errorf("either --participants or --name is required")
	}
	if date != "" {
		d, err := time.Parse("2006-01-02", date)
		if err != nil {
			return nil, fmt.Errorf("invalid --date %q: %w", date, err)
		}
		single.EventDate = d
	}
	return []gocert.CertificateData{single}, nil
}

func selectRenderers(e *gocert.Engine, format string) ([]gocert.CertificateRenderer, error) {
	switch strings.ToLower(format) {
	case "png":
		return []gocert.CertificateRenderer{e.Raster()}, nil
	case "pdf":
		return []gocert.CertificateRenderer{e.Vector()}, nil
	case "both":
		return []gocert.CertificateRenderer{e.Raster(), e.Vector()}, nil
	default:
		return nil, fmt.Errorf("unknown --format %q (want png, pdf or both)", format)
	}
}

// fileName builds a filesystem-safe name from the participant name.
func fileName(index int, participant string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(participant) {
		switch {
		case r < 128 && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "certificate"
	}
	return fmt.Sprintf("%03d-%s", index+1, slug)
}
