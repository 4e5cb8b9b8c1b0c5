package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/podcast-segmenter/internal/config"
	"github.com/handiism/podcast-segmenter/internal/logging"
	"github.com/handiism/podcast-segmenter/internal/pipeline"
)

var (
	errorPrefix   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Render("✗ ")
	warningPrefix = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFE66D")).Render("! ")
	successPrefix = lipgloss.NewStyle().Foreground(lipgloss.Color("#95E1A3")).Render("✓ ")
	infoPrefix    = lipgloss.NewStyle().Foreground(lipgloss.Color("#A8DADC")).Render("› ")
	verbosePrefix = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C757D")).Render("  ")
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
)

func main() {
	// Command line flags
	var (
		showsFlag       = flag.String("shows", "", "Show slug(s) to process (comma-separated or newline-separated)")
		outputFlag      = flag.String("output", "", "Output directory (overrides config)")
		maxEpisodesFlag = flag.Int("max-episodes", -1, "Episodes per show, 0 = all (overrides config)")
		segmentFlag     = flag.Int("segment-ms", 0, "Segment length in milliseconds (overrides config)")
		configFlag      = flag.String("config", "", "Path to config file")
		codecFlag       = flag.String("codec", "", "Audio codec: ffmpeg or frames (overrides config)")
		logFlag         = flag.String("log", "", "Error log file (overrides config)")
		playlistFlag    = flag.Bool("playlist", false, "Create a playlist per show")
		coverArtFlag    = flag.Bool("cover-art", false, "Save channel artwork as cover.jpg")
		verboseFlag     = flag.Bool("verbose", false, "Show verbose output")
		dryRunFlag      = flag.Bool("dry-run", false, "List episodes without downloading")
	)

	flag.Parse()

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	settings.ApplyEnv()

	// Apply flags
	if *showsFlag != "" {
		settings.Shows = config.SplitShows(*showsFlag)
	}
	if flag.NArg() > 0 {
		settings.Shows = append(settings.Shows, config.SplitShows(strings.Join(flag.Args(), ","))...)
	}
	if *outputFlag != "" {
		settings.OutputFolder = *outputFlag
	}
	if *maxEpisodesFlag >= 0 {
		settings.MaxEpisodes = *maxEpisodesFlag
	}
	if *segmentFlag != 0 {
		settings.SegmentLengthMs = *segmentFlag
	}
	if *codecFlag != "" {
		settings.Codec = *codecFlag
	}
	if *logFlag != "" {
		settings.ErrorLogPath = *logFlag
	}
	if *playlistFlag {
		settings.CreatePlaylist = true
	}
	if *coverArtFlag {
		settings.SaveCoverArt = true
	}

	if len(settings.Shows) == 0 {
		fmt.Println("Podcast Segmenter - Download podcast episodes and split them into segments")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  podcast-dl -shows <slug>[,<slug>...] [options]")
		fmt.Println("  podcast-dl [options] <slug> [<slug>...]")
		fmt.Println()
		fmt.Println("For interactive mode, use: podcast-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := settings.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid settings: %v\n", err)
		os.Exit(1)
	}

	errLog, closeLog, err := logging.NewErrorLog(settings.ErrorLogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	// Handle interrupts
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver := pipeline.NewDriver(settings, errLog, func(event pipeline.ProgressEvent) {
		if event.Level == pipeline.LevelVerbose && !*verboseFlag {
			return
		}

		var prefix string
		switch event.Level {
		case pipeline.LevelError:
			prefix = errorPrefix
		case pipeline.LevelWarning:
			prefix = warningPrefix
		case pipeline.LevelSuccess:
			prefix = successPrefix
		case pipeline.LevelInfo:
			prefix = infoPrefix
		default:
			prefix = verbosePrefix
		}

		fmt.Println(prefix + event.Message)
	})

	fmt.Println(headerStyle.Render("Podcast Segmenter"))
	fmt.Println(strings.Repeat("━", 40))
	fmt.Println()

	if *dryRunFlag {
		for _, f := range driver.Preview(ctx, settings.Shows) {
			fmt.Printf("%s (%d episodes) -> %s\n", f.Title, len(f.Episodes), f.Path)
			for _, ep := range f.Episodes {
				fmt.Printf("  %s  %s\n", ep.RelativePath(), ep.AudioURL)
			}
		}
		fmt.Println("\n[Dry run - not downloading]")
		return
	}

	summary, err := driver.Run(ctx, settings.Shows)
	if err != nil {
		closeLog()
		if errors.Is(err, context.Canceled) {
			fmt.Println("\nRun cancelled.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println(strings.Repeat("━", 40))
	fmt.Printf("Shows: %d processed, %d failed\n", summary.ShowsProcessed, summary.ShowsFailed)
	fmt.Printf("Episodes: %d downloaded, %d failed\n", summary.EpisodesDownloaded, summary.EpisodesFailed)
	fmt.Printf("Segments: %d written\n", summary.SegmentsWritten)
	if summary.ShowsFailed > 0 || summary.EpisodesFailed > 0 {
		fmt.Printf("Failures were recorded in %s\n", settings.ErrorLogPath)
	}
}
