package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/voicelens/voicelens/internal/audio"
	"github.com/voicelens/voicelens/internal/cli"
	"github.com/voicelens/voicelens/internal/features"
	"github.com/voicelens/voicelens/internal/logging"
	"github.com/voicelens/voicelens/internal/pipeline"
	"github.com/voicelens/voicelens/internal/ui"
)

var (
	version = "0.0.1"
)

// CLI defines the command-line interface
type CLI struct {
	Version bool     `short:"v" help:"Show version information"`
	Tier    string   `short:"t" enum:"fast,advanced" default:"fast" help:"Analysis tier: fast or advanced"`
	Report  bool     `short:"r" help:"Print a session report for each file after analysis"`
	ChunkMs int      `default:"100" help:"Analysis window length in milliseconds"`
	Mains   int      `help:"Override mains frequency for hum detection (50 or 60)"`
	Files   []string `arg:"" name:"files" help:"WAV files to analyze" type:"existingfile" optional:""`
}

func main() {
	cliArgs := &CLI{}
	ctx := kong.Parse(cliArgs,
		kong.Name("voicelens"),
		kong.Description("Speech emotion and speaker analysis for voice recordings"),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	if cliArgs.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	if len(cliArgs.Files) == 0 {
		cli.PrintError("No input files specified")
		ctx.PrintUsage(false)
		os.Exit(1)
	}

	cfg := pipeline.DefaultConfig()
	if cliArgs.Tier == "advanced" {
		cfg.Tier = features.TierAdvanced
	}
	if cliArgs.ChunkMs > 0 {
		cfg.ChunkSize = cliArgs.ChunkMs * pipeline.DefaultSampleRate / 1000
	}
	if cliArgs.Mains > 0 {
		cfg.MainsHz = cliArgs.Mains
	}

	model := ui.NewModel(cliArgs.Files)
	p := tea.NewProgram(model, tea.WithAltScreen())

	results := make([]*pipeline.FileResult, len(cliArgs.Files))

	// Analyze files in the background while the TUI runs. Messages flow
	// through the model's channel so the UI drains them in order.
	go func() {
		for i, inputPath := range cliArgs.Files {
			model.ProgressChan <- ui.FileStartMsg{
				FileIndex: i,
				FileName:  inputPath,
			}

			result, err := pipeline.ProcessFile(inputPath, cfg,
				func(progress float64, chunk audio.Chunk, res pipeline.ChunkResult) {
					model.ProgressChan <- ui.ChunkMsg{
						Progress:      progress,
						LevelDB:       res.LevelDB,
						Emotion:       res.Emotion,
						Speaker:       res.Speaker,
						Voice:         chunk.Voice,
						NoiseCaptured: res.NoiseCaptured,
					}
				})
			if err != nil {
				model.ProgressChan <- ui.FileCompleteMsg{
					FileIndex: i,
					Error:     err,
				}
				continue
			}

			results[i] = result
			model.ProgressChan <- ui.FileCompleteMsg{
				FileIndex: i,
				Result:    result,
			}
		}

		model.ProgressChan <- ui.AllCompleteMsg{}
	}()

	if _, err := p.Run(); err != nil {
		cli.PrintError(fmt.Sprintf("UI error: %v", err))
		os.Exit(1)
	}

	if cliArgs.Report {
		for _, result := range results {
			if result == nil {
				continue
			}
			logging.WriteSessionReport(os.Stdout, result)
		}
	}
}
