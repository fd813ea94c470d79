package main

import (
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"puckscore/internal/app"
	"puckscore/internal/service/replay"
	"puckscore/internal/telemetry"
)

var (
	replayDelay  time.Duration
	replayHold   bool
	replayOutput outputFlags
)

var replayCmd = &cobra.Command{
	Use:   "replay FILE",
	Short: "Feed a captured telemetry file through the scoring loop",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		replayOutput.apply(cmd, cfg)

		total, err := replay.CountLines(path)
		if err != nil {
			return err
		}

		src, err := replay.Open(path, replayDelay)
		if err != nil {
			return err
		}

		a, err := app.NewApp(cfg, appLogger)
		if err != nil {
			src.Close()
			return err
		}

		bar := progressbar.NewOptions(total,
			progressbar.OptionSetDescription("Replaying"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
		)

		err = a.Run(cmd.Context(), src, app.RunOptions{
			SourceName: path,
			HoldOnEOF:  replayHold && cfg.DisplayEnabled,
			OnLine: func(telemetry.Kind) {
				bar.Add(1)
			},
			CloseMessage: "Replay finished.",
		})
		bar.Finish()

		appLogger.Info("Replayed %d of %d lines from %s", src.Lines(), total, path)
		return err
	},
}

func init() {
	replayCmd.Flags().DurationVar(&replayDelay, "delay", 0, "pause between lines, e.g. 20ms")
	replayCmd.Flags().BoolVar(&replayHold, "hold", false, "keep the window open after the last line until the quit key is pressed")
	replayOutput.register(replayCmd)
	rootCmd.AddCommand(replayCmd)
}
