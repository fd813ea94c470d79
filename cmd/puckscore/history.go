package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"puckscore/internal/model"
	"puckscore/internal/repository/sqlite"
)

var (
	historyPath  string
	historyLimit int
	historyStats bool
	historyClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently recorded batches",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("db") {
			cfg.HistoryDB = historyPath
		}
		if cfg.HistoryDB == "" {
			return errors.New("no history database: set HISTORY_DB or pass --db")
		}
		if _, err := os.Stat(cfg.HistoryDB); err != nil {
			return fmt.Errorf("history database %s: %w", cfg.HistoryDB, err)
		}

		db, err := sqlite.New(cfg.HistoryDB)
		if err != nil {
			return err
		}
		defer db.Close()

		repo := sqlite.NewBatchRepository(db)

		if historyClear {
			if err := repo.DeleteAll(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
			return nil
		}

		if historyStats {
			stats, err := repo.GetStats()
			if err != nil {
				return err
			}
			printStats(cmd.OutOrStdout(), stats)
			return nil
		}

		batches, err := repo.GetAll(&model.BatchFilter{Limit: historyLimit})
		if err != nil {
			return err
		}
		printBatches(cmd.OutOrStdout(), batches)
		return nil
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyPath, "db", "", "SQLite file (default: $HISTORY_DB)")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of batches to show")
	historyCmd.Flags().BoolVar(&historyStats, "stats", false, "show aggregate statistics instead of batches")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "delete all recorded batches")
	rootCmd.AddCommand(historyCmd)
}

func printBatches(out io.Writer, batches []model.Batch) {
	if len(batches) == 0 {
		fmt.Fprintln(out, "No batches recorded.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tRENDERED\tSOURCE\tA1\tA2\tA3\tA4\tSCORE")
	fmt.Fprintln(w, "--\t--------\t------\t--\t--\t--\t--\t-----")

	for _, b := range batches {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
			b.ID, b.RenderedAt.Local().Format("2006-01-02 15:04:05"), b.Source,
			b.Area1, b.Area2, b.Area3, b.Area4, b.Score)
	}
	w.Flush()
}

// printStats lists object counts from most to least frequent, ties by name.
func printStats(out io.Writer, stats *model.BatchStats) {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "Batches\t%d\n", stats.TotalBatches)
	fmt.Fprintf(w, "Detections\t%d\n", stats.TotalDetections)
	fmt.Fprintf(w, "Best score\t%d\n", stats.BestScore)
	fmt.Fprintf(w, "Average score\t%.2f\n", stats.AverageScore)

	names := make([]string, 0, len(stats.ObjectCounts))
	for name := range stats.ObjectCounts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ci, cj := stats.ObjectCounts[names[i]], stats.ObjectCounts[names[j]]
		if ci != cj {
			return ci > cj
		}
		return names[i] < names[j]
	})
	for _, name := range names {
		fmt.Fprintf(w, "  %s\t%d\n", name, stats.ObjectCounts[name])
	}
	w.Flush()
}
