package main

import (
	"github.com/spf13/cobra"

	"puckscore/internal/app"
	"puckscore/internal/service/serial"
)

var (
	runPort   string
	runBaud   int
	runOutput outputFlags
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Read detections from the serial port and show the live score",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("port") {
			cfg.SerialPort = runPort
		}
		if cmd.Flags().Changed("baud") {
			cfg.BaudRate = runBaud
		}
		runOutput.apply(cmd, cfg)

		port, err := serial.Open(cfg)
		if err != nil {
			return err
		}
		appLogger.Info("Opened %s at %d baud", port.Name(), cfg.BaudRate)

		a, err := app.NewApp(cfg, appLogger)
		if err != nil {
			port.Close()
			return err
		}

		return a.Run(cmd.Context(), port, app.RunOptions{
			SourceName:   port.Name(),
			CloseMessage: "Serial connection closed.",
		})
	},
}

func init() {
	runCmd.Flags().StringVarP(&runPort, "port", "p", "", "serial device (default: $SERIAL_PORT or /dev/ttyACM0)")
	runCmd.Flags().IntVarP(&runBaud, "baud", "b", 0, "baud rate (default: $BAUD_RATE or 115200)")
	runOutput.register(runCmd)
	rootCmd.AddCommand(runCmd)
}
