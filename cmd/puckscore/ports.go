package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"puckscore/internal/service/serial"
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List the serial ports on this machine",
	RunE: func(cmd *cobra.Command, args []string) error {
		ports, err := serial.Ports()
		if err != nil {
			return err
		}

		if len(ports) == 0 {
			fmt.Println("No serial ports found.")
			return nil
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(portsCmd)
}
