package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/renebarto/gonet/internal/ifaces"
)

func ifacesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ifaces",
		Short: "Dump a snapshot of host network interfaces",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			snapshot, err := ifaces.Snapshot()
			if err != nil {
				return fmt.Errorf("snapshot interfaces: %w", err)
			}

			out, err := formatIfaces(snapshot, outputFormat)
			if err != nil {
				return fmt.Errorf("format interfaces: %w", err)
			}

			fmt.Print(out)
			return nil
		},
	}
}
