// Command smbios dumps the SMBIOS table of the running machine or of a
// captured memory image.
package main

import (
	"os"

	"github.com/aligator/gosmbios"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	appFs = afero.NewOsFs()
	log   = zerolog.Nop()

	memoryFile string
	debug      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "smbios",
		Short: "Read the SMBIOS table",
		Long: `smbios locates the SMBIOS entry point, validates it and decodes the
structure table it points to. Reading /dev/mem usually requires root.`,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			level := zerolog.InfoLevel
			if debug {
				level = zerolog.DebugLevel
			}

			log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).
				With().
				Timestamp().
				Logger()
			smbios.SetLogger(log)
		},
	}

	rootCmd.PersistentFlags().StringVar(&memoryFile, "memory-file", "", "Read physical memory from this file instead of /dev/mem")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(dumpCmd())
	rootCmd.AddCommand(captureCmd())
	rootCmd.AddCommand(exportCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
