package main

import (
	"fmt"
	"io"

	"github.com/aligator/gosmbios"
	"github.com/spf13/cobra"
)

var (
	dumpSysfs bool
	dumpType  int
)

func dumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print every structure of the table",
		Long: `Print the header and the strings of every structure of the table.

Examples:
  # Dump the table of this machine
  smbios dump

  # Dump only the processors from a captured image
  smbios dump --memory-file mem.img --type 4

  # Use the table exported by the kernel, no /dev/mem needed
  smbios dump --sysfs`,
		RunE: runDump,
	}

	cmd.Flags().BoolVar(&dumpSysfs, "sysfs", false, "Read the table from /sys/firmware/dmi/tables")
	cmd.Flags().IntVar(&dumpType, "type", -1, "Only print structures of this type")

	return cmd
}

func runDump(cmd *cobra.Command, _ []string) error {
	// -1 means every type.
	if dumpType < -1 || dumpType > 0xFF {
		return fmt.Errorf("invalid structure type %d", dumpType)
	}

	opts := []smbios.Option{smbios.WithFs(appFs), smbios.WithLogger(log)}
	if memoryFile != "" {
		opts = append(opts, smbios.WithMemoryFile(memoryFile))
	}
	if dumpSysfs {
		opts = append(opts, smbios.WithStrategies(smbios.SysfsStrategy{}))
	}
	table, err := smbios.Acquire(smbios.Private, opts...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	ep := table.EntryPoint()
	fmt.Fprintf(out, "SMBIOS %s present (%s).\n", ep.Version(), ep.Anchor)
	fmt.Fprintf(out, "Table at 0x%08X, %d bytes.\n\n", ep.TableAddress, table.Len())

	// The walk frees the table when it is done.
	count := 0
	for s := range table.Walk() {
		if dumpType >= 0 && s.Type() != uint8(dumpType) {
			continue
		}
		printStructure(out, s)
		count++
	}

	log.Debug().Int("structures", count).Msg("dump done")
	return nil
}

func printStructure(out io.Writer, s *smbios.Structure) {
	fmt.Fprintf(out, "Handle 0x%04X, DMI type %d, %d bytes\n", s.Handle(), s.Type(), s.Length())
	for i, str := range s.Strings() {
		fmt.Fprintf(out, "\tString %d: %s\n", i+1, str)
	}
	fmt.Fprintln(out)
}
