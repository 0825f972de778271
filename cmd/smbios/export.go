package main

import (
	"os"
	"path/filepath"

	"github.com/aligator/gosmbios"
	"github.com/aligator/gosmbios/dmifs"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var exportOutput string

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the table as a sysfs like directory tree",
		Long: `Write the table in the layout of /sys/firmware/dmi: the raw table as DMI
and one directory per structure below entries/.

Examples:
  smbios export --out dmi
  smbios export --memory-file mem.img --out dmi`,
		RunE: runExport,
	}

	cmd.Flags().StringVarP(&exportOutput, "out", "o", "", "Directory to write")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runExport(_ *cobra.Command, _ []string) error {
	opts := []smbios.Option{smbios.WithFs(appFs), smbios.WithLogger(log)}
	if memoryFile != "" {
		opts = append(opts, smbios.WithMemoryFile(memoryFile))
	}

	table, err := smbios.Acquire(smbios.Private, opts...)
	if err != nil {
		return err
	}
	defer table.Free()

	src, err := dmifs.New(table)
	if err != nil {
		return err
	}

	count := 0
	err = afero.Walk(src, "/", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		dst := filepath.Join(exportOutput, filepath.FromSlash(path))
		if info.IsDir() {
			return appFs.MkdirAll(dst, 0755)
		}

		data, err := afero.ReadFile(src, path)
		if err != nil {
			return err
		}
		count++
		return afero.WriteFile(appFs, dst, data, 0444)
	})
	if err != nil {
		return err
	}

	log.Info().Str("dir", exportOutput).Int("files", count).Msg("table exported")
	return nil
}
