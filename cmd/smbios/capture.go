package main

import (
	"errors"
	"os"

	"github.com/aligator/gosmbios"
	"github.com/aligator/gosmbios/memory"
	"github.com/spf13/cobra"
)

var captureOutput string

func captureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Capture the memory holding the table into an image",
		Long: `Copy the entry point scan range and the table it points to into a sparse
image. The image can be read later with --memory-file.

Examples:
  sudo smbios capture --out mem.img
  smbios dump --memory-file mem.img`,
		RunE: runCapture,
	}

	cmd.Flags().StringVarP(&captureOutput, "out", "o", "", "Image file to write")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runCapture(_ *cobra.Command, _ []string) error {
	src, err := memory.New(memoryFile, memory.WithFs(appFs))
	if err != nil {
		return err
	}
	defer src.Close()

	src.SuggestLeaveOpen()
	defer src.SuggestClose()

	region := make([]byte, smbios.ScanEnd-smbios.ScanStart)
	if err := src.Read(region, smbios.ScanStart); err != nil {
		return err
	}

	ep, addr, err := smbios.ScanEntryPoint(src, smbios.ScanStart, smbios.ScanEnd)
	if err != nil {
		return err
	}
	log.Info().Uint64("address", addr).Str("version", ep.Version()).Msg("entry point found")

	table := make([]byte, ep.TableLength)
	if err := src.Read(table, ep.TableAddress); err != nil {
		return err
	}

	f, err := appFs.OpenFile(captureOutput, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	_, err = f.WriteAt(region, int64(smbios.ScanStart))
	if err == nil {
		_, err = f.WriteAt(table, int64(ep.TableAddress))
	}
	err = errors.Join(err, f.Close())
	if err != nil {
		return err
	}

	stats := src.Stats()
	log.Debug().
		Uint64("opens", stats.Opens).
		Uint64("maps", stats.Maps).
		Uint64("failures", stats.Failures).
		Msg("memory access")
	log.Info().Str("file", captureOutput).Int("table_bytes", len(table)).Msg("image written")
	return nil
}
