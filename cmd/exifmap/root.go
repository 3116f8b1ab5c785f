package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/electronjoe/exifmap/internal/logger"
	"github.com/electronjoe/exifmap/internal/pipeline"
)

const (
	folderPrompt = "Enter the path of the folder to analyze: "
	rule         = "=================================================="
)

var errNoFolder = errors.New("no folder given")

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exifmap [folder|image]",
		Short: "Extract EXIF metadata from a folder of photos and map their GPS positions",
		Long: `exifmap reads the EXIF metadata of every JPEG and PNG image in a folder.

It writes:
- metadata_report.csv (and .json / .txt with --format) next to the folder
- locations_map.html inside the folder, one marker per geotagged photo
- security_analysis.json next to the folder with --risk

Given a single image instead of a folder, all outputs go to a
metadata_reports folder next to it.

Without a folder argument the path is read from standard input.
Configuration is read from ~/.exifmap/config.json, EXIFMAP_* environment
variables and flags, in increasing order of precedence.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE:         run,
	}

	flags := cmd.Flags()
	flags.String("config", "", "Config file (default ~/.exifmap/config.json)")
	flags.StringSliceP("format", "f", []string{"csv"}, "Report formats: csv, json, txt or all")
	flags.Bool("risk", false, "Write a security analysis of sensitive tags")
	flags.BoolP("recursive", "r", false, "Also analyze images in sub-folders")
	flags.Bool("thumbnails", false, "Embed image thumbnails in map popups")
	flags.IntP("zoom", "z", 12, "Initial map zoom level")
	flags.String("dedup", "latitude", "Marker de-duplication: latitude or pair")
	flags.String("metrics-file", "", "Write run metrics in Prometheus text format to this file")
	flags.String("log-level", "info", "Log level: trace, debug, info, warn or error")
	flags.Bool("log-json", false, "Log as JSON instead of console text")
	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	// 1. Read config
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// 2. Set up logging
	log := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		JSON:   cfg.LogJSON,
		Output: cmd.ErrOrStderr(),
	})

	// 3. Resolve the folder
	dir, err := folderArg(args, cmd.InOrStdin(), out)
	if err != nil {
		return err
	}

	// 4. Analyze
	p, err := pipeline.New(cfg, log)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%s\nEXIF Geo-Metadata Extractor & Mapper\n%s\n\n", rule, rule)
	sum, err := p.Run(cmd.Context(), dir)
	if err != nil {
		return err
	}

	// 5. Report
	printSummary(out, sum)
	return nil
}

// folderArg returns the positional folder, or prompts for one on in.
func folderArg(args []string, in io.Reader, out io.Writer) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	fmt.Fprint(out, folderPrompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read folder path: %w", err)
	}
	// paths dropped onto a terminal often arrive quoted
	dir := strings.Trim(strings.TrimSpace(line), `"'`)
	if dir == "" {
		return "", errNoFolder
	}
	return dir, nil
}

func printSummary(w io.Writer, sum pipeline.Summary) {
	fmt.Fprintln(w, "Analysis complete:")
	fmt.Fprintf(w, "- Images processed: %d\n", sum.Processed)
	if sum.Skipped > 0 {
		fmt.Fprintf(w, "- Images skipped: %d\n", sum.Skipped)
	}
	fmt.Fprintf(w, "- Geotagged images: %d\n", sum.Geotagged)
	for _, p := range sum.ReportPaths {
		fmt.Fprintf(w, "- Report written to: %s\n", p)
	}
	if sum.MapPath != "" {
		fmt.Fprintf(w, "- Map written to: %s\n", sum.MapPath)
	} else {
		fmt.Fprintln(w, "- No GPS coordinates found, no map written")
	}
	if sum.RiskPath != "" {
		fmt.Fprintf(w, "- Security analysis written to: %s\n", sum.RiskPath)
	}
	fmt.Fprintf(w, "\nTotal time: %.2f seconds\n%s\n", sum.Elapsed.Seconds(), rule)
}
