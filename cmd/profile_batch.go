package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/glance-cli/internal/report"
	"github.com/KaramelBytes/glance-cli/internal/utils"
)

var (
	pbInput  inputFlags
	pbFormat string
	pbOutDir string
	pbJobs   int
	pbQuiet  bool
)

var profileBatchCmd = &cobra.Command{
	Use:   "profile-batch <files...>",
	Short: "Profile multiple CSV/TSV/XLSX files, optionally writing one report per file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		kind := pbFormat
		if kind == "" {
			kind = currentConfig().Format
		}
		jobs := pbJobs
		if jobs <= 0 {
			jobs = 1
		}

		reports := make([]*report.Report, len(files))
		g, _ := errgroup.WithContext(cmd.Context())
		g.SetLimit(jobs)
		for i, path := range files {
			i, path := i, path
			g.Go(func() error {
				rep, err := buildReport(cmd, &pbInput, path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				reports[i] = rep
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		total := len(files)
		for i, path := range files {
			if !pbQuiet {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			body, err := reports[i].Render(kind)
			if err != nil {
				return err
			}
			if pbOutDir == "" {
				if !pbQuiet {
					_, _ = out.Write(body)
				}
				continue
			}
			target := reportPath(pbOutDir, path, pbInput.sheetName, extFor(kind))
			if err := utils.SafeWriteFile(target, body); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			if !pbQuiet {
				fmt.Fprintf(out, "✓ Wrote %s\n", target)
			}
		}
		return nil
	},
}

// expandInputs resolves globs and literal paths, dropping repeats.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

func extFor(kind string) string {
	switch strings.ToLower(kind) {
	case "html":
		return ".html"
	case "json":
		return ".json"
	case "yaml", "yml":
		return ".yaml"
	default:
		return ".md"
	}
}

// reportPath names the report after the input (and sheet) inside dir.
func reportPath(dir, input, sheet, ext string) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if sheet != "" {
		stem += "__sheet-" + utils.Slug(sheet, "sheet")
	}
	target := utils.UniquePath(dir, stem, ".profile"+ext)
	if filepath.Base(target) != stem+".profile"+ext {
		logger.Warnf("existing report found, writing to %s", filepath.Base(target))
	}
	return target
}

func init() {
	rootCmd.AddCommand(profileBatchCmd)
	pbInput.register(profileBatchCmd)
	profileBatchCmd.Flags().StringVarP(&pbFormat, "format", "f", "", "report format: markdown | html | json | yaml (default from config)")
	profileBatchCmd.Flags().StringVar(&pbOutDir, "out-dir", "", "directory for one report per input (default: print to stdout)")
	profileBatchCmd.Flags().IntVarP(&pbJobs, "jobs", "j", 4, "files to profile concurrently")
	profileBatchCmd.Flags().BoolVar(&pbQuiet, "quiet", false, "suppress progress and non-essential output")
}
