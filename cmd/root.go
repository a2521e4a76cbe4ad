// Package cmd contains the CLI commands for aiken2qti.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"aiken2qti/internal/aiken"
	"aiken2qti/internal/config"
	"aiken2qti/internal/packager"
	"aiken2qti/internal/textfile"
)

var (
	outputPath   string
	createSample string
	validateOnly bool
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "aiken2qti [input.txt]",
	Short: "Convert Aiken question files to QTI 2.1 packages",
	Long: `aiken2qti converts plain-text multiple-choice questions in Aiken
format into QTI 2.1 packages that Canvas, Blackboard, Moodle, and other
LMS platforms can import.

Expected input format:
  Question text, which may span several lines
  A) First option
  B) Second option
  ANSWER: B

Blocks are separated by blank lines.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runConvert,
}

func init() {
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output .zip path (default: input name with .zip extension)")
	rootCmd.Flags().StringVar(&createSample, "create-sample", "", "write an example Aiken file to `FILE` and exit")
	rootCmd.Flags().BoolVar(&validateOnly, "validate-only", false, "parse and validate the input without writing a package")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// Execute runs the CLI. It is called by main.main().
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func runConvert(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	if createSample != "" {
		if err := aiken.WriteSample(createSample); err != nil {
			return fmt.Errorf("write sample: %w", err)
		}
		fmt.Println(okMark() + " sample file written: " + pathStyle.Render(createSample))
		return nil
	}

	if len(args) == 0 {
		return errors.New("an input file is required (or use --create-sample)")
	}
	input := args[0]

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	lines, latin1, err := textfile.ReadLines(input)
	if err != nil {
		return err
	}
	if latin1 {
		logger.Warn("input is not valid UTF-8, decoded as Latin-1", "file", input)
	}

	logger.Debug("parsing", "file", input, "lines", len(lines))
	questions, err := aiken.Parse(lines)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}
	if len(questions) == 0 {
		return fmt.Errorf("no questions found in %s", input)
	}
	logger.Debug("parsed", "questions", len(questions))

	if validateOnly {
		fmt.Printf("%s %s is valid (%d questions)\n", okMark(), input, len(questions))
		for i, q := range questions {
			fmt.Printf("  %2d. %s\n", i+1, truncate(q.Text, 60))
		}
		return nil
	}

	out := resolveOutputPath(input, outputPath)
	builder := packager.New(packager.Options{
		Title:    cfg.Title,
		Language: cfg.Language,
		Prompt:   cfg.Prompt,
		Shuffle:  cfg.Shuffle,
		Logger:   logger,
	})
	if err := builder.Build(questions, out); err != nil {
		return err
	}

	var size int64
	if info, err := os.Stat(out); err == nil {
		size = info.Size()
	}
	fmt.Printf("%s package written: %s\n", okMark(), pathStyle.Render(out))
	fmt.Println(statStyle.Render(fmt.Sprintf("  %d questions, %.1f KiB", len(questions), float64(size)/1024)))
	fmt.Println(statStyle.Render("  importable into Canvas, Blackboard, Moodle, and other QTI 2.1 LMS"))
	return nil
}

// resolveOutputPath applies the -o flag or derives the archive name
// from the input file, ensuring a .zip extension either way.
func resolveOutputPath(input, flag string) string {
	out := flag
	if out == "" {
		base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		out = filepath.Join(filepath.Dir(input), base)
	}
	if !strings.HasSuffix(out, ".zip") {
		out += ".zip"
	}
	return out
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
