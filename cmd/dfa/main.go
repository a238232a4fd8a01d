// Command dfa is a CLI tool for working with deterministic finite automata
// drawn in the editor and saved as JSON.
package main

import (
	"fmt"
	"os"

	u "github.com/araddon/gou"
	"github.com/spf13/cobra"

	"github.com/ha1tch/dfa-toolkit/pkg/automaton"
	"github.com/ha1tch/dfa-toolkit/pkg/config"
	"github.com/ha1tch/dfa-toolkit/pkg/machinefile"
)

var (
	configFile string
	logLevel   string

	// Loaded by the root command before any subcommand runs.
	cfg = config.DefaultConfig()

	outFile     string
	title       string
	testInput   string
	plot        bool
	packageName string
	typeName    string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "dfa",
		Short:         "deterministic finite automaton toolkit",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup()
		},
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run [file] [input]",
		Short: "test a string against a machine",
		Args:  cobra.ExactArgs(2),
		RunE:  runTest,
	}
	runCmd.Flags().BoolVar(&plot, "plot", false, "plot the visited state per step")

	infoCmd := &cobra.Command{
		Use:   "info [file]",
		Short: "show machine information",
		Args:  cobra.ExactArgs(1),
		RunE:  showInfo,
	}

	validateCmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "check a machine can be simulated",
		Args:  cobra.ExactArgs(1),
		RunE:  validate,
	}

	dotCmd := &cobra.Command{
		Use:   "dot [file]",
		Short: "generate Graphviz DOT output",
		Args:  cobra.ExactArgs(1),
		RunE:  generateDOT,
	}
	dotCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")
	dotCmd.Flags().StringVar(&title, "title", "", "graph title")
	dotCmd.Flags().StringVar(&testInput, "input", "", "highlight the path of this test string")

	renderCmd := &cobra.Command{
		Use:   "render [file]",
		Short: "render a machine to PNG or SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  render,
	}
	renderCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (.png or .svg)")
	renderCmd.Flags().StringVar(&title, "title", "", "SVG title")
	renderCmd.Flags().StringVar(&testInput, "input", "", "highlight the path of this test string")

	genCmd := &cobra.Command{
		Use:   "gen [file]",
		Short: "generate a Go recognizer",
		Args:  cobra.ExactArgs(1),
		RunE:  generateGo,
	}
	genCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")
	genCmd.Flags().StringVar(&packageName, "package", "dfa", "package name")
	genCmd.Flags().StringVar(&typeName, "name", "DFA", "recognizer type name")

	shellCmd := &cobra.Command{
		Use:   "shell [file]",
		Short: "build and test a machine interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runShell,
	}

	rootCmd.AddCommand(runCmd, infoCmd, validateCmd, dotCmd, renderCmd, genCmd, shellCmd)
	return rootCmd
}

// setup loads the config file and configures logging. The --log-level flag
// wins over the file.
func setup() error {
	path := configFile
	if path == "" {
		p, err := config.Path()
		if err != nil {
			return err
		}
		path = p
	}
	c, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading config %s: %w", path, err)
	}
	cfg = c

	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	u.SetupLogging(level)
	u.SetColorIfTerminal()
	u.Debugf("config loaded from %s", path)
	return nil
}

func loadAutomaton(path string) (*automaton.Automaton, error) {
	d, err := machinefile.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	a := automaton.New()
	if err := machinefile.Load(a, d); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return a, nil
}
