package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	u "github.com/araddon/gou"
	"github.com/spf13/cobra"

	"github.com/ha1tch/dfa-toolkit/pkg/automaton"
	"github.com/ha1tch/dfa-toolkit/pkg/canvas"
	"github.com/ha1tch/dfa-toolkit/pkg/codegen"
	"github.com/ha1tch/dfa-toolkit/pkg/machinefile"
	"github.com/ha1tch/dfa-toolkit/pkg/visual"
)

func runTest(cmd *cobra.Command, args []string) error {
	a, err := loadAutomaton(args[0])
	if err != nil {
		return err
	}
	res := a.TestRun(args[1])
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, formatResult(res))
	if !res.Valid() {
		return fmt.Errorf("%s", res.Message())
	}
	if plot {
		fmt.Fprintln(out)
		fmt.Fprintln(out, plotPath(a, res))
	}
	return nil
}

func showInfo(cmd *cobra.Command, args []string) error {
	a, err := loadAutomaton(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	var labels, accepting []string
	for _, s := range a.States() {
		labels = append(labels, s.Label)
	}
	for _, id := range a.Accepting() {
		accepting = append(accepting, a.Label(id))
	}
	start := "-"
	if s, ok := a.StartState(); ok {
		start = s.Label
	}

	fmt.Fprintf(out, "Type:        %s\n", machineType(a))
	fmt.Fprintf(out, "States:      %d\n", a.Len())
	fmt.Fprintf(out, "Inputs:      %d\n", len(a.Alphabet()))
	fmt.Fprintf(out, "Transitions: %d\n", len(a.Transitions()))
	fmt.Fprintf(out, "Initial:     %s\n", start)
	if len(accepting) > 0 {
		fmt.Fprintf(out, "Accepting:   %v\n", accepting)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "States:      %v\n", labels)
	fmt.Fprintf(out, "Alphabet:    %v\n", a.Alphabet())

	if ws := a.Analyse(); len(ws) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Warnings:")
		for _, w := range ws {
			fmt.Fprintf(out, "  %s\n", warnStyle.Render(w.String()))
		}
	}
	return nil
}

func validate(cmd *cobra.Command, args []string) error {
	a, err := loadAutomaton(args[0])
	if err != nil {
		return err
	}
	if err := a.Validate(); err != nil {
		return fmt.Errorf("%s: invalid: %w", args[0], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: valid %s with %d states, %d transitions\n",
		args[0], machineType(a), a.Len(), len(a.Transitions()))
	return nil
}

func generateDOT(cmd *cobra.Command, args []string) error {
	a, err := loadAutomaton(args[0])
	if err != nil {
		return err
	}
	palette, err := cfg.VisualPalette()
	if err != nil {
		return err
	}
	var res *automaton.Result
	if cmd.Flags().Changed("input") {
		r := a.TestRun(testInput)
		res = &r
	}
	name := title
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	}
	return writeOutput(cmd.OutOrStdout(), outFile, machinefile.GenerateDOTWithPalette(a, name, res, palette))
}

func render(cmd *cobra.Command, args []string) error {
	a, err := loadAutomaton(args[0])
	if err != nil {
		return err
	}
	palette, err := cfg.VisualPalette()
	if err != nil {
		return err
	}

	path := outFile
	if path == "" {
		path = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + "." + cfg.Render.Format
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format != "png" && format != "svg" {
		return fmt.Errorf("unsupported output format %q (use .png or .svg)", format)
	}

	scene := canvas.NewScene(palette)
	sync := visual.NewSync(a, visual.NewLogRenderer(scene), visual.WithPalette(palette))
	if cmd.Flags().Changed("input") {
		res := a.TestRun(testInput)
		sync.Highlight(res)
		fmt.Fprintln(cmd.OutOrStdout(), formatResult(res))
	}

	w, h := cfg.RenderSize()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch format {
	case "svg":
		opts := canvas.DefaultSVGOptions()
		opts.Width, opts.Height, opts.Title = w, h, title
		_, err = io.WriteString(f, scene.SVG(opts))
	default:
		opts := canvas.DefaultPNGOptions()
		opts.Width, opts.Height = w, h
		err = scene.WritePNG(f, opts)
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	u.Infof("rendered %s (%dx%d)", path, w, h)
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

func generateGo(cmd *cobra.Command, args []string) error {
	a, err := loadAutomaton(args[0])
	if err != nil {
		return err
	}
	src, err := codegen.GenerateGo(a, packageName, typeName)
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), outFile, src)
}

func writeOutput(stdout io.Writer, path, content string) error {
	if path == "" {
		_, err := io.WriteString(stdout, content)
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

func machineType(a *automaton.Automaton) string {
	if a.Type() == "" {
		return "unset"
	}
	return string(a.Type())
}
