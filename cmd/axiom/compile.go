package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pthm/axiom/internal/programfile"
	"github.com/pthm/axiom/lib/generator"
)

func newCompileCmd(a *app) *cobra.Command {
	var (
		output     string
		dom        bool
		bridge     bool
		scriptTags bool
	)

	cmd := &cobra.Command{
		Use:   "compile <program.yaml>",
		Short: "Compile a program file to JavaScript",
		Long: `Compile a program file to JavaScript.

The output is the program script, preceded by the WebAssembly bridge and the
generic decoder when enabled (by flag or by output.* in the config file).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := programfile.Load(args[0])
			if err != nil {
				return err
			}
			p, err := f.Program()
			if err != nil {
				return err
			}

			opts := generator.Options{
				DOMBindings: a.cfg.Output.DOMBindings,
				WasmBridge:  a.cfg.Output.WasmBridge || len(f.Canvases) > 0,
			}
			if cmd.Flags().Changed("dom-bindings") {
				opts.DOMBindings = dom
			}
			if cmd.Flags().Changed("wasm-bridge") {
				opts.WasmBridge = bridge
			}

			script, err := generator.New(opts).Generate(p)
			if err != nil {
				return err
			}
			if scriptTags && script != "" {
				script = "<script>" + script + "</script>"
			}

			a.logger.Info("compiled program",
				zap.String("program", args[0]),
				zap.Int("states", len(p.DedupedStates())),
				zap.Int("events", len(p.Events)),
				zap.Int("timers", len(p.Timers)),
				zap.Bool("dom_bindings", opts.DOMBindings),
				zap.Bool("wasm_bridge", opts.WasmBridge),
			)

			return writeOutput(cmd.OutOrStdout(), output, script)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	cmd.Flags().BoolVar(&dom, "dom-bindings", false, "Include the generic decoder")
	cmd.Flags().BoolVar(&bridge, "wasm-bridge", false, "Include the WebAssembly bridge")
	cmd.Flags().BoolVar(&scriptTags, "script-tag", false, "Wrap the output in a <script> element")
	return cmd
}

func newRuntimeCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "runtime",
		Short: "Print the generic decoder script",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOutput(cmd.OutOrStdout(), output, generator.RuntimeDecoder())
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	return cmd
}

func newBridgeCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "bridge",
		Short: "Print the WebAssembly bridge script",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOutput(cmd.OutOrStdout(), output, generator.WasmBridge())
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	return cmd
}

func writeOutput(stdout io.Writer, path, content string) error {
	if path == "" {
		_, err := io.WriteString(stdout, content+"\n")
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
