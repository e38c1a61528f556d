package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pthm/axiom/internal/programfile"
	"github.com/pthm/axiom/lib/wasm"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <program.yaml>",
		Short: "Verify WebAssembly exports used by a program",
		Long: `Verify WebAssembly exports used by a program.

Every canvas that names a binary is compiled (never instantiated) and checked
for its mount export and for every export that invokeWasm actions call on
that canvas.`,
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
			bindings, err := f.Bindings()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			inspector, err := wasm.NewInspector(ctx, a.logger, &wasm.Config{
				MemoryPages: a.cfg.Wasm.MemoryPages,
				CacheDir:    a.cfg.Wasm.CacheDir,
			})
			if err != nil {
				return err
			}
			defer inspector.Close(ctx)

			if err := inspector.Verify(ctx, bindings, p.Actions()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d canvas module(s) verified\n", len(bindings))
			return nil
		},
	}
}
