package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pthm/axiom/internal/preview"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr   string
		static string
	)

	cmd := &cobra.Command{
		Use:   "serve <program.yaml>",
		Short: "Serve a program file as a live preview page",
		Long: `Serve a program file as a live preview page.

Endpoints:
  GET /                    The page (re-read on every request)
  GET /axiom/runtime.js    Generic decoder
  GET /axiom/bridge.js     WebAssembly bridge
  GET /axiom/program.js    Program script
  GET /static/*            Files from --static
  GET /healthz             Health check`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = a.cfg.Preview.Addr
			}
			if !cmd.Flags().Changed("static") {
				static = a.cfg.Preview.StaticDir
			}

			srv := preview.New(preview.Options{
				Addr:        addr,
				ProgramPath: args[0],
				StaticDir:   static,
				WasmBridge:  a.cfg.Output.WasmBridge,
				Logger:      a.logger,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config: preview.addr)")
	cmd.Flags().StringVar(&static, "static", "", "Directory served under /static")
	return cmd
}
