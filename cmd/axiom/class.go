package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pthm/axiom/lib/classhash"
)

func newClassCmd(a *app) *cobra.Command {
	var (
		snapshot string
		starting bool
		css      bool
	)

	cmd := &cobra.Command{
		Use:   "class [<property> <value>]...",
		Short: "Allocate deterministic class names for declarations",
		Long: `Allocate deterministic class names for declarations.

Arguments are property/value pairs. With a snapshot file (flag or
classes.snapshot in the config) earlier allocations are restored first and
the updated registry is written back, so class names stay stable across
builds even after hash collisions.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args)%2 != 0 {
				return fmt.Errorf("expected property/value pairs, got %d argument(s)", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if snapshot == "" {
				snapshot = a.cfg.Classes.Snapshot
			}

			reg := classhash.New("ax-")
			if starting {
				reg = classhash.New("axs-", classhash.WithStartingStyle())
			}

			if snapshot != "" {
				if err := restoreSnapshot(a.logger, reg, snapshot); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			for i := 0; i < len(args); i += 2 {
				fmt.Fprintln(out, reg.ClassName(args[i], args[i+1]))
			}
			if css {
				fmt.Fprint(out, reg.CSS())
			}

			if snapshot != "" {
				data, err := reg.Snapshot()
				if err != nil {
					return err
				}
				if err := os.WriteFile(snapshot, data, 0o644); err != nil {
					return fmt.Errorf("write snapshot: %w", err)
				}
				a.logger.Debug("snapshot written", zap.String("path", snapshot), zap.Int("classes", reg.Len()))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&snapshot, "snapshot", "", "Snapshot file to restore from and write to")
	cmd.Flags().BoolVar(&starting, "starting-style", false, "Allocate @starting-style classes (axs- prefix)")
	cmd.Flags().BoolVar(&css, "css", false, "Print the registry's CSS after the class names")
	return cmd
}

func restoreSnapshot(logger *zap.Logger, reg *classhash.Registry, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	conflicts, err := reg.Restore(data)
	if err != nil {
		return fmt.Errorf("restore %s: %w", path, err)
	}
	for _, c := range conflicts {
		logger.Warn("snapshot entry skipped", zap.Stringer("conflict", c))
	}
	return nil
}
