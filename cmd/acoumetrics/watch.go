package main

import (
	"context"

	"github.com/cwbudde/algo-acoustics/internal/watch"
)

// WatchCmd analyzes recordings as a recorder drops them into a directory.
type WatchCmd struct {
	Dir string `arg:"" type:"existingdir" help:"Directory to watch"`

	Out      string `short:"o" type:"path" help:"Report directory"`
	Delete   bool   `help:"Delete each recording after its report is written"`
	Existing bool   `help:"Also analyze recordings already in the directory"`
}

// Run blocks until interrupted.
func (c *WatchCmd) Run(e *env) error {
	if c.Out != "" {
		e.cfg.Output.Dir = c.Out
	}
	if c.Delete {
		e.cfg.Watch.DeleteProcessed = true
	}

	p := newPipeline(e.cfg, e.logger)
	w := watch.New(c.Dir,
		func(ctx context.Context, path string) error {
			_, err := p.process(ctx, path)
			return err
		},
		watch.WithSettle(e.cfg.Watch.SettleInterval, e.cfg.Watch.SettleTimeout),
		watch.WithDelete(e.cfg.Watch.DeleteProcessed),
		watch.WithExisting(c.Existing),
		watch.WithLogger(e.logger),
	)

	e.logger.Info("watching for recordings", "dir", c.Dir, "reports", e.cfg.Output.Dir, "delete", e.cfg.Watch.DeleteProcessed)

	return w.Run(e.ctx)
}
