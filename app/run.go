package app

import (
	"context"

	"gforce/config"
	"gforce/hal"
)

// Run builds the pipeline on h and runs it forever. Any error ends on the
// fatal screen. It never returns.
func Run(h hal.HAL, cfg config.Config) {
	s, err := New(h, cfg)
	if err != nil {
		Fatal(h, err)
	}
	if err := s.Start(context.Background()); err != nil {
		// The frame buffers are still allocated; draw into the back one.
		fatal(h, s.comp.Back(), err)
	}
	select {}
}
