//go:build !tinygo

package hal

import (
	"context"
	"io"
	"os"
)

// RunHeadless runs the pipeline on the host HAL without opening a window.
// The touch controller never reports a contact. It returns when run returns.
func RunHeadless(ctx context.Context, cfg Config, run func(context.Context, HAL) error) error {
	h, err := newHostHAL(cfg, stdoutWriter())
	if err != nil {
		return err
	}
	return run(ctx, h)
}

func stdoutWriter() io.Writer { return os.Stdout }
