// Package console covers the cosmetic display setup done before anything
// is printed. Everything here is best-effort: a console that cannot be
// queried simply skips the step.
package console

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/outofforest/logger"
)

// Clear erases the display so operator messages start on a clean screen.
func Clear(w io.Writer) {
	fmt.Fprint(w, "\033[2J\033[H")
}

// Setup queries the display geometry and logs it. Failures are not fatal,
// the boot continues on whatever console there is.
func Setup(ctx context.Context) {
	log := logger.Get(ctx)

	ws, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		log.Debug("Console geometry not available", zap.Error(err))
		return
	}
	log.Info("Console detected",
		zap.Uint16("rows", ws.Row),
		zap.Uint16("columns", ws.Col))
}
