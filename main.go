package enterprise

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/outofforest/logger"
	"github.com/outofforest/run"
)

// Main is the entrypoint of the boot environment.
func Main(cfg Config) {
	run.New().Run(context.Background(), "enterprise", func(ctx context.Context) error {
		fmt.Printf(banner, versionMajor, versionMinor, versionPatch)

		err := Run(ctx, cfg)
		if errors.Is(err, ctx.Err()) {
			err = nil
		}
		if err != nil {
			logger.Get(ctx).Error("Error", zap.Error(err))
			time.Sleep(120 * time.Second)
		}
		return err
	})
}
