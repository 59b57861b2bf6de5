package enterprise

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/outofforest/enterprise/pkg/bootlist"
	"github.com/outofforest/enterprise/pkg/chain"
	"github.com/outofforest/enterprise/pkg/console"
	"github.com/outofforest/enterprise/pkg/efivar"
	"github.com/outofforest/enterprise/pkg/kernel"
	"github.com/outofforest/enterprise/pkg/media"
	"github.com/outofforest/enterprise/pkg/menu"
	"github.com/outofforest/enterprise/pkg/mount"
	"github.com/outofforest/logger"
)

// haltStall gives the operator time to read the error before the halt.
const haltStall = time.Second

// Run executes a single boot attempt: locate the boot volume, build the
// list of boot options from its configuration file, verify the core files
// and hand the choice over to the menu. On success control never comes
// back.
func Run(ctx context.Context, cfg Config) error {
	log := logger.Get(ctx)

	console.Setup(ctx)

	if err := prepareEnvironment(ctx, cfg); err != nil {
		return err
	}

	vol, err := openVolume(ctx, cfg)
	if err != nil {
		log.Error("Unable to open root directory", zap.Error(err))
		time.Sleep(haltStall)
		return err
	}

	canContinue := true

	var store *bootlist.Store
	if !vol.Exists(media.MarkerPath) {
		log.Error("Can't find configuration file", zap.String("path", media.MarkerPath))
		canContinue = false
	} else {
		store, err = buildStore(ctx, vol)
		if err != nil {
			log.Error("Configuration file parsing error", zap.Error(err))
			canContinue = false
		}
	}

	if !vol.Exists(media.LoaderPath) {
		log.Error("Can't find second-stage bootloader", zap.String("path", media.LoaderPath))
		canContinue = false
	}
	if !vol.Exists(media.BootImagePath) {
		log.Error("Can't find ISO file to boot", zap.String("path", media.BootImagePath))
		canContinue = false
	}

	persistence := false
	if canContinue && vol.Exists(media.PersistencePath) {
		log.Info("Found a persistence file, it can be enabled in the menu")
		persistence = true
	}

	if !canContinue {
		log.Error("Cannot continue because core files are missing or damaged")
		time.Sleep(haltStall)
		return errors.New("core files are missing or damaged")
	}

	launcher := chain.New(efivar.NewStore(cfg.VarDir), vol, cfg.StageDir)
	return menu.Run(ctx, os.Stdin, os.Stdout, menu.Config{
		Names:             store.Names(),
		PersistencePreset: persistence,
		Boot: func(ctx context.Context, index int, extraParams string) error {
			return launcher.Launch(ctx, store, index, extraParams)
		},
		DirectBoot: func(ctx context.Context, index int, extraParams string) error {
			return launcher.DirectBoot(ctx, store, index, extraParams)
		},
	})
}

func buildStore(ctx context.Context, vol media.Volume) (*bootlist.Store, error) {
	buf, err := vol.ReadFile(media.MarkerPath)
	if err != nil {
		return nil, err
	}
	store, err := bootlist.Build(ctx, buf)
	if err != nil {
		return nil, err
	}
	if store.Len() == 0 {
		return nil, errors.New("configuration contains no boot entries")
	}
	return store, nil
}

func openVolume(ctx context.Context, cfg Config) (media.Volume, error) {
	if cfg.Root != "" {
		return media.Dir(cfg.Root), nil
	}
	return media.Discover(ctx)
}

// prepareEnvironment mounts the boot-environment filesystems and loads the
// kernel modules needed to see removable media. Done only when running as
// init; anywhere else the host has prepared all of it already.
func prepareEnvironment(ctx context.Context, cfg Config) error {
	if os.Getpid() != 1 {
		return nil
	}

	log := logger.Get(ctx)

	if err := mount.ProcFS("/proc"); err != nil {
		return err
	}
	if err := mount.SysFS("/sys"); err != nil {
		return err
	}
	if err := mount.DevFS("/dev"); err != nil {
		return err
	}
	if err := mount.EFIVarFS(efivar.DefaultDir); err != nil {
		return err
	}

	stageDir := cfg.StageDir
	if stageDir == "" {
		stageDir = chain.DefaultStageDir
	}
	if err := mount.TmpFS(stageDir); err != nil {
		return err
	}

	loader := kernel.NewLoader()
	for _, m := range kernel.BootModules {
		if err := loader.Load(m); err != nil {
			// Modules built into the kernel have no files to load.
			log.Warn("Kernel module not loaded", zap.String("module", m.Name), zap.Error(err))
		}
	}

	return nil
}
