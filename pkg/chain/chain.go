// Package chain hands control over to the second-stage loader: it persists
// the chosen boot parameters as firmware variables and starts the
// second-stage image. On success the calls here never return.
package chain

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/outofforest/enterprise/pkg/bootlist"
	"github.com/outofforest/enterprise/pkg/console"
	"github.com/outofforest/enterprise/pkg/efivar"
	"github.com/outofforest/enterprise/pkg/media"
	"github.com/outofforest/logger"
)

// Variables the second-stage loader reads back. Names and encoding are a
// fixed contract: opaque bytes with a trailing NUL, in the global vendor
// namespace.
const (
	VarBootOptions = "Enterprise_LinuxBootOptions"
	VarKernelPath  = "Enterprise_LinuxKernelPath"
	VarInitRDPath  = "Enterprise_InitRDPath"
	VarBootFolder  = "Enterprise_BootFolder"
)

// DefaultStageDir is where images read from the boot volume are staged
// before control is transferred.
const DefaultStageDir = "/run/enterprise"

const defaultStall = 3 * time.Second

// ErrOptionNotFound is returned when the requested boot option index is
// beyond the store.
var ErrOptionNotFound = errors.New("boot option not found")

// Launcher performs the chain-load handoff.
type Launcher struct {
	vars     *efivar.Store
	volume   media.Volume
	stageDir string
	stall    time.Duration
	out      io.Writer

	execFn      func(argv0 string, argv []string, envv []string) error
	kexecLoadFn func(kernelFd, initrdFd int, cmdline string) error
	rebootFn    func() error
}

// New creates a launcher over the given variable store and boot volume.
func New(vars *efivar.Store, volume media.Volume, stageDir string) *Launcher {
	if stageDir == "" {
		stageDir = DefaultStageDir
	}
	return &Launcher{
		vars:     vars,
		volume:   volume,
		stageDir: stageDir,
		stall:    defaultStall,
		out:      os.Stdout,
		execFn:   unix.Exec,
		kexecLoadFn: func(kernelFd, initrdFd int, cmdline string) error {
			return unix.KexecFileLoad(kernelFd, initrdFd, cmdline, 0)
		},
		rebootFn: func() error {
			return unix.Reboot(unix.LINUX_REBOOT_CMD_KEXEC)
		},
	}
}

// Launch persists the boot parameters of the option at index and transfers
// control to the second-stage loader. It returns only on failure. Failures
// after reporting stall for a fixed period so the operator can read the
// message.
func (l *Launcher) Launch(ctx context.Context, store *bootlist.Store, index int, extraParams string) error {
	log := logger.Get(ctx)

	opt, ok := store.Get(index)
	if !ok {
		log.Error("Couldn't get boot option", zap.Int("index", index))
		return errors.Wrapf(ErrOptionNotFound, "index %d", index)
	}

	if err := l.persist(opt, extraParams); err != nil {
		return err
	}

	staged, err := l.stage(media.LoaderPath, "boot.efi")
	if err != nil {
		log.Error("Error loading second-stage image", zap.Error(err))
		time.Sleep(l.stall)
		return err
	}

	console.Clear(l.out)
	err = l.execFn(staged, []string{staged}, os.Environ())
	// Reached only when the transfer of control failed.
	log.Error("Error starting second-stage image", zap.Error(err))
	time.Sleep(l.stall)
	_ = os.Remove(staged)
	return errors.Wrap(err, "starting second-stage image failed")
}

// DirectBoot loads the option's kernel and initrd from the boot volume and
// boots them directly through kexec, bypassing the second stage. It returns
// only on failure.
func (l *Launcher) DirectBoot(ctx context.Context, store *bootlist.Store, index int, extraParams string) error {
	log := logger.Get(ctx)

	opt, ok := store.Get(index)
	if !ok {
		log.Error("Couldn't get boot option", zap.Int("index", index))
		return errors.Wrapf(ErrOptionNotFound, "index %d", index)
	}
	if !opt.Resolvable() {
		return errors.Errorf("boot option %s has no kernel or initrd", opt.Name)
	}

	kernel, err := l.stage(opt.KernelPath, "vmlinuz")
	if err != nil {
		log.Error("Error loading kernel", zap.Error(err))
		time.Sleep(l.stall)
		return err
	}
	initrd, err := l.stage(opt.InitrdPath, "initrd")
	if err != nil {
		log.Error("Error loading initrd", zap.Error(err))
		time.Sleep(l.stall)
		_ = os.Remove(kernel)
		return err
	}

	if err := l.kexecLoad(kernel, initrd, extraParams); err != nil {
		log.Error("Error loading kernel for kexec", zap.Error(err))
		time.Sleep(l.stall)
		_ = os.Remove(kernel)
		_ = os.Remove(initrd)
		return err
	}

	console.Clear(l.out)
	err = l.rebootFn()
	// Reached only when the kexec reboot failed.
	log.Error("Error rebooting into kernel", zap.Error(err))
	time.Sleep(l.stall)
	_ = os.Remove(kernel)
	_ = os.Remove(initrd)
	return errors.Wrap(err, "kexec reboot failed")
}

func (l *Launcher) persist(opt bootlist.Option, extraParams string) error {
	for _, v := range []struct {
		Name  string
		Value string
	}{
		{Name: VarBootOptions, Value: extraParams},
		{Name: VarKernelPath, Value: opt.KernelPath},
		{Name: VarInitRDPath, Value: opt.InitrdPath},
		{Name: VarBootFolder, Value: opt.BootFolder},
	} {
		if err := l.vars.Set(v.Name, efivar.GlobalVendor, terminated(v.Value)); err != nil {
			return err
		}
	}
	return nil
}

func (l *Launcher) stage(volumePath, name string) (string, error) {
	buf, err := l.volume.ReadFile(volumePath)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(l.stageDir, 0o700); err != nil {
		return "", errors.WithStack(err)
	}
	path := filepath.Join(l.stageDir, name)
	if err := os.WriteFile(path, buf, 0o700); err != nil {
		_ = os.Remove(path)
		return "", errors.WithStack(err)
	}
	return path, nil
}

func (l *Launcher) kexecLoad(kernelPath, initrdPath, cmdline string) error {
	kernelF, err := os.Open(kernelPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer kernelF.Close()

	initrdF, err := os.Open(initrdPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer initrdF.Close()

	return errors.WithStack(l.kexecLoadFn(int(kernelF.Fd()), int(initrdF.Fd()), cmdline))
}

func terminated(value string) []byte {
	return append([]byte(value), 0)
}
