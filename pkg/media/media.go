// Package media locates the removable boot volume and provides read access
// to the files on it.
package media

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	diskfs "github.com/diskfs/go-diskfs"
	"github.com/diskfs/go-diskfs/filesystem"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/outofforest/logger"
)

// Well-known paths on the boot volume. The second-stage loader and its
// tooling rely on these byte-for-byte, so they never change.
const (
	// MarkerPath is the sentinel configuration file marking the volume
	// as ours.
	MarkerPath = "/efi/boot/.MLUL-Live-USB"
	// LoaderPath is the second-stage loader image.
	LoaderPath = "/efi/boot/boot.efi"
	// BootImagePath is the image the second stage boots from.
	BootImagePath = "/efi/boot/boot.iso"
	// PersistencePath is the optional persistence file.
	PersistencePath = "/casper-rw"
)

// ErrNotFound is returned when no attached volume carries the marker file.
var ErrNotFound = errors.New("boot volume not found")

// Volume is read access to a single boot volume. Paths are slash-separated
// and relative to the volume root.
type Volume interface {
	Exists(path string) bool
	ReadFile(path string) ([]byte, error)
	Location() string
}

var devicePatterns = []string{
	"/dev/sd[a-z]",
	"/dev/sd[a-z][0-9]",
	"/dev/nvme[0-9]n[0-9]",
	"/dev/nvme[0-9]n[0-9]p[0-9]",
	"/dev/vd[a-z]",
	"/dev/vd[a-z][0-9]",
	"/dev/mmcblk[0-9]",
	"/dev/mmcblk[0-9]p[0-9]",
}

// Discover scans attached block devices and returns the first volume
// carrying the marker file.
func Discover(ctx context.Context) (Volume, error) {
	log := logger.Get(ctx)

	for _, pattern := range devicePatterns {
		devices, err := filepath.Glob(pattern)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		for _, device := range devices {
			vol, err := OpenDevice(device)
			if err != nil {
				log.Debug("Skipping device", zap.String("device", device), zap.Error(err))
				continue
			}
			if vol.Exists(MarkerPath) {
				log.Info("Found boot volume", zap.String("device", device))
				return vol, nil
			}
		}
	}

	return nil, errors.WithStack(ErrNotFound)
}

// OpenDevice opens the filesystem on a block device read-only. Partition
// device nodes are opened directly; on whole-disk nodes the partitions are
// probed in order.
func OpenDevice(device string) (Volume, error) {
	d, err := diskfs.Open(device, diskfs.WithOpenMode(diskfs.ReadOnly))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var firstErr error
	for partition := 0; partition <= 4; partition++ {
		fs, err := d.GetFilesystem(partition)
		if err == nil {
			return &diskVolume{device: device, fs: fs}, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, errors.Wrapf(firstErr, "no filesystem on %s", device)
}

type diskVolume struct {
	device string
	fs     filesystem.FileSystem
}

func (v *diskVolume) Exists(path string) bool {
	f, err := v.fs.OpenFile(path, os.O_RDONLY)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

func (v *diskVolume) ReadFile(path string) ([]byte, error) {
	f, err := v.fs.OpenFile(path, os.O_RDONLY)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s failed", path)
	}
	defer f.Close()

	buf, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s failed", path)
	}
	return buf, nil
}

func (v *diskVolume) Location() string {
	return v.device
}

// Dir exposes a plain directory as a volume. Used when the boot medium is
// already mounted, and in tests.
type Dir string

// Exists implements Volume.
func (d Dir) Exists(path string) bool {
	_, err := os.Stat(d.resolve(path))
	return err == nil
}

// ReadFile implements Volume.
func (d Dir) ReadFile(path string) ([]byte, error) {
	buf, err := os.ReadFile(d.resolve(path))
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s failed", path)
	}
	return buf, nil
}

// Location implements Volume.
func (d Dir) Location() string {
	return string(d)
}

func (d Dir) resolve(path string) string {
	return filepath.Join(string(d), filepath.FromSlash(strings.TrimPrefix(path, "/")))
}
