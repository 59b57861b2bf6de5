package kernel

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const (
	basePath = "/usr/lib/modules"
	fileDeps = basePath + "/deps.json"
)

// Module describes a kernel module to load.
type Module struct {
	Name   string
	Params string
}

// BootModules are the modules needed before removable boot media becomes
// visible: USB storage, the SCSI disk layer and the filesystems found on
// live media.
var BootModules = []Module{
	{Name: "usb-storage"},
	{Name: "uas"},
	{Name: "sd-mod"},
	{Name: "nls-cp437"},
	{Name: "nls-iso8859-1"},
	{Name: "vfat"},
	{Name: "isofs"},
}

// Loader loads kernel modules together with their dependencies, at most
// once each.
type Loader struct {
	loaded map[string]struct{}
	deps   map[string][]string
}

// NewLoader creates a module loader.
func NewLoader() *Loader {
	return &Loader{loaded: map[string]struct{}{}}
}

// Load loads a kernel module, resolving dependencies recursively.
func (l *Loader) Load(module Module) error {
	module.Name = strings.ReplaceAll(module.Name, "_", "-")
	if _, exists := l.loaded[module.Name]; exists {
		return nil
	}

	if l.deps == nil {
		f, err := os.Open(fileDeps)
		if err != nil {
			return errors.WithStack(err)
		}
		defer f.Close()

		l.deps = map[string][]string{}
		if err := json.NewDecoder(f).Decode(&l.deps); err != nil {
			return errors.WithStack(err)
		}
	}

	for _, d := range l.deps[module.Name] {
		if err := l.Load(Module{Name: d}); err != nil {
			return err
		}
	}

	f, err := os.Open(filepath.Join(basePath, module.Name+".ko"))
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	if err := unix.FinitModule(int(f.Fd()), module.Params, 0); err != nil {
		return errors.WithStack(err)
	}

	l.loaded[module.Name] = struct{}{}

	return nil
}
