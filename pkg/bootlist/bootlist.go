// Package bootlist builds the ordered set of boot options described by the
// configuration file on the boot volume.
package bootlist

import (
	"context"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/outofforest/enterprise/pkg/distro"
	"github.com/outofforest/enterprise/pkg/kvconfig"
	"github.com/outofforest/logger"
)

// Option is one named, resolved set of boot parameters the operator can
// choose to boot.
type Option struct {
	Name       string
	Family     string
	KernelPath string
	InitrdPath string
	BootFolder string
}

// Resolvable reports whether the option carries everything needed to boot.
func (o Option) Resolvable() bool {
	return o.KernelPath != "" && o.InitrdPath != ""
}

// Store is the ordered, append-only collection of boot options built from
// a single parse pass. Index 0 is the first entry in file order.
type Store struct {
	options []Option
}

// Len returns the number of boot options.
func (s *Store) Len() int {
	return len(s.options)
}

// Get returns the boot option at the 0-based index.
func (s *Store) Get(index int) (Option, bool) {
	if index < 0 || index >= len(s.options) {
		return Option{}, false
	}
	return s.options[index], true
}

// Names returns the display labels of all options in file order.
func (s *Store) Names() []string {
	return lo.Map(s.options, func(o Option, _ int) string {
		return o.Name
	})
}

// Build interprets the configuration buffer and materializes the store.
// An unsupported distribution family invalidates the whole build: the
// operator must never be offered a list containing unusable entries.
func Build(ctx context.Context, buf []byte) (*Store, error) {
	log := logger.Get(ctx)

	store := &Store{}
	var active *Option

	scanner := kvconfig.NewScanner(buf)
	for {
		key, value, ok := scanner.Next()
		if !ok {
			break
		}

		if key == "entry" {
			store.options = append(store.options, Option{Name: value})
			active = &store.options[len(store.options)-1]
			continue
		}

		switch key {
		case "family", "kernel", "initrd", "root":
			if active == nil {
				return nil, errors.Errorf("%s directive appears before any entry", key)
			}
		default:
			log.Warn("Unrecognized configuration option", zap.String("key", key))
			continue
		}

		switch key {
		case "family":
			paths, supported := distro.Resolve(value)
			if !supported || paths.Kernel == "" || paths.Initrd == "" {
				return nil, errors.Errorf("family %s is not supported", value)
			}
			active.Family = value
			active.KernelPath = paths.Kernel
			active.InitrdPath = paths.Initrd
			active.BootFolder = paths.BootFolder
		case "kernel":
			active.KernelPath = value
		case "initrd":
			active.InitrdPath = value
		case "root":
			active.BootFolder = value
		}
	}

	return store, nil
}
