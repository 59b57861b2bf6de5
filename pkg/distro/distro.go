// Package distro maps known Linux distribution families to the default
// locations of their boot artifacts on live media.
package distro

import (
	"sort"
)

// Paths are the boot artifact locations of a distribution family, relative
// to the root of the boot volume. Kernel and initrd always agree on the
// same boot folder.
type Paths struct {
	Kernel     string
	Initrd     string
	BootFolder string
}

var families = map[string]Paths{
	// Casper-based live media.
	"ubuntu":     {Kernel: "/casper/vmlinuz", Initrd: "/casper/initrd.lz", BootFolder: "/casper"},
	"mint":       {Kernel: "/casper/vmlinuz", Initrd: "/casper/initrd.lz", BootFolder: "/casper"},
	"elementary": {Kernel: "/casper/vmlinuz", Initrd: "/casper/initrd.lz", BootFolder: "/casper"},

	// Debian live media.
	"debian": {Kernel: "/live/vmlinuz", Initrd: "/live/initrd.img", BootFolder: "/live"},
	"kali":   {Kernel: "/live/vmlinuz", Initrd: "/live/initrd.img", BootFolder: "/live"},
	"tails":  {Kernel: "/live/vmlinuz", Initrd: "/live/initrd.img", BootFolder: "/live"},
}

// Resolve returns the boot artifact paths of a distribution family.
// An unknown family is a valid outcome, not an error: the second return
// value is false and the caller decides whether that is fatal.
func Resolve(family string) (Paths, bool) {
	paths, exists := families[family]
	return paths, exists
}

// Supported returns the sorted list of known family identifiers.
func Supported() []string {
	supported := make([]string, 0, len(families))
	for family := range families {
		supported = append(supported, family)
	}
	sort.Strings(supported)
	return supported
}
