package enterprise

// Config tells the boot environment where to find its collaborators.
// The zero value is the configuration used on real hardware.
type Config struct {
	// Root is a mounted boot volume directory. When set, block device
	// scanning is skipped.
	Root string

	// VarDir is the efivarfs mount point. Empty means the default one.
	VarDir string

	// StageDir is where images read from the boot volume are staged
	// before control is transferred. Empty means the default one.
	StageDir string
}
