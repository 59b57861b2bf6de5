// Package efivar reads and writes firmware-persisted variables through the
// kernel's efivarfs. A variable is a file named {Name}-{VendorGUID} whose
// first four bytes are the little-endian attribute mask, followed by the
// opaque byte payload. Values are byte strings, never UTF-16; callers
// provide the exact bytes they want the next boot stage to read back.
package efivar

import (
	"encoding/binary"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// DefaultDir is where the kernel exposes efivarfs.
const DefaultDir = "/sys/firmware/efi/efivars"

// Variable attribute bits.
const (
	AttrNonVolatile       = 0x1
	AttrBootServiceAccess = 0x2
	AttrRuntimeAccess     = 0x4
)

var (
	// GlobalVendor is the EFI global variable namespace. The second-stage
	// loader reads the chain-load parameters from this namespace.
	GlobalVendor = uuid.MustParse("8be4df61-93ca-11d2-aa0d-00e098032b8c")

	// EnterpriseVendor is the vendor namespace owned by this program.
	EnterpriseVendor = uuid.MustParse("4a67b082-0a4c-41cf-b6c7-440b29bb8c4f")
)

// Store accesses variables below a single efivarfs mount point.
type Store struct {
	dir string
}

// NewStore creates a store. Empty dir means DefaultDir.
func NewStore(dir string) *Store {
	if dir == "" {
		dir = DefaultDir
	}
	return &Store{dir: dir}
}

// Set persists a non-volatile, runtime-accessible variable with the exact
// bytes of data as payload.
func (s *Store) Set(name string, vendor uuid.UUID, data []byte) error {
	buf := make([]byte, 4, 4+len(data))
	binary.LittleEndian.PutUint32(buf, AttrNonVolatile|AttrBootServiceAccess|AttrRuntimeAccess)
	buf = append(buf, data...)

	if err := os.WriteFile(s.path(name, vendor), buf, 0o600); err != nil {
		return errors.Wrapf(err, "setting variable %s failed", name)
	}
	return nil
}

// Get returns the payload of a variable, without the attribute prefix.
func (s *Store) Get(name string, vendor uuid.UUID) ([]byte, error) {
	buf, err := os.ReadFile(s.path(name, vendor))
	if err != nil {
		return nil, errors.Wrapf(err, "reading variable %s failed", name)
	}
	if len(buf) < 4 {
		return nil, errors.Errorf("variable %s is truncated, %d bytes", name, len(buf))
	}
	return buf[4:], nil
}

// Exists reports whether a variable is present.
func (s *Store) Exists(name string, vendor uuid.UUID) bool {
	_, err := os.Stat(s.path(name, vendor))
	return err == nil
}

func (s *Store) path(name string, vendor uuid.UUID) string {
	return filepath.Join(s.dir, name+"-"+vendor.String())
}
