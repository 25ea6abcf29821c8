// Package imagestore stores uploaded product images either on the local
// filesystem or on a remote image hosting service, behind one interface.
// The strategy is selected once at startup from configuration; request
// handlers never branch on the deployment mode themselves.
package imagestore

import (
	"context"
	"io"
	"strings"

	"github.com/minimart-io/minimart/config"
)

// remoteScheme is the prefix that classifies an image reference as
// remotely hosted. Everything else is a local filename.
const remoteScheme = "https://"

// Store persists uploaded image binaries and returns an opaque reference
// string that later locates the asset. Remove is best-effort: a missing
// asset is not an error.
type Store interface {
	// Put stores the binary read from r under a name derived from
	// filename and returns the reference.
	Put(ctx context.Context, filename string, r io.Reader) (string, error)
	// Remove deletes the asset behind ref when this strategy owns it.
	Remove(ctx context.Context, ref string) error
}

// IsRemote reports whether ref points at a remotely hosted image.
func IsRemote(ref string) bool {
	return strings.HasPrefix(ref, remoteScheme)
}

// New selects the storage strategy from configuration.
func New(cfg config.ImageStoreConfig) Store {
	if cfg.Mode == "remote" {
		return NewRemoteStore(cfg)
	}
	return NewLocalStore(cfg.LocalDir)
}
