package storage

import "tagrender/internal/ports"

// Provider is the storage contract used by the API and the CLI.
// It aliases ports.StorageProvider to keep call sites short.
type Provider = ports.StorageProvider
