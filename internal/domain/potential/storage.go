package potential

import "context"

// ContentStore is the contract for the content-addressed raw archive.  The
// catalog stores the unmodified bytes of every ingested potential file so
// that assembled POTCAR files reproduce the originals exactly.
type ContentStore interface {
	// Put stores raw under key, overwriting any previous object.  Keys are
	// derived from the content fingerprint, so overwriting is always a
	// write of identical bytes.
	Put(ctx context.Context, key string, raw []byte) error

	// Get retrieves the raw bytes stored under key.
	// Returns errors.CodeNotFound if no such object exists.
	Get(ctx context.Context, key string) ([]byte, error)
}

// ObjectKey returns the archive key for a content fingerprint.
func ObjectKey(fingerprint string) string {
	return "raw/" + fingerprint
}
