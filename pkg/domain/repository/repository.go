package repository

// ListingStore is the permanent home of downloaded listings: one directory
// per street address under a destination root.
type ListingStore interface {
	// Addresses returns the addresses that already have a listing directory.
	Addresses() ([]string, error)
	// Commit copies the staged entry document into a fresh directory for
	// address and returns the committed path. Committing to an address that
	// already has a directory fails with *entity.DestinationExistsError.
	Commit(entryDocument, address string) (string, error)
	// Root returns the destination root directory.
	Root() string
}

// StagingArea hands out fresh, exclusively owned staging directories.
type StagingArea interface {
	// Acquire creates a uniquely named empty directory and returns it
	// together with a cleanup function. Cleanup is best-effort: removal
	// failures must be tolerated.
	Acquire() (dir string, cleanup func(), err error)
}
