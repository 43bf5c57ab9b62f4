package service

// ArchiveOptions control a single page archive operation.
type ArchiveOptions struct {
	// BypassRobots disables robots.txt checks for the fetch.
	BypassRobots bool
	// ProjectName labels the archive run in logs.
	ProjectName string
	// OpenInBrowser opens the archived entry document after the fetch.
	// Never set by the batch downloader.
	OpenInBrowser bool
	// Header holds extra HTTP headers passed through to every request of
	// the fetch.
	Header map[string]string
}

// PageArchiver fetches a web page and its assets into a target directory.
// The resulting tree is fixed:
// {targetDir}/{scheme}_{host}/{host}/{...url path}/index.html, with
// mirrored assets alongside under the host folder. A Fetch error is opaque
// to callers; they observe success solely through the presence of the
// entry document.
type PageArchiver interface {
	Fetch(url string, targetDir string, opts ArchiveOptions) error
}

// Pacer pauses between downloads to stay under the remote site's rate
// limits.
type Pacer interface {
	Pause()
}
