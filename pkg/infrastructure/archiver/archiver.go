package archiver

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"github.com/temoto/robotstxt"

	"github.com/MisterVladimir/download-zillow-listings/pkg/domain/entity"
	"github.com/MisterVladimir/download-zillow-listings/pkg/domain/service"
)

// assetTargets are the element/attribute pairs whose references get
// mirrored locally.
var assetTargets = []struct {
	selector string
	attr     string
}{
	{"img", "src"},
	{"script", "src"},
	{"link[rel='stylesheet']", "href"},
	{"link[rel='icon']", "href"},
}

// WebArchiver implements service.PageArchiver with net/http and goquery. It
// fetches the page, mirrors its same-host assets, rewrites their references
// to relative local paths, and writes the entry document into the fixed
// tree {targetDir}/{scheme}_{host}/{host}/{...url path}/index.html.
type WebArchiver struct {
	client          *http.Client
	userAgent       string
	maxResponseSize int64
	log             logrus.FieldLogger
}

// Config holds web archiver configuration.
type Config struct {
	Timeout         time.Duration
	MaxResponseSize int64
	UserAgent       string
}

// NewWebArchiver creates a new web archiver.
func NewWebArchiver(config Config, log logrus.FieldLogger) *WebArchiver {
	return &WebArchiver{
		client: &http.Client{
			Timeout: config.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		userAgent:       config.UserAgent,
		maxResponseSize: config.MaxResponseSize,
		log:             log,
	}
}

// Fetch implements service.PageArchiver.
func (a *WebArchiver) Fetch(pageURL string, targetDir string, opts service.ArchiveOptions) error {
	u, err := url.Parse(pageURL)
	if err != nil {
		return fmt.Errorf("parsing page URL %s: %w", pageURL, err)
	}

	if !opts.BypassRobots {
		if err := a.checkRobots(u); err != nil {
			return err
		}
	}

	a.log.WithFields(logrus.Fields{
		"url":     pageURL,
		"project": opts.ProjectName,
	}).Debug("archiving page")

	body, err := a.get(pageURL, opts, a.maxResponseSize)
	if err != nil {
		return err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("parsing HTML of %s: %w", pageURL, err)
	}

	hostRoot := filepath.Join(targetDir, strings.Join([]string{u.Scheme, u.Host}, "_"))
	pageDir := filepath.Join(hostRoot, u.Host, filepath.FromSlash(strings.Trim(u.Path, "/")))
	if err := os.MkdirAll(pageDir, 0o755); err != nil {
		return fmt.Errorf("creating page directory %s: %w", pageDir, err)
	}

	a.localizeAssets(doc, u, hostRoot, pageDir, opts)

	html, err := doc.Html()
	if err != nil {
		return fmt.Errorf("serializing %s: %w", pageURL, err)
	}

	entryPath := filepath.Join(pageDir, entity.EntryDocumentName)
	if err := os.WriteFile(entryPath, []byte(html), 0o644); err != nil {
		return fmt.Errorf("writing entry document %s: %w", entryPath, err)
	}

	if opts.OpenInBrowser {
		if err := openInBrowser(entryPath); err != nil {
			a.log.WithError(err).WithField("path", entryPath).Warn("could not open entry document in browser")
		}
	}

	return nil
}

// localizeAssets downloads the page's same-host assets under hostRoot and
// rewrites their references to paths relative to the entry document. Assets
// that cannot be fetched are left pointing at their original URLs.
func (a *WebArchiver) localizeAssets(doc *goquery.Document, pageURL *url.URL, hostRoot, pageDir string, opts service.ArchiveOptions) {
	for _, target := range assetTargets {
		doc.Find(target.selector).Each(func(_ int, sel *goquery.Selection) {
			ref, ok := sel.Attr(target.attr)
			if !ok || ref == "" || strings.HasPrefix(ref, "data:") {
				return
			}

			assetURL, err := pageURL.Parse(ref)
			if err != nil || assetURL.Host != pageURL.Host {
				return
			}

			local := filepath.Join(hostRoot, assetURL.Host, filepath.FromSlash(strings.TrimPrefix(assetURL.Path, "/")))
			if err := a.downloadAsset(assetURL.String(), local, opts); err != nil {
				a.log.WithError(err).WithField("asset", assetURL.String()).Debug("asset not mirrored")
				return
			}

			rel, err := filepath.Rel(pageDir, local)
			if err != nil {
				return
			}
			sel.SetAttr(target.attr, filepath.ToSlash(rel))
		})
	}
}

func (a *WebArchiver) downloadAsset(assetURL, localPath string, opts service.ArchiveOptions) error {
	body, err := a.get(assetURL, opts, a.maxResponseSize)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(localPath, body, 0o644)
}

func (a *WebArchiver) get(rawURL string, opts service.ArchiveOptions, limit int64) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", rawURL, err)
	}

	req.Header.Set("User-Agent", a.userAgent)
	for key, value := range opts.Header {
		req.Header.Set(key, value)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", rawURL, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rawURL, err)
	}
	return body, nil
}

// checkRobots fetches the host's robots.txt and rejects the page if the
// configured user agent is not allowed. Only consulted when BypassRobots is
// false; the batch downloader never is.
func (a *WebArchiver) checkRobots(pageURL *url.URL) error {
	robotsURL := fmt.Sprintf("%s://%s/robots.txt", pageURL.Scheme, pageURL.Host)

	resp, err := a.client.Get(robotsURL)
	if err != nil {
		// An unreachable robots.txt does not block the fetch.
		a.log.WithError(err).Debug("robots.txt not reachable")
		return nil
	}
	defer resp.Body.Close()

	robots, err := robotstxt.FromResponse(resp)
	if err != nil {
		a.log.WithError(err).Debug("robots.txt not parsable")
		return nil
	}

	if !robots.TestAgent(pageURL.Path, a.userAgent) {
		return fmt.Errorf("robots.txt of %s disallows %s", pageURL.Host, pageURL.Path)
	}
	return nil
}

func openInBrowser(path string) error {
	cmd := "xdg-open"
	if runtime.GOOS == "darwin" {
		cmd = "open"
	}
	return exec.Command(cmd, "file://"+path).Start()
}
