// Package version exposes the bridge version and a best-effort check
// against the latest GitHub release.
package version

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	ilog "browserdap/internal/log"
)

// Version is the current version of browserdap.
const Version = "0.1.0"

const releasesURL = "https://api.github.com/repos/browserdap/browserdap/releases/latest"

// Release describes the latest published release.
type Release struct {
	Version string
	URL     string
}

// Latest fetches the newest release from GitHub.
func Latest(ctx context.Context) (*Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, releasesURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "browserdap/"+Version)

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub API returned status %d", resp.StatusCode)
	}

	var body struct {
		TagName string `json:"tag_name"`
		HTMLURL string `json:"html_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	return &Release{
		Version: strings.TrimPrefix(body.TagName, "v"),
		URL:     body.HTMLURL,
	}, nil
}

// NotifyAsync checks for a newer release in the background and logs a
// notice when one exists. Failures are silent; the check is advisory.
func NotifyAsync() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		rel, err := Latest(ctx)
		if err != nil {
			ilog.L().Debug().Err(err).Msg("update check failed")
			return
		}
		if compareVersions(Version, rel.Version) < 0 {
			ilog.L().Info().
				Str("current", Version).
				Str("latest", rel.Version).
				Str("url", rel.URL).
				Msg("a newer browserdap release is available")
		}
	}()
}

// compareVersions orders two semver strings: -1 when v1 < v2, 0 when
// equal, 1 when v1 > v2. Pre-release suffixes are ignored.
func compareVersions(v1, v2 string) int {
	p1 := parseVersion(v1)
	p2 := parseVersion(v2)
	for i := range p1 {
		if p1[i] != p2[i] {
			if p1[i] < p2[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func parseVersion(v string) [3]int {
	var out [3]int
	parts := strings.Split(strings.TrimPrefix(v, "v"), ".")
	for i := 0; i < len(parts) && i < 3; i++ {
		numeric := strings.Split(parts[i], "-")[0]
		fmt.Sscanf(numeric, "%d", &out[i])
	}
	return out
}
