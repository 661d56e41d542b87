package repository

import (
	"net/url"
	"strings"
)

// Remote is a parsed git remote URL.
type Remote struct {
	Host     string
	Owner    string
	Name     string
	Platform Platform
}

// ParseRemoteURL understands https, ssh:// and scp-like (git@host:owner/name)
// remote URLs. Owner keeps GitLab subgroups ("group/subgroup").
func ParseRemoteURL(raw string) (Remote, bool) {
	raw = strings.TrimSpace(raw)
	var host, path string

	switch {
	case strings.Contains(raw, "://"):
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			return Remote{}, false
		}
		host, path = u.Hostname(), u.Path
	case strings.Contains(raw, ":"):
		// scp-like syntax: [user@]host:path
		at := strings.LastIndex(raw[:strings.Index(raw, ":")], "@")
		rest := raw[at+1:]
		colon := strings.Index(rest, ":")
		host, path = rest[:colon], rest[colon+1:]
	default:
		return Remote{}, false
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	slash := strings.LastIndex(path, "/")
	if host == "" || slash <= 0 || slash == len(path)-1 {
		return Remote{}, false
	}

	r := Remote{
		Host:  strings.ToLower(host),
		Owner: path[:slash],
		Name:  path[slash+1:],
	}
	switch {
	case strings.Contains(r.Host, "github"):
		r.Platform = GitHub
	case strings.Contains(r.Host, "gitlab"):
		r.Platform = GitLab
	}
	return r, true
}
