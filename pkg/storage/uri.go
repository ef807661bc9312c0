package storage

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// objectURI is the backend-agnostic decomposition of a storage URI. The
// individual backend openers interpret the pieces: for S3 the host is the
// bucket, for Azure the userinfo is the container and the host names the
// account, for local storage only the path matters.
type objectURI struct {
	raw    string
	scheme string
	user   string
	host   string
	path   string
}

// key returns the object key, the path with its leading slash stripped.
func (u objectURI) key() string {
	return strings.TrimPrefix(u.path, "/")
}

// account extracts the storage account from an Azure authority host such as
// "myaccount.blob.core.windows.net".
func (u objectURI) account() string {
	if i := strings.Index(u.host, "."); i > 0 {
		return u.host[:i]
	}
	return u.host
}

func parseObjectURI(raw string) (objectURI, error) {
	if raw == "" {
		return objectURI{}, errors.New("empty storage URI")
	}
	// bare local path
	if !strings.Contains(raw, "://") {
		return objectURI{raw: raw, path: raw}, nil
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return objectURI{}, errors.Wrap(err, "malformed storage URI")
	}
	inst := objectURI{
		raw:    raw,
		scheme: parsed.Scheme,
		host:   parsed.Host,
		path:   parsed.Path,
	}
	if parsed.User != nil {
		inst.user = parsed.User.Username()
	}
	return inst, nil
}
