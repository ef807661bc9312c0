package storage

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
)

// openLocalBucket opens a fileblob bucket over the directory containing the
// addressed file. Relative paths are resolved against baseDir when set.
func openLocalBucket(uri objectURI, baseDir string) (*blob.Bucket, string, error) {
	path := strings.TrimPrefix(uri.raw, "file://")
	if path == "" {
		return nil, "", errors.Errorf("no path in storage URI %q", uri.raw)
	}
	if !filepath.IsAbs(path) && baseDir != "" {
		path = filepath.Join(baseDir, path)
	}

	dir, key := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	if key == "" {
		return nil, "", errors.Errorf("storage URI %q does not address a file", uri.raw)
	}

	bucket, err := fileblob.OpenBucket(dir, &fileblob.Options{CreateDir: true})
	if err != nil {
		return nil, "", err
	}
	return bucket, key, nil
}
