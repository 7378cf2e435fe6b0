package docs

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Store is the object store for rendered manuals. Put persists a document
// under name and returns the storage path recorded on the job; Open retrieves
// it for download.
type Store interface {
	Put(ctx context.Context, name string, data []byte) (string, error)
	Open(ctx context.Context, path string) ([]byte, error)
}

// LocalStore keeps rendered manuals on the local filesystem under Dir and
// issues HMAC-signed, expiring download URLs for them.
type LocalStore struct {
	// Dir is the root directory for stored documents.
	Dir string
	// Secret keys the HMAC over signed URLs.
	Secret []byte
	// TTL bounds how long an issued URL verifies.
	TTL time.Duration
	// BasePath is the URL prefix of the download route, e.g. "/api/v1/files".
	BasePath string

	// now is a test seam; nil means time.Now.
	now func() time.Time
}

// NewLocalStore constructs a LocalStore rooted at dir.
func NewLocalStore(dir, secret, basePath string, ttl time.Duration) *LocalStore {
	return &LocalStore{
		Dir:      dir,
		Secret:   []byte(secret),
		TTL:      ttl,
		BasePath: strings.TrimRight(basePath, "/"),
	}
}

// Put writes data under a sanitized name inside Dir and returns the relative
// storage path.
func (s *LocalStore) Put(_ context.Context, name string, data []byte) (string, error) {
	name = filepath.Base(name)
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create storage dir: %w", err)
	}
	full := filepath.Join(s.Dir, name)
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write document: %w", err)
	}
	return name, nil
}

// Open reads a previously stored document. The path is confined to Dir.
func (s *LocalStore) Open(_ context.Context, path string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.Dir, filepath.Base(path)))
}

// SignedURL issues a download URL for the stored path, valid until TTL from
// now. The signature covers both the name and the expiry.
func (s *LocalStore) SignedURL(path string) string {
	name := filepath.Base(path)
	exp := s.clock().Add(s.TTL).Unix()
	q := url.Values{}
	q.Set("exp", strconv.FormatInt(exp, 10))
	q.Set("sig", s.sign(name, exp))
	return s.BasePath + "/" + url.PathEscape(name) + "?" + q.Encode()
}

// Verify checks the signature and expiry carried by a download request.
func (s *LocalStore) Verify(name string, exp int64, sig string) bool {
	if s.clock().Unix() > exp {
		return false
	}
	want := s.sign(filepath.Base(name), exp)
	return hmac.Equal([]byte(want), []byte(sig))
}

func (s *LocalStore) sign(name string, exp int64) string {
	mac := hmac.New(sha256.New, s.Secret)
	fmt.Fprintf(mac, "%s|%d", name, exp)
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *LocalStore) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now().UTC()
}
