// Package object archives uploaded writing samples and their derived text.
package object

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"time"

	"growth-intel/internal/shared/util"
)

// Store saves and retrieves binary objects by key.
type Store interface {
	// Save archives r under a fresh key in the user's namespace.
	Save(ctx context.Context, userID string, fileName string, r io.Reader) (Object, error)
	// Put writes r at an exact key, replacing any existing object.
	Put(ctx context.Context, key string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// Object describes a saved upload.
type Object struct {
	Key         string
	Size        int64
	ContentType string
}

// SampleKey builds "<hashed user>/<random>_<file name>".
func SampleKey(userID, fileName string) (string, error) {
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("sanitize file name: %w", err)
	}
	return path.Join(util.HashUserKey(userID), randomID()+"_"+name), nil
}

// Sniff detects the content type from the first 512 bytes of r and returns a
// reader that replays them.
func Sniff(r io.Reader) (string, io.Reader, error) {
	var head [512]byte
	n, err := io.ReadFull(r, head[:])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", nil, fmt.Errorf("read sniff: %w", err)
	}
	return http.DetectContentType(head[:n]), io.MultiReader(bytes.NewReader(head[:n]), r), nil
}

// CountingReader counts bytes read through it.
type CountingReader struct {
	R io.Reader
	N int64
}

func (c *CountingReader) Read(p []byte) (int, error) {
	n, err := c.R.Read(p)
	c.N += int64(n)
	return n, err
}

func randomID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 10)
	}
	return hex.EncodeToString(b[:])
}
