// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gcsfile opens files that may live either on the local disk or
// in Google Cloud Storage, named as gs://bucket/object.
package gcsfile

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
)

const scheme = "gs://"

// IsGCS reports whether path names a Cloud Storage object.
func IsGCS(path string) bool {
	return strings.HasPrefix(path, scheme)
}

// Parse splits a gs://bucket/object path.
func Parse(path string) (bucket, object string, err error) {
	if !IsGCS(path) {
		return "", "", fmt.Errorf("%s: not a %s path", path, scheme)
	}
	rest := path[len(scheme):]
	i := strings.IndexByte(rest, '/')
	if i <= 0 || i == len(rest)-1 {
		return "", "", fmt.Errorf("%s: want %sbucket/object", path, scheme)
	}
	return rest[:i], rest[i+1:], nil
}

// An Opener opens local and Cloud Storage files. The storage client is
// created on first use, so an Opener that only sees local paths never
// needs credentials.
//
// The zero Opener uses application default credentials.
type Opener struct {
	// Ctx bounds every Cloud Storage operation. If nil,
	// context.Background is used.
	Ctx context.Context

	// Credentials, if set, is a service account JSON key file.
	Credentials string

	// Token, if set, is an OAuth2 access token, such as the output
	// of "gcloud auth print-access-token".
	Token string

	// Anonymous accesses public buckets without credentials.
	Anonymous bool

	client *storage.Client
}

func (o *Opener) ctx() context.Context {
	if o.Ctx == nil {
		return context.Background()
	}
	return o.Ctx
}

func (o *Opener) bucket(name string) (*storage.BucketHandle, error) {
	if o.client == nil {
		var opts []option.ClientOption
		switch {
		case o.Anonymous:
			opts = append(opts, option.WithoutAuthentication())
		case o.Token != "":
			ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: o.Token})
			opts = append(opts, option.WithTokenSource(ts))
		case o.Credentials != "":
			opts = append(opts, option.WithCredentialsFile(o.Credentials))
		}
		c, err := storage.NewClient(o.ctx(), opts...)
		if err != nil {
			return nil, fmt.Errorf("creating storage client: %w", err)
		}
		o.client = c
	}
	return o.client.Bucket(name), nil
}

// Open opens path for reading.
func (o *Opener) Open(path string) (io.ReadCloser, error) {
	if !IsGCS(path) {
		return os.Open(path)
	}
	b, obj, err := Parse(path)
	if err != nil {
		return nil, err
	}
	bh, err := o.bucket(b)
	if err != nil {
		return nil, err
	}
	r, err := bh.Object(obj).NewReader(o.ctx())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Create creates path for writing. Local parent directories are
// created as needed. A Cloud Storage object is not committed until the
// returned writer is closed.
func (o *Opener) Create(path string) (io.WriteCloser, error) {
	if !IsGCS(path) {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0777); err != nil {
				return nil, err
			}
		}
		return os.Create(path)
	}
	b, obj, err := Parse(path)
	if err != nil {
		return nil, err
	}
	bh, err := o.bucket(b)
	if err != nil {
		return nil, err
	}
	w := bh.Object(obj).NewWriter(o.ctx())
	if strings.HasSuffix(obj, ".csv") {
		w.ContentType = "text/csv"
	}
	return w, nil
}

// Close releases the storage client, if one was created.
func (o *Opener) Close() error {
	if o.client == nil {
		return nil
	}
	err := o.client.Close()
	o.client = nil
	return err
}
