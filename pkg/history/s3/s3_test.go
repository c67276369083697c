// Copyright Doctext Authors
// SPDX-License-Identifier: Apache-2.0

package s3_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/leseb/doctext/pkg/history"
	"github.com/leseb/doctext/pkg/history/historytest"
	hs3 "github.com/leseb/doctext/pkg/history/s3"
)

func TestS3Conformance(t *testing.T) {
	bucket := os.Getenv("HISTORY_S3_BUCKET")
	endpoint := os.Getenv("HISTORY_S3_ENDPOINT")
	if bucket == "" || endpoint == "" {
		t.Skip("Skipping S3 conformance tests: HISTORY_S3_BUCKET and HISTORY_S3_ENDPOINT must be set (e.g. with MinIO)")
	}

	region := os.Getenv("HISTORY_S3_REGION")
	if region == "" {
		region = "us-east-1"
	}

	run := time.Now().UnixNano()
	historytest.RunConformanceTests(t, func(t *testing.T) history.Store {
		store, err := hs3.New(context.Background(), hs3.Options{
			Bucket:   bucket,
			Region:   region,
			Prefix:   fmt.Sprintf("test-%d-%s/", run, t.Name()),
			Endpoint: endpoint,
		})
		if err != nil {
			t.Fatalf("s3.New: %v", err)
		}
		return store
	})
}

func TestNew_RequiresBucket(t *testing.T) {
	if _, err := hs3.New(context.Background(), hs3.Options{}); err == nil {
		t.Fatal("expected error without a bucket")
	}
}
