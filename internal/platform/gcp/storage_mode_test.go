package gcp

import (
	"errors"
	"testing"
)

func TestResolveObjectStorageConfigFromEnv(t *testing.T) {
	cases := []struct {
		name     string
		mode     string
		host     string
		want     ObjectStorageMode
		inferred bool
		reason   string
	}{
		{name: "default", want: ObjectStorageModeGCS},
		{name: "explicit gcs ignores host", mode: "gcs", host: "http://fake-gcs:4443", want: ObjectStorageModeGCS},
		{name: "explicit emulator", mode: "GCS_EMULATOR", host: "http://fake-gcs:4443", want: ObjectStorageModeGCSEmulator},
		{name: "inferred emulator", host: "http://fake-gcs:4443", want: ObjectStorageModeGCSEmulator, inferred: true},
		{name: "unknown mode", mode: "s3", reason: "invalid_mode"},
		{name: "emulator without host", mode: "gcs_emulator", reason: "missing_emulator_host"},
		{name: "emulator with relative host", mode: "gcs_emulator", host: "fake-gcs", reason: "invalid_emulator_host"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("OBJECT_STORAGE_MODE", tc.mode)
			t.Setenv("STORAGE_EMULATOR_HOST", tc.host)

			cfg, err := ResolveObjectStorageConfigFromEnv()
			if tc.reason != "" {
				var cfgErr *ObjectStorageConfigError
				if !errors.As(err, &cfgErr) {
					t.Fatalf("expected ObjectStorageConfigError, got %v", err)
				}
				if cfgErr.Reason != tc.reason {
					t.Fatalf("reason: want=%q got=%q", tc.reason, cfgErr.Reason)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveObjectStorageConfigFromEnv: %v", err)
			}
			if cfg.Mode != tc.want {
				t.Fatalf("mode: want=%q got=%q", tc.want, cfg.Mode)
			}
			if cfg.Inferred != tc.inferred {
				t.Fatalf("inferred: want=%v got=%v", tc.inferred, cfg.Inferred)
			}
		})
	}
}

func TestPublicURL(t *testing.T) {
	cfg := bucketConfig{name: "brand-images"}
	cases := []struct {
		name string
		cfg  bucketConfig
		mode ObjectStorageMode
		base string
		want string
	}{
		{name: "gcs default", cfg: cfg, mode: ObjectStorageModeGCS, want: "https://storage.googleapis.com/brand-images/images/a.png"},
		{name: "cdn", cfg: bucketConfig{name: "brand-images", cdnDomain: "cdn.example.com"}, mode: ObjectStorageModeGCS, want: "https://cdn.example.com/images/a.png"},
		{name: "emulator", cfg: cfg, mode: ObjectStorageModeGCSEmulator, base: "http://localhost:4443", want: "http://localhost:4443/storage/v1/b/brand-images/o/images%2Fa.png?alt=media"},
		{name: "public base", cfg: cfg, mode: ObjectStorageModeGCS, base: "https://media.example.com", want: "https://media.example.com/brand-images/images/a.png"},
	}
	for _, tc := range cases {
		if got := publicURL(tc.cfg, tc.mode, tc.base, "/images/a.png"); got != tc.want {
			t.Fatalf("%s: want=%q got=%q", tc.name, tc.want, got)
		}
	}
}
