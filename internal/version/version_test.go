package version

import (
	"runtime/debug"
	"testing"
	"time"
)

func TestOverrideWins(t *testing.T) {
	info := &debug.BuildInfo{Main: debug.Module{Path: "pkt.systems/vcsnoop", Version: "v0.1.0"}}
	got := fromBuildInfo(info, "v1.2.3+dirty")
	if got.Version != "v1.2.3" {
		t.Fatalf("expected override version, got %q", got.Version)
	}
}

func TestModuleVersion(t *testing.T) {
	info := &debug.BuildInfo{Main: debug.Module{Path: "example.com/fork", Version: "v0.4.0"}}
	got := fromBuildInfo(info, "")
	if got.Module != "example.com/fork" || got.Version != "v0.4.0" {
		t.Fatalf("unexpected info %+v", got)
	}
	if got.String() != "example.com/fork v0.4.0" {
		t.Fatalf("unexpected string %q", got.String())
	}
}

func TestPseudoVersionFromVCS(t *testing.T) {
	ts := time.Date(2025, time.January, 2, 3, 4, 5, 0, time.UTC)
	info := &debug.BuildInfo{
		Main: debug.Module{Path: "pkt.systems/vcsnoop", Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "1234567890abcdef"},
			{Key: "vcs.time", Value: ts.Format(time.RFC3339)},
			{Key: "vcs.modified", Value: "true"},
		},
	}
	got := fromBuildInfo(info, "")
	if got.Version != "v0.0.0-20250102030405-1234567890ab" {
		t.Fatalf("unexpected pseudo version %q", got.Version)
	}
	if !got.Dirty {
		t.Fatalf("expected dirty flag")
	}
	if !got.Time.Equal(ts) {
		t.Fatalf("expected vcs time %v, got %v", ts, got.Time)
	}
}

func TestNilBuildInfo(t *testing.T) {
	got := fromBuildInfo(nil, "")
	if got.Module != defaultModule || got.Version != "v0.0.0-unknown" {
		t.Fatalf("unexpected fallback %+v", got)
	}
}
