package main

import (
	"testing"
)

func TestCacheStatsDisabled(t *testing.T) {
	cfgPath := writeCLIConfig(t, false)

	out, _, err := runCLI(t, []string{"cache", "stats"}, cfgPath)
	if err != nil {
		t.Fatalf("cache stats: %v", err)
	}
	requireContains(t, out, "disabled")
}

func TestCacheStatsEmptyCache(t *testing.T) {
	cfgPath := writeCLIConfig(t, true)

	out, _, err := runCLI(t, []string{"cache", "stats"}, cfgPath)
	if err != nil {
		t.Fatalf("cache stats: %v", err)
	}
	requireContains(t, out, "Entries:  0")
}

func TestCacheClearEmptyCache(t *testing.T) {
	cfgPath := writeCLIConfig(t, true)

	out, _, err := runCLI(t, []string{"cache", "clear"}, cfgPath)
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	requireContains(t, out, "Removed 0 cached transcripts")
}

func TestCachePruneEmptyCache(t *testing.T) {
	cfgPath := writeCLIConfig(t, true)

	out, _, err := runCLI(t, []string{"cache", "prune", "--max-age-days", "1"}, cfgPath)
	if err != nil {
		t.Fatalf("cache prune: %v", err)
	}
	requireContains(t, out, "No cached transcripts pruned")
}
