package main

import (
	"testing"

	"github.com/otakulab/anirec/internal/config"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"batch-size", "batch-size"},
		{"batch_size", "batch-size"},
		{" Batch_Size ", "batch-size"},
		{"catalog", "catalog"},
	}

	for _, tt := range tests {
		if got := normalizeKey(tt.in); got != tt.want {
			t.Errorf("normalizeKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseWeights(t *testing.T) {
	tests := []struct {
		in      string
		want    config.Weights
		wantErr bool
	}{
		{"0.5,0.25,0.25", config.Weights{Similarity: 0.5, Score: 0.25, Popularity: 0.25}, false},
		{" 0 , 0.5 , 0.5 ", config.Weights{Similarity: 0, Score: 0.5, Popularity: 0.5}, false},
		{"1,2,3", config.Weights{Similarity: 1, Score: 2, Popularity: 3}, false},
		{"0.5,0.5", config.Weights{}, true},
		{"a,b,c", config.Weights{}, true},
		{"", config.Weights{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseWeights(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseWeights(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseWeights(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatWeights_RoundTrip(t *testing.T) {
	w := config.Weights{Similarity: 0.6, Score: 0.2, Popularity: 0.2}
	got, err := parseWeights(formatWeights(w))
	if err != nil {
		t.Fatalf("parseWeights() error = %v", err)
	}
	if got != w {
		t.Errorf("round trip = %+v, want %+v", got, w)
	}
}

func TestSetConfigValue(t *testing.T) {
	cfg := config.Default()

	if err := setConfigValue(cfg, "batch-size", "10"); err != nil {
		t.Fatalf("set batch-size: %v", err)
	}
	if cfg.BatchSize != 10 {
		t.Errorf("BatchSize = %d, want 10", cfg.BatchSize)
	}

	if err := setConfigValue(cfg, "feature-width", "0"); err != nil {
		t.Fatalf("set feature-width: %v", err)
	}
	if cfg.FeatureWidth != 0 {
		t.Errorf("FeatureWidth = %d, want 0", cfg.FeatureWidth)
	}

	if err := setConfigValue(cfg, "genre-weights", "0,1,0"); err != nil {
		t.Fatalf("set genre-weights: %v", err)
	}
	if cfg.GenreWeights.Score != 1 || cfg.GenreWeights.Popularity != 0 {
		t.Errorf("GenreWeights = %+v", cfg.GenreWeights)
	}

	if err := setConfigValue(cfg, "batch-size", "ten"); err == nil {
		t.Error("expected error for non-integer batch-size")
	}
	if err := setConfigValue(cfg, "pdf-root", "/tmp"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestGetConfigValue(t *testing.T) {
	cfg := config.Default()

	got, err := getConfigValue(cfg, "batch-size")
	if err != nil {
		t.Fatalf("getConfigValue() error = %v", err)
	}
	if got != "5" {
		t.Errorf("batch-size = %q, want %q", got, "5")
	}

	got, err = getConfigValue(cfg, "similarity-weights")
	if err != nil {
		t.Fatalf("getConfigValue() error = %v", err)
	}
	if got != "0.5,0.25,0.25" {
		t.Errorf("similarity-weights = %q", got)
	}

	if _, err := getConfigValue(cfg, "nope"); err == nil {
		t.Error("expected error for unknown key")
	}
}
