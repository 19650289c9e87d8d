package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/otakulab/anirec/internal/anime"
)

func testItems() []anime.Item {
	return []anime.Item{
		{
			Name:       "Cowboy Bebop",
			Features:   []float64{0.1, 0.2, 0.3},
			Cluster:    1,
			Score:      8.75,
			Popularity: 0.93,
			Genres:     []string{"Action", "Sci-Fi"},
			Poster:     "https://cdn.example/bebop.jpg",
		},
		{
			Name:       "Attack on Titan",
			Features:   []float64{0.4, 0.5, 0.6},
			Cluster:    2,
			Score:      8.54,
			Popularity: 0.99,
			Genres:     []string{"Action", "Drama", "UNKNOWN"},
			Poster:     "posters/aot.png",
		},
	}
}

func TestWriteItemsReadItems(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.jsonl")

	if err := WriteItems(path, testItems()); err != nil {
		t.Fatalf("WriteItems() error = %v", err)
	}

	got, err := ReadItems(path)
	if err != nil {
		t.Fatalf("ReadItems() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ReadItems() returned %d items, want 2", len(got))
	}
	if got[0].Name != "Cowboy Bebop" || got[0].Cluster != 1 {
		t.Errorf("first item = %+v", got[0])
	}
	if len(got[1].Features) != 3 || got[1].Features[2] != 0.6 {
		t.Errorf("second item features = %v", got[1].Features)
	}
	if got[1].Poster != "posters/aot.png" {
		t.Errorf("poster = %q, want posters/aot.png", got[1].Poster)
	}
}

func TestReadItems_MissingFile(t *testing.T) {
	_, err := ReadItems(filepath.Join(t.TempDir(), "nope.jsonl"))
	if err == nil {
		t.Fatal("ReadItems() on missing file should fail")
	}
}

func TestReadItems_SkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.jsonl")
	content := `{"name":"A","features":[1,0],"cluster":0}

{"name":"B","features":[0,1],"cluster":0}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadItems(path)
	if err != nil {
		t.Fatalf("ReadItems() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("ReadItems() returned %d items, want 2", len(got))
	}
}

func TestReadItems_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "this is not json\n"},
		{"non-numeric feature", `{"name":"A","features":[1,"x"],"cluster":0}` + "\n"},
		{"string cluster", `{"name":"A","features":[1],"cluster":"one"}` + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "catalog.jsonl")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := ReadItems(path); err == nil {
				t.Error("ReadItems() should fail on malformed row")
			}
		})
	}
}

func TestReadItems_NullScoreIsZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.jsonl")
	content := `{"name":"A","features":[1],"cluster":0,"score":null}` + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadItems(path)
	if err != nil {
		t.Fatalf("ReadItems() error = %v", err)
	}
	if got[0].Score != 0 || got[0].Popularity != 0 {
		t.Errorf("score/popularity = %v/%v, want 0/0", got[0].Score, got[0].Popularity)
	}
}
