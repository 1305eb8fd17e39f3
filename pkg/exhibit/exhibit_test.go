package exhibit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/crimson-sun/exhibit/internal/catalog"
)

const document = `[
  {
    "id": "1",
    "name": "Amiga Outpost",
    "booth": "A1",
    "description": "Workbench demos & Deluxe Paint",
    "items": [{"id": "old", "name": "Stale", "description": "stale", "value": 1}],
    "facts": ["stale fact"],
    "dialog": {
      "greeting": "Hi!",
      "responses": [
        {"text": "Show me", "action": "show_items"},
        {"text": "Bye", "action": "end"}
      ]
    },
    "sprite": {"sheet": "vendors.png", "frame": 3}
  },
  {
    "id": "2",
    "name": "Bob's Booth",
    "description": "Assorted oddities"
  }
]`

type itemDoc struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type responseDoc struct {
	Text   string `json:"text"`
	Action string `json:"action"`
}

type dialogDoc struct {
	Greeting  string        `json:"greeting"`
	Responses []responseDoc `json:"responses"`
}

type vendorDoc struct {
	ID     string          `json:"id"`
	X      *int            `json:"x"`
	Y      *int            `json:"y"`
	Items  []itemDoc       `json:"items"`
	Facts  []string        `json:"facts"`
	Dialog *dialogDoc      `json:"dialog"`
	Sprite json.RawMessage `json:"sprite"`
}

func decodeDoc(t *testing.T, data []byte) []vendorDoc {
	t.Helper()
	var docs []vendorDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		t.Fatalf("output is not a vendor array: %v", err)
	}
	return docs
}

func TestOptionsDefaults(t *testing.T) {
	o := defaultOptions()
	if o.matchMode != "substring" {
		t.Errorf("default match mode = %q, want substring", o.matchMode)
	}
	if o.workers != 1 {
		t.Errorf("default workers = %d, want 1", o.workers)
	}
	if o.factsMin != 2 || o.factsMax != 3 || o.itemsMin != 3 || o.itemsMax != 5 {
		t.Errorf("default ranges = facts %d..%d items %d..%d", o.factsMin, o.factsMax, o.itemsMin, o.itemsMax)
	}
}

func TestNewRejectsBadOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"match mode", WithMatchMode("fuzzy")},
		{"facts range", WithFactsRange(4, 2)},
		{"items range", WithItemsRange(-1, 3)},
		{"workers", WithWorkers(0)},
		{"parts", WithParts("dialog")},
		{"taxonomy path", WithTaxonomyPath("/nonexistent/taxonomy.yaml")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.opt); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestClassify(t *testing.T) {
	x, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	c := x.Classify("Amiga Outpost", "Workbench demos")
	if c.Category != "amiga" || c.Keyword != "amiga" {
		t.Errorf("got %+v, want amiga/amiga", c)
	}

	c = x.Classify("Bob's Booth", "")
	if c.Category != "general" || c.Keyword != "" {
		t.Errorf("got %+v, want general with no keyword", c)
	}

	c = x.Classify("Bob's Booth", "", "Super Mario cartridge")
	if c.Category != "gaming" {
		t.Errorf("item names: got %q, want gaming", c.Category)
	}
}

func TestClassifyWordMode(t *testing.T) {
	substring, err := New()
	if err != nil {
		t.Fatal(err)
	}
	word, err := New(WithMatchMode("word"))
	if err != nil {
		t.Fatal(err)
	}

	if got := substring.Classify("Vintage Machines", "").Category; got != "apple" {
		t.Errorf("substring: got %q, want apple", got)
	}
	if got := word.Classify("Vintage Machines", "").Category; got != "general" {
		t.Errorf("word: got %q, want general", got)
	}
}

func TestEnrich(t *testing.T) {
	x, err := New(WithSeed(42))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	out, sum, err := x.Enrich(context.Background(), []byte(document))
	if err != nil {
		t.Fatalf("Enrich() error: %v", err)
	}
	if sum.Vendors != 2 || sum.Seed != 42 {
		t.Errorf("unexpected summary: %+v", sum)
	}
	if sum.Categories["amiga"] != 1 || sum.Categories["general"] != 1 {
		t.Errorf("categories = %v", sum.Categories)
	}
	if sum.CoordinatesAssigned != 2 {
		t.Errorf("coordinates assigned = %d, want 2", sum.CoordinatesAssigned)
	}

	docs := decodeDoc(t, out)
	if len(docs) != 2 {
		t.Fatalf("got %d vendors, want 2", len(docs))
	}
	for _, d := range docs {
		if n := len(d.Items); n < 3 || n > 5 {
			t.Errorf("vendor %s: %d items", d.ID, n)
		}
		if n := len(d.Facts); n < 2 || n > 3 {
			t.Errorf("vendor %s: %d facts", d.ID, n)
		}
		if d.X == nil || d.Y == nil {
			t.Errorf("vendor %s: no coordinates", d.ID)
		}
		if d.Dialog == nil {
			t.Fatalf("vendor %s: no dialog", d.ID)
		}
		last := d.Dialog.Responses[len(d.Dialog.Responses)-1]
		if last.Action != "end" || last.Text == "Bye" {
			t.Errorf("vendor %s: farewell not applied: %+v", d.ID, last)
		}
	}

	if got := docs[0].Dialog.Greeting; got != "Hi!" {
		t.Errorf("greeting changed to %q", got)
	}
	var sprite map[string]any
	if err := json.Unmarshal(docs[0].Sprite, &sprite); err != nil || sprite["sheet"] != "vendors.png" {
		t.Errorf("sprite not preserved: %s", docs[0].Sprite)
	}
	if !bytes.Contains(out, []byte("Workbench demos & Deluxe Paint")) {
		t.Error("description was escaped or altered")
	}
}

func TestEnrichIndependentOfWorkers(t *testing.T) {
	var outputs [][]byte
	for _, workers := range []int{1, 4} {
		x, err := New(WithSeed(7), WithWorkers(workers))
		if err != nil {
			t.Fatal(err)
		}
		out, _, err := x.Enrich(context.Background(), []byte(document))
		if err != nil {
			t.Fatalf("workers=%d: Enrich() error: %v", workers, err)
		}
		outputs = append(outputs, out)
	}
	if !bytes.Equal(outputs[0], outputs[1]) {
		t.Error("output depends on worker count")
	}
}

func TestEnrichOnlyFacts(t *testing.T) {
	x, err := New(WithSeed(3), WithParts("facts"))
	if err != nil {
		t.Fatal(err)
	}
	out, _, err := x.Enrich(context.Background(), []byte(document))
	if err != nil {
		t.Fatal(err)
	}
	d := decodeDoc(t, out)[0]
	if len(d.Items) != 1 || d.Items[0].ID != "old" {
		t.Errorf("items regenerated: %+v", d.Items)
	}
	if d.Facts[0] == "stale fact" {
		t.Error("facts not regenerated")
	}
	if last := d.Dialog.Responses[len(d.Dialog.Responses)-1]; last.Text != "Bye" {
		t.Errorf("farewell applied: %q", last.Text)
	}
}

func TestEnrichMalformed(t *testing.T) {
	x, err := New()
	if err != nil {
		t.Fatal(err)
	}
	for _, doc := range []string{`{"id": "1"}`, `[{"name": "no id"}]`, `[1, 2]`} {
		if _, _, err := x.Enrich(context.Background(), []byte(doc)); !errors.Is(err, catalog.ErrMalformed) {
			t.Errorf("%s: expected ErrMalformed, got %v", doc, err)
		}
	}
}

func TestEnrichFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vendors.json")
	if err := os.WriteFile(path, []byte(document), 0o644); err != nil {
		t.Fatal(err)
	}

	x, err := New(WithSeed(9))
	if err != nil {
		t.Fatal(err)
	}
	sum, err := x.EnrichFile(context.Background(), path, path)
	if err != nil {
		t.Fatalf("EnrichFile() error: %v", err)
	}
	if sum.Vendors != 2 || sum.RunID == "" {
		t.Errorf("unexpected summary: %+v", sum)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if docs := decodeDoc(t, data); len(docs[0].Facts) < 2 {
		t.Errorf("file not enriched: %+v", docs[0].Facts)
	}

	if _, err := x.EnrichFile(context.Background(), filepath.Join(t.TempDir(), "missing.json"), path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestConcurrentClassify(t *testing.T) {
	x, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	const goroutines = 10
	var wg sync.WaitGroup
	results := make(chan string, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- x.Classify("Atari Annex", "2600 carts").Category
		}()
	}

	wg.Wait()
	close(results)

	for got := range results {
		if got != "atari" {
			t.Errorf("concurrent Classify() = %q, want atari", got)
		}
	}
}
