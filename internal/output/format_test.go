package output

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/crimson-sun/exhibit/internal/model"
)

func baseClassification() model.Classification {
	return model.Classification{
		VendorID: "12",
		Name:     "Amiga Outpost",
		Booth:    "A1",
		Category: model.Amiga,
		Keyword:  "amiga",
	}
}

func TestFormatClassificationPlain(t *testing.T) {
	c := FormatClassification(baseClassification(), false)

	if c.Keyword != "" {
		t.Fatal("Keyword should be empty without explain")
	}
	if c.Category != model.Amiga {
		t.Fatal("Category should be preserved")
	}
	if c.Name != "Amiga Outpost" {
		t.Fatal("Name should be preserved")
	}
}

func TestFormatClassificationExplain(t *testing.T) {
	c := FormatClassification(baseClassification(), true)

	if c.Keyword != "amiga" {
		t.Fatal("Keyword should be preserved with explain")
	}
}

func TestFormatClassificationJSONOmitsKeyword(t *testing.T) {
	data, err := json.Marshal(FormatClassification(baseClassification(), false))
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	if strings.Contains(string(data), "keyword") {
		t.Fatalf("keyword should be omitted, got %s", data)
	}
	if !strings.Contains(string(data), `"category":"amiga"`) {
		t.Fatalf("expected category in %s", data)
	}
}
