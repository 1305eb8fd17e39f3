package synth

import (
	"fmt"
	"strings"

	"github.com/crimson-sun/exhibit/internal/model"
)

// Booth grid used for placeholder coordinates.
const (
	RowWidth = 20
	CellW    = 64
	CellH    = 32
)

// Part selects which generated parts of a record are rewritten.
type Part uint8

const (
	PartItems Part = 1 << iota
	PartFacts
	PartFarewell

	AllParts = PartItems | PartFacts | PartFarewell
)

// ParseParts converts a list like ["facts", "items"] to a Part set.
// An empty list means AllParts.
func ParseParts(names []string) (Part, error) {
	if len(names) == 0 {
		return AllParts, nil
	}
	var p Part
	for _, n := range names {
		switch strings.ToLower(strings.TrimSpace(n)) {
		case "items", "item":
			p |= PartItems
		case "facts", "fact":
			p |= PartFacts
		case "farewell", "farewells":
			p |= PartFarewell
		default:
			return 0, fmt.Errorf("unknown part %q (want items, facts, farewell)", n)
		}
	}
	return p, nil
}

// Has reports whether all bits of q are set in p.
func (p Part) Has(q Part) bool { return p&q == q }

// Content is the selected material for one vendor.
type Content struct {
	Parts    Part
	Items    []model.ItemTemplate
	Facts    []string
	Farewell string
}

// Result reports what Synthesize changed.
type Result struct {
	Category            model.Category
	CoordinatesAssigned bool
	DialogCreated       bool
	FarewellApplied     bool
}

// Coordinates returns the placeholder grid position for the vendor at index.
func Coordinates(index int) (x, y int) {
	return (index % RowWidth) * CellW, (index / RowWidth) * CellH
}

// ItemID returns the identifier of the item at 1-based position pos.
func ItemID(vendorID string, pos int) string {
	return fmt.Sprintf("item_%s_%d", vendorID, pos)
}

// DefaultDialog is the dialog given to vendors that have none.
func DefaultDialog(name, description string) *model.Dialog {
	greeting := fmt.Sprintf("Welcome to %s!", name)
	if description != "" {
		greeting += " " + description
	}
	return &model.Dialog{
		Greeting: greeting,
		Responses: []model.Response{
			{Text: "Show me your inventory", Action: "show_items"},
			{Text: "Tell me about your booth", Action: "booth_info"},
			{Text: "Share some tech facts", Action: "tech_facts"},
			{Text: "Thanks, I'll check other vendors", Action: model.ActionEnd},
		},
	}
}

// Synthesize merges generated content into a copy of rec. Fields the
// pipeline does not own pass through unchanged and rec is not modified.
//
// Items are replaced wholesale and renumbered from 1. Facts replace the
// previous list. The farewell overwrites the last response tagged "end";
// without such a response it is a no-op and Result.FarewellApplied is false.
// Coordinates are only assigned when the record has none.
//
// A record with no dialog at all receives DefaultDialog (Result.DialogCreated)
// before the farewell is applied, so its farewell always lands. This is the
// one case where a field outside items, facts, and coordinates is added.
func Synthesize(index int, rec model.VendorRecord, c model.Category, content Content) (model.VendorRecord, Result) {
	out := rec.Clone()
	res := Result{Category: c}

	if out.X == nil || out.Y == nil {
		x, y := Coordinates(index)
		out.X, out.Y = &x, &y
		res.CoordinatesAssigned = true
	}

	if content.Parts.Has(PartItems) {
		out.Items = make([]model.Item, len(content.Items))
		for i, tpl := range content.Items {
			out.Items[i] = model.Item{
				ID:          ItemID(out.ID, i+1),
				Name:        tpl.Name,
				Description: tpl.Description,
				Value:       max(tpl.Value, 0),
			}
		}
	}

	if content.Parts.Has(PartFacts) {
		out.Facts = append([]string{}, content.Facts...)
	}

	if out.Dialog == nil {
		out.Dialog = DefaultDialog(out.Name, out.Description)
		res.DialogCreated = true
	}

	if content.Parts.Has(PartFarewell) && content.Farewell != "" {
		res.FarewellApplied = setFarewell(out.Dialog, content.Farewell)
	}

	return out, res
}

func setFarewell(d *model.Dialog, text string) bool {
	for i := len(d.Responses) - 1; i >= 0; i-- {
		if d.Responses[i].Action == model.ActionEnd {
			d.Responses[i].Text = text
			return true
		}
	}
	return false
}
