package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// ActionEnd is the reserved dialog action that closes an interaction.
// Its response text is the vendor's farewell line.
const ActionEnd = "end"

// VendorRecord is one exhibitor's presentation data. Keys the pipeline does
// not own are kept verbatim in Extra and written back unchanged.
type VendorRecord struct {
	ID          string
	Name        string
	Booth       string
	URL         string
	Description string
	X           *int // nil until coordinates are assigned
	Y           *int
	Items       []Item
	Dialog      *Dialog
	Facts       []string

	Extra map[string]json.RawMessage
}

// Item is one entry of a vendor's inventory.
type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Value       int    `json:"value"`
}

// Dialog holds a vendor's greeting and the ordered player responses.
type Dialog struct {
	Greeting  string     `json:"greeting"`
	Responses []Response `json:"responses"`
}

// Response is a single dialog choice. Action "end" carries the farewell text.
type Response struct {
	Text   string `json:"text"`
	Action string `json:"action"`
}

// BoothLabel returns the booth, falling back to a passthrough LOC key as
// written by the tabular import.
func (v VendorRecord) BoothLabel() string {
	if v.Booth != "" {
		return v.Booth
	}
	if raw, ok := v.Extra["LOC"]; ok {
		var loc string
		if json.Unmarshal(raw, &loc) == nil {
			return loc
		}
	}
	return ""
}

// ItemNames returns the names of the vendor's current items in order.
func (v VendorRecord) ItemNames() []string {
	names := make([]string, len(v.Items))
	for i, it := range v.Items {
		names[i] = it.Name
	}
	return names
}

// Clone returns a deep copy. Raw passthrough values are shared since they
// are never mutated.
func (v VendorRecord) Clone() VendorRecord {
	c := v
	if v.X != nil {
		x := *v.X
		c.X = &x
	}
	if v.Y != nil {
		y := *v.Y
		c.Y = &y
	}
	if v.Items != nil {
		c.Items = append([]Item(nil), v.Items...)
	}
	if v.Facts != nil {
		c.Facts = append([]string(nil), v.Facts...)
	}
	if v.Dialog != nil {
		d := *v.Dialog
		d.Responses = append([]Response(nil), v.Dialog.Responses...)
		c.Dialog = &d
	}
	if v.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(v.Extra))
		for k, raw := range v.Extra {
			c.Extra[k] = raw
		}
	}
	return c
}

// vendorJSON fixes the key order of owned fields on the wire.
type vendorJSON struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Booth       string   `json:"booth"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	X           *int     `json:"x,omitempty"`
	Y           *int     `json:"y,omitempty"`
	Items       []Item   `json:"items"`
	Dialog      *Dialog  `json:"dialog,omitempty"`
	Facts       []string `json:"facts"`
}

var ownedKeys = map[string]bool{
	"id": true, "name": true, "booth": true, "url": true, "description": true,
	"x": true, "y": true, "items": true, "dialog": true, "facts": true,
}

// MarshalJSON writes owned fields first, then passthrough keys sorted by name.
func (v VendorRecord) MarshalJSON() ([]byte, error) {
	w := vendorJSON{
		ID:          v.ID,
		Name:        v.Name,
		Booth:       v.Booth,
		URL:         v.URL,
		Description: v.Description,
		X:           v.X,
		Y:           v.Y,
		Items:       v.Items,
		Dialog:      v.Dialog,
		Facts:       v.Facts,
	}
	if w.Items == nil {
		w.Items = []Item{}
	}
	if w.Facts == nil {
		w.Facts = []string{}
	}
	base, err := marshalRaw(w)
	if err != nil {
		return nil, err
	}
	if len(v.Extra) == 0 {
		return base, nil
	}

	keys := make([]string, 0, len(v.Extra))
	for k := range v.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.Write(base[:len(base)-1])
	for _, k := range keys {
		kb, err := marshalRaw(k)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(kb)
		buf.WriteByte(':')
		raw := v.Extra[k]
		if len(raw) == 0 {
			raw = json.RawMessage("null")
		}
		buf.Write(raw)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalRaw is json.Marshal without HTML escaping.
func marshalRaw(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON decodes a vendor object. The id and name keys are required;
// unknown keys are retained in Extra.
func (v *VendorRecord) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return fmt.Errorf("vendor record is null")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("vendor record: %w", err)
	}
	for _, key := range []string{"id", "name"} {
		if _, ok := fields[key]; !ok {
			return fmt.Errorf("vendor record: missing required field %q", key)
		}
	}

	var rec VendorRecord
	targets := map[string]any{
		"id":          &rec.ID,
		"name":        &rec.Name,
		"booth":       &rec.Booth,
		"url":         &rec.URL,
		"description": &rec.Description,
		"x":           &rec.X,
		"y":           &rec.Y,
		"items":       &rec.Items,
		"dialog":      &rec.Dialog,
		"facts":       &rec.Facts,
	}
	for key, raw := range fields {
		if !ownedKeys[key] {
			if rec.Extra == nil {
				rec.Extra = make(map[string]json.RawMessage)
			}
			rec.Extra[key] = append(json.RawMessage(nil), raw...)
			continue
		}
		if err := json.Unmarshal(raw, targets[key]); err != nil {
			return fmt.Errorf("vendor record: field %q: %w", key, err)
		}
	}
	for i, it := range rec.Items {
		if it.Value < 0 {
			return fmt.Errorf("vendor record %q: item %d has negative value %d", rec.ID, i+1, it.Value)
		}
	}
	*v = rec
	return nil
}
