// Package exhibit classifies exhibition vendors into categories and fills in
// category-appropriate trivia facts, inventory items, and a farewell line.
//
// Quick start:
//
//	x, err := exhibit.New(exhibit.WithSeed(42))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println(x.Classify("Amiga Outpost", "Workbench demos").Category) // amiga
//
//	sum, err := x.EnrichFile(ctx, "vendors.json", "vendors.json")
//
// The Exhibit instance is safe for concurrent use. With a fixed seed the
// enriched document is identical for any worker count.
package exhibit
