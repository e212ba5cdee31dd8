// Package tables reconstructs ruled tables from the vector graphics of a
// PDF page.
//
// Only drawn rulings and filled rectangles are used. Text positions never
// create rows or columns; they only fill the cells found from the
// geometry.
//
// # Pipeline
//
// A page goes through these stages:
//
//  1. Path collection: [graphicsstate.Collector] keeps axis-aligned rulings
//     and rectangles, in device space
//  2. Noise filtering: [RemoveStrikeThroughs] drops dense runs of evenly
//     spaced rulings
//  3. Point extraction: [ExtractPoints] finds endpoints, corners and
//     crossings and snaps them onto shared coordinates
//  4. Grouping: [GroupPoints] splits the points into independent tables
//  5. Cell reconstruction: [ReconstructRectangles] closes the smallest cells
//  6. Tree building: [Builder] turns the cells of one table into a
//     [model.Cell] tree, recursing into merged regions
//
// [ExtractPage] runs every stage over one decoded content stream:
//
//	res, err := tables.ExtractPage(content, tables.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	for _, t := range res.Tables {
//	    html, err := t.ToHTML()
//	    ...
//	}
//
// Callers that walk the content themselves feed a [Detector]'s Collector
// and call [Detector.Tables].
//
// # Configuration
//
// Behavior is controlled by [Config], which can be loaded from YAML with
// [LoadConfig]:
//
//	rotation: 90
//	max_hierarchy: 10
//	variance: 2
//	treat_small_rect_as_line: true
//	detect_strike_throughs: true
//
// Options:
//
//   - Rotation - 0 or 90; swaps logical rows and columns
//   - MaxHierarchy - deepest level of nested sub-tables
//   - Variance - coordinate tolerance in points
//   - TreatSmallRectAsLine - store thin rectangles as rulings
//   - DetectStrikeThroughs - enable the strike-through filter
//
// # Limitations
//
// Cell reconstruction is a greedy scan and can miss a cell when several
// points share a ruling. Tables stacked with aligned columns share point
// coordinates and are grouped together. A grid slot holding no rectangle
// is left out of its parent, which then fails [model.Cell.Validate].
package tables
