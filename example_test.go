package rulegrid_test

import (
	"fmt"
	"log"

	"github.com/tsawler/rulegrid"
	"github.com/tsawler/rulegrid/tables"
)

// These examples verify the package documentation samples compile.
// They have no output since they need a PDF on disk.

func Example_tables() {
	pages, warnings, err := rulegrid.Open("report.pdf").Tables()
	if err != nil {
		log.Fatal(err)
	}

	for _, p := range pages {
		for i, t := range p.Tables {
			fmt.Printf("page %d table %d: %dx%d\n", p.Page, i, t.Rows(), t.Cols())
		}
	}

	for _, w := range warnings {
		fmt.Println("Warning:", w.Message)
	}
}

func Example_withOptions() {
	html, warnings, err := rulegrid.Open("report.pdf").
		Pages(2, 3).          // Specific pages
		Rotation(90).         // Landscape tables
		KeepStrikeThroughs(). // No strike-through filtering
		HTML()
	_ = html
	_ = warnings
	_ = err
}

func Example_configFile() {
	cfg, err := tables.LoadConfigFile("rulegrid.yaml")
	if err != nil {
		log.Fatal(err)
	}

	count := rulegrid.Must(rulegrid.Open("report.pdf").PageCount())
	pages := rulegrid.MustTables(rulegrid.Open("report.pdf").Config(cfg).PageRange(1, count).Tables())
	fmt.Println(len(pages))
}
