package rulegrid

import (
	"log/slog"

	"github.com/tsawler/rulegrid/tables"
)

// ExtractOptions holds configuration for table extraction.
type ExtractOptions struct {
	// Page selection (1-indexed); nil means all pages
	pages []int

	// Reconstruction settings
	config tables.Config

	// When false, each page's rotation comes from its Rotate entry
	forceRotation bool

	logger *slog.Logger
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		pages:  nil,
		config: tables.DefaultConfig(),
	}
}

// clone creates a deep copy of ExtractOptions.
func (o ExtractOptions) clone() ExtractOptions {
	newOpts := ExtractOptions{
		config:        o.config,
		forceRotation: o.forceRotation,
		logger:        o.logger,
	}

	if o.pages != nil {
		newOpts.pages = make([]int, len(o.pages))
		copy(newOpts.pages, o.pages)
	}

	return newOpts
}
