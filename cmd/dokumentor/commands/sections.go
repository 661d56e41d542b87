package commands

import (
	"fmt"
	"text/tabwriter"

	"git.home.luguber.info/inful/dokumentor/internal/section"
)

// SectionsCmd lists the section identifiers accepted by --include,
// --exclude and the sections configuration.
type SectionsCmd struct{}

func (s *SectionsCmd) Run(global *Global, _ *CLI) error {
	tw := tabwriter.NewWriter(global.out(), 0, 4, 2, ' ', 0)
	for _, id := range section.All() {
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", id, id.Title())
	}
	return tw.Flush()
}
