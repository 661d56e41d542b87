package commands

import (
	"context"
	"fmt"

	ferrors "git.home.luguber.info/inful/dokumentor/internal/foundation/errors"
	"git.home.luguber.info/inful/dokumentor/internal/logfields"
)

// MigrateCmd implements the 'migrate' command.
type MigrateCmd struct {
	Tool        string `short:"t" help:"Tool whose markers are rewritten (actdocs, action-docs, auto-doc, github-action-readme-generator). Detected when omitted."`
	Destination string `short:"d" help:"Document to migrate" default:"README.md" type:"path"`
	DryRun      bool   `name:"dry-run" help:"Print a unified diff instead of writing"`
}

func (m *MigrateCmd) Run(global *Global, root *CLI) error {
	rn, _, err := newRunner(global, root, nil)
	if err != nil {
		return err
	}

	tool := m.Tool
	if tool == "" {
		found, err := rn.DetectTools(m.Destination)
		if err != nil {
			return err
		}
		switch len(found) {
		case 0:
			_, _ = fmt.Fprintf(global.out(), "No foreign markers found in %s\n", m.Destination)
			return nil
		case 1:
			tool = found[0]
			global.logger().Info("Detected documentation tool", logfields.Tool(tool), logfields.Destination(m.Destination))
		default:
			return ferrors.ValidationError("markers of several tools found, choose one with --tool").
				WithContext("destination", m.Destination).
				WithContext("tools", found).
				Build()
		}
	}

	res, err := rn.Migrate(context.Background(), tool, m.Destination, m.DryRun)
	if err != nil {
		return err
	}
	report(global.out(), res, m.DryRun)
	return nil
}
