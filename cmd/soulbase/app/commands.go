package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/xoundbyte/soulbase/internal/mutate"
)

// NewCompileCommand creates the compile command.
func (a *App) NewCompileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compile",
		Short: "Compile record files into the published dataset",
		Long: `Compile reads every per-record file, validates it against the schema
contract, and writes the aggregate artifact. Tombstoned records stay on
disk but are excluded from the artifact. The write is all-or-nothing:
any validation error fails the run and leaves the previous artifact
untouched.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := a.Registry()
			if err != nil {
				return err
			}
			report, err := reg.Compile()
			if err != nil {
				return err
			}
			cmd.Printf("compiled %d record(s), %d tombstone(s) excluded\n",
				report.Compiled, report.Tombstones)
			return nil
		},
	}
}

// NewValidateCommand creates the validate command.
func (a *App) NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate all record files without writing the artifact",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := a.Registry()
			if err != nil {
				return err
			}
			report := reg.Validate()
			if !report.OK() {
				return report.Err()
			}
			cmd.Printf("%d record(s) valid\n", report.Total)
			return nil
		},
	}
}

// NewAddCommand creates the add command.
func (a *App) NewAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add [text-file...]",
		Short: "Add a record from a change proposal",
		Long: `Add extracts a new-record payload from the given proposal texts and
writes a new per-record file. Texts are scanned in argument order and the
first parsable fenced json block wins; pass the newest follow-up first
and the original proposal body last. With no arguments the proposal text
is read from stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			texts, err := readTexts(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			reg, err := a.Registry()
			if err != nil {
				return err
			}
			res, err := reg.Add(cmd.Context(), texts...)
			if err != nil {
				return err
			}
			return a.emitOutputs(cmd, res)
		},
	}
}

// NewUpdateCommand creates the update command.
func (a *App) NewUpdateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update [text-file...]",
		Short: "Update a record from a change proposal",
		Long: `Update extracts a partial patch from the given proposal texts, diffs it
against the existing record over the updatable field set, and applies
the changed fields. An empty changed-field set is a successful no-op.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			texts, err := readTexts(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			reg, err := a.Registry()
			if err != nil {
				return err
			}
			res, err := reg.Update(cmd.Context(), texts...)
			if err != nil {
				return err
			}
			if res.NoOp {
				cmd.Println("no changes detected")
				return writeOutputs([]mutate.Output{{Key: "changed", Value: "false"}})
			}

			patch, err := json.Marshal(res.Changeset.Fields())
			if err != nil {
				return err
			}
			cmd.Println(res.Changeset.String())

			res.Outputs = append(res.Outputs,
				mutate.Output{Key: "changed", Value: "true"},
				mutate.Output{Key: "patch", Value: string(patch)},
			)
			return a.emitOutputs(cmd, res)
		},
	}
}

// NewRemoveCommand creates the remove command.
func (a *App) NewRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove [text-file...]",
		Short: "Remove a record from a change proposal",
		Long: `Remove extracts an {id, reason?} payload from the given proposal texts
and deletes the per-record file. This is a hard delete; use a tombstone
(removed: true) to keep the identifier reserved instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			texts, err := readTexts(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			reg, err := a.Registry()
			if err != nil {
				return err
			}
			res, err := reg.Remove(cmd.Context(), texts...)
			if err != nil {
				return err
			}
			return a.emitOutputs(cmd, res)
		},
	}
}

// NewMigrateCommand creates the migrate command.
func (a *App) NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Rename legacy field keys across all record files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := a.Registry()
			if err != nil {
				return err
			}
			report, err := reg.Migrate()
			if err != nil {
				return err
			}
			cmd.Printf("migrated %d file(s), %d already canonical\n",
				report.Updated, report.Skipped)
			return nil
		},
	}
}

// NewBackfillIssuesCommand creates the backfill-issues command.
func (a *App) NewBackfillIssuesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "backfill-issues",
		Short: "Backfill record issue URLs from proposal threads",
		Long: `Backfill-issues walks every proposal thread in the configured
repository, matches threads to records by the platform identifier in the
thread title, and writes the newest matching thread URL into each
record's issue field.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := a.Registry()
			if err != nil {
				return err
			}
			report, err := reg.BackfillIssues(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Printf("updated %d, skipped %d, unmatched %d\n",
				report.Updated, report.Skipped, report.Unmatched)
			return nil
		},
	}
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("soulbase %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}

// emitOutputs prints a mutation's outputs for the user and hands them to
// the orchestrator boundary.
func (a *App) emitOutputs(cmd *cobra.Command, res *mutate.Result) error {
	for _, o := range res.Outputs {
		cmd.Printf("%s=%s\n", o.Key, o.Value)
	}
	return writeOutputs(res.Outputs)
}

// readTexts loads candidate proposal texts from file arguments, or from
// stdin when no arguments are given.
func readTexts(stdin io.Reader, args []string) ([]string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, err
		}
		return []string{string(data)}, nil
	}

	texts := make([]string, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading proposal text: %w", err)
		}
		texts = append(texts, string(data))
	}
	return texts, nil
}
