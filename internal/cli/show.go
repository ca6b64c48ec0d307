package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rshade/cvefocus/internal/cve"
	"github.com/rshade/cvefocus/internal/logging"
	"github.com/rshade/cvefocus/internal/source"
	"github.com/rshade/cvefocus/internal/tui"
	"github.com/rshade/cvefocus/internal/view"
)

// stdinArg makes show read identifiers from standard input.
const stdinArg = "-"

// ErrNoIDs is returned when show is given no identifiers.
var ErrNoIDs = errors.New("no CVE IDs given")

// newShowCmd creates the show command, which prints detail views.
func newShowCmd(a *app) *cobra.Command {
	var (
		output  string
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "show ID [ID...]",
		Short: "Show the detail view of one or more CVE records",
		Long: `Fetches each record and prints its detail view in argument order.

Records are fetched concurrently. Pass "-" to read identifiers from standard
input, one per line. A record that cannot be fetched is reported on stderr
and makes the command exit non-zero; the others are still printed.`,
		Example: `  cvefocus show CVE-2023-0001
  cvefocus show CVE-2023-0001 CVE-2023-0002 --output yaml
  cvefocus list --output ndjson | jq -r .cve_id | cvefocus show -`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runShow(cmd, args, output, noColor)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", string(OutputTable), "output format: table, json, ndjson, or yaml")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable styled output")

	return cmd
}

func (a *app) runShow(cmd *cobra.Command, args []string, output string, noColor bool) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	format, err := parseOutputFormat(output, OutputTable, OutputJSON, OutputNDJSON, OutputYAML)
	if err != nil {
		return err
	}
	ids, err := collectIDs(args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	pres, err := a.newPresentation(0)
	if err != nil {
		return err
	}
	src, err := a.newSource()
	if err != nil {
		return err
	}

	records, errs := fetchRecords(cmd, src, ids)

	details := make([]view.DetailView, 0, len(ids))
	var failed []error
	for i, id := range ids {
		if errs[i] != nil {
			log.Warn().Ctx(ctx).Str("cve_id", id).Err(errs[i]).Msg("failed to fetch CVE record")
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s: %v\n", id, errs[i])
			failed = append(failed, errs[i])
			continue
		}
		details = append(details, pres.renderer.RenderDetail(records[i]))
	}

	if len(details) > 0 {
		mode := tui.DetectOutputMode(false, noColor, false)
		if err = writeDetails(cmd.OutOrStdout(), format, details, mode); err != nil {
			return err
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d records could not be shown: %w", len(failed), len(ids), errors.Join(failed...))
	}
	return nil
}

// fetchRecords fetches every id concurrently, bounded by the CPU count.
// Results and errors are indexed like ids.
func fetchRecords(cmd *cobra.Command, src source.Source, ids []string) ([]cve.Record, []error) {
	ctx := cmd.Context()
	records := make([]cve.Record, len(ids))
	errs := make([]error, len(ids))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, id := range ids {
		g.Go(func() error {
			records[i], errs[i] = src.FetchOne(ctx, id)
			return nil
		})
	}
	_ = g.Wait()

	return records, errs
}

// collectIDs expands "-" into the identifiers read from r. Blank lines and
// lines starting with "#" are skipped.
func collectIDs(args []string, r io.Reader) ([]string, error) {
	var ids []string
	readStdin := false
	for _, arg := range args {
		if arg != stdinArg {
			ids = append(ids, strings.TrimSpace(arg))
			continue
		}
		if readStdin {
			continue
		}
		readStdin = true

		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			ids = append(ids, line)
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading CVE IDs from stdin: %w", err)
		}
	}
	if len(ids) == 0 {
		return nil, ErrNoIDs
	}
	return ids, nil
}
