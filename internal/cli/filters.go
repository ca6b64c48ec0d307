package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/rshade/cvefocus/internal/logging"
	"github.com/rshade/cvefocus/internal/source"
)

// Bounds for the filter flags.
const (
	minYear     = 1999
	maxScore    = 10.0
	maxDaysBack = 36500
)

// filterFlags holds the server-side list filters shared by browse, list and
// serve.
type filterFlags struct {
	id             string
	year           int
	minScore       float64
	modifiedWithin int
}

// register adds the filter flags to fs.
func (f *filterFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.id, "id", "", "only the record with this CVE ID")
	fs.IntVar(&f.year, "year", 0, "only records published in this year")
	fs.Float64Var(&f.minScore, "min-score", 0, "only records with a v3 base score of at least this value")
	fs.IntVar(&f.modifiedWithin, "modified-within", 0, "only records modified within this many days")
}

// query validates the flags and converts them into a source.Query. Only
// flags set on the command line become filters.
func (f *filterFlags) query(cmd *cobra.Command) (source.Query, error) {
	var q source.Query

	q.CVEID = f.id

	if cmd.Flags().Changed("year") {
		if f.year < minYear || f.year > time.Now().Year()+1 {
			return source.Query{}, fmt.Errorf("invalid --year %d", f.year)
		}
		q.Year = f.year
	}

	if cmd.Flags().Changed("min-score") {
		if f.minScore < 0 || f.minScore > maxScore {
			return source.Query{}, fmt.Errorf("invalid --min-score %g: must be between 0 and %g", f.minScore, maxScore)
		}
		score := f.minScore
		q.MinScoreV3 = &score
	}

	if cmd.Flags().Changed("modified-within") {
		if f.modifiedWithin < 1 || f.modifiedWithin > maxDaysBack {
			return source.Query{}, errors.New("invalid --modified-within: must be a positive number of days")
		}
		q.LastModifiedDays = f.modifiedWithin
	}

	logQuery(cmd.Context(), q)
	return q, nil
}

func logQuery(ctx context.Context, q source.Query) {
	if q.IsZero() {
		return
	}
	log := logging.FromContext(ctx)
	log.Debug().Ctx(ctx).
		Str("operation", "apply_filters").
		Str("query", q.Values().Encode()).
		Msg("applying server-side filters")
}
