package autoplay

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// BatchOptions controls a batch of self-play games.
type BatchOptions struct {
	WhiteSpec string
	BlackSpec string
	Depth     int
	Threads   int
	Workers   int
	MaxPlies  int
}

// RunBatch plays every suite entry and collects the results. Games run
// concurrently on up to opts.Workers goroutines; a game that fails is
// recorded as aborted and the batch keeps going.
func RunBatch(ctx context.Context, entries []SuiteEntry, opts BatchOptions) ([]GameResult, error) {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	log.Info().
		Int("games", len(entries)).
		Int("workers", opts.Workers).
		Str("white", opts.WhiteSpec).
		Str("black", opts.BlackSpec).
		Msg("batch-start")

	start := time.Now()
	results := make([]GameResult, len(entries))

	g := errgroup.Group{}
	g.SetLimit(opts.Workers)
	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			// Let games already in flight finish before handing the
			// partial results back.
			_ = g.Wait()
			return results[:i], err
		}
		g.Go(func() error {
			results[i] = playEntry(entry, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}

	log.Info().
		Int("games", len(results)).
		Float64("time-elapsed-sec", time.Since(start).Seconds()).
		Msg("batch-done")
	return results, nil
}

func playEntry(entry SuiteEntry, opts BatchOptions) GameResult {
	depth := opts.Depth
	if entry.Depth > 0 {
		depth = entry.Depth
	}
	name := entry.Name
	if name == "" {
		name = entry.FEN
	}

	white, err := NewPlayer(opts.WhiteSpec, depth, opts.Threads)
	if err != nil {
		return GameResult{Name: name, FEN: entry.FEN, Outcome: Aborted, Err: err.Error()}
	}
	black, err := NewPlayer(opts.BlackSpec, depth, opts.Threads)
	if err != nil {
		return GameResult{Name: name, FEN: entry.FEN, Outcome: Aborted, Err: err.Error()}
	}
	runner := NewGameRunner(white, black, opts.MaxPlies)
	return runner.Play(name, entry.FEN)
}

// Summary aggregates a batch of game results.
type Summary struct {
	Games      int
	WhiteWins  int
	BlackWins  int
	Draws      int
	Unfinished int
	Aborted    int
	WhiteMoves int
	BlackMoves int
	TotalNodes uint64
	MeanPlies  float64
	StdevPlies float64
	Results    []GameResult
}

// Summarize computes aggregate statistics over the results of a batch.
func Summarize(results []GameResult) Summary {
	outcomes := lo.CountValuesBy(results, func(r GameResult) Outcome {
		return r.Outcome
	})
	plies := lo.Map(results, func(r GameResult, _ int) float64 {
		return float64(r.Plies)
	})

	s := Summary{
		Games:      len(results),
		WhiteWins:  outcomes[WhiteWin],
		BlackWins:  outcomes[BlackWin],
		Draws:      outcomes[Draw],
		Unfinished: outcomes[Unfinished],
		Aborted:    outcomes[Aborted],
		WhiteMoves: lo.SumBy(results, func(r GameResult) int { return r.WhiteMoves }),
		BlackMoves: lo.SumBy(results, func(r GameResult) int { return r.BlackMoves }),
		TotalNodes: lo.SumBy(results, func(r GameResult) uint64 { return r.Nodes }),
		Results:    results,
	}
	if len(plies) > 0 {
		s.MeanPlies = stat.Mean(plies, nil)
	}
	if len(plies) > 1 {
		s.StdevPlies = stat.StdDev(plies, nil)
	}
	return s
}

// Render writes a human-readable report, including a histogram of game
// lengths when there is anything to plot.
func (s Summary) Render(w io.Writer) error {
	fmt.Fprintf(w, "games: %d\n", s.Games)
	fmt.Fprintf(w, "white wins: %d, black wins: %d, draws: %d\n",
		s.WhiteWins, s.BlackWins, s.Draws)
	if s.Unfinished > 0 {
		fmt.Fprintf(w, "unfinished: %d\n", s.Unfinished)
	}
	if s.Aborted > 0 {
		fmt.Fprintf(w, "aborted: %d\n", s.Aborted)
	}
	fmt.Fprintf(w, "moves: %d white, %d black\n", s.WhiteMoves, s.BlackMoves)
	fmt.Fprintf(w, "nodes searched: %d\n", s.TotalNodes)
	fmt.Fprintf(w, "plies: mean %.1f, stdev %.1f\n", s.MeanPlies, s.StdevPlies)

	plies := lo.FilterMap(s.Results, func(r GameResult, _ int) (float64, bool) {
		return float64(r.Plies), r.Plies > 0
	})
	if len(plies) == 0 {
		return nil
	}
	fmt.Fprintln(w, "game length distribution:")
	h := histogram.Hist(10, plies)
	return histogram.Fprint(w, h, histogram.Linear(40))
}
