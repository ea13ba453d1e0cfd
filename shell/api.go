package shell

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/castlegate/patzer/autoplay"
	"github.com/castlegate/patzer/rules"
)

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

func (sc *ShellController) status() string {
	var sb strings.Builder
	sb.WriteString(sc.game.Draw())
	fmt.Fprintf(&sb, "%s to move", sc.game.Turn())
	switch {
	case sc.game.Checkmate():
		sb.WriteString(" (checkmate)")
	case sc.game.GameOver():
		sb.WriteString(" (game over)")
	}
	return sb.String()
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	sc.game = rules.NewGameFromStart()
	return msg(sc.status()), nil
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("usage: load <fen>")
	}
	// A bare FEN splits into six fields; put it back together.
	g, err := rules.NewGame(strings.Join(cmd.args, " "))
	if err != nil {
		return nil, err
	}
	sc.game = g
	return msg(sc.status()), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	return msg(sc.status()), nil
}

func (sc *ShellController) fen(cmd *shellcmd) (*Response, error) {
	return msg(sc.game.FEN()), nil
}

func (sc *ShellController) moves(cmd *shellcmd) (*Response, error) {
	legal := sc.game.LegalMoves()
	if len(legal) == 0 {
		return msg("no legal moves"), nil
	}
	ucis := make([]string, len(legal))
	for i, m := range legal {
		ucis[i] = m.String()
	}
	sort.Strings(ucis)
	return msg(strings.Join(ucis, " ")), nil
}

func (sc *ShellController) move(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("usage: move <uci>, e.g. move e2e4")
	}
	m, err := rules.FindMove(sc.game, cmd.args[0])
	if err != nil {
		return nil, err
	}
	if err := sc.game.PushMove(m); err != nil {
		return nil, err
	}
	return msg(sc.status()), nil
}

func (sc *ShellController) undo(cmd *shellcmd) (*Response, error) {
	if err := sc.game.PopMove(); err != nil {
		return nil, err
	}
	return msg(sc.status()), nil
}

func (sc *ShellController) searchDepth(cmd *shellcmd) (int, error) {
	if len(cmd.args) > 0 {
		return strconv.Atoi(cmd.args[0])
	}
	return sc.cfg.GetInt("depth"), nil
}

func (sc *ShellController) best(cmd *shellcmd) (*Response, error) {
	depth, err := sc.searchDepth(cmd)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	score, m, err := sc.solver.FindBestMove(sc.game, depth)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start).Seconds()
	if m == nil {
		if sc.game.Checkmate() {
			return msg(fmt.Sprintf("%s is checkmated (score %v)",
				sc.game.Turn(), score)), nil
		}
		return msg(fmt.Sprintf("no legal moves (score %.2f)", score)), nil
	}
	return msg(fmt.Sprintf("best move %s, score %.2f (%d nodes in %.3fs)",
		m, score, sc.solver.Nodes(), elapsed)), nil
}

func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	depth, err := sc.searchDepth(cmd)
	if err != nil {
		return nil, err
	}
	_, m, err := sc.solver.FindBestMove(sc.game, depth)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return msg("nothing to play, the game is over"), nil
	}
	if err := sc.game.PushMove(m); err != nil {
		return nil, err
	}
	return msg(sc.status()), nil
}

func (sc *ShellController) auto(cmd *shellcmd) (*Response, error) {
	depth, err := sc.searchDepth(cmd)
	if err != nil {
		return nil, err
	}
	whiteSpec := sc.cfg.GetString("white-player")
	blackSpec := sc.cfg.GetString("black-player")
	if w, ok := cmd.options["white"]; ok {
		whiteSpec = w
	}
	if b, ok := cmd.options["black"]; ok {
		blackSpec = b
	}
	maxPlies := sc.cfg.GetInt("max-plies")
	if p, ok := cmd.options["plies"]; ok {
		maxPlies, err = strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
	}

	threads := sc.cfg.GetInt("threads")
	white, err := autoplay.NewPlayer(whiteSpec, depth, threads)
	if err != nil {
		return nil, err
	}
	black, err := autoplay.NewPlayer(blackSpec, depth, threads)
	if err != nil {
		return nil, err
	}

	runner := autoplay.NewGameRunner(white, black, maxPlies)
	res := runner.Play("shell-auto", sc.game.FEN())
	if res.Err != "" {
		return nil, errors.New(res.Err)
	}
	g, err := rules.NewGame(res.FinalFEN)
	if err != nil {
		return nil, err
	}
	sc.game = g
	return msg(fmt.Sprintf("%s after %d plies (%d white / %d black moves, %d nodes)\n%s",
		res.Outcome, res.Plies, res.WhiteMoves, res.BlackMoves, res.Nodes,
		sc.status())), nil
}

func (sc *ShellController) batch(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("usage: batch <suite-file>")
	}
	entries, err := autoplay.LoadSuite(cmd.args[0])
	if err != nil {
		return nil, err
	}

	opts := autoplay.BatchOptions{
		WhiteSpec: sc.cfg.GetString("white-player"),
		BlackSpec: sc.cfg.GetString("black-player"),
		Depth:     sc.cfg.GetInt("depth"),
		Threads:   sc.cfg.GetInt("threads"),
		Workers:   sc.cfg.GetInt("batch-workers"),
		MaxPlies:  sc.cfg.GetInt("max-plies"),
	}
	if w, ok := cmd.options["white"]; ok {
		opts.WhiteSpec = w
	}
	if b, ok := cmd.options["black"]; ok {
		opts.BlackSpec = b
	}
	if d, ok := cmd.options["depth"]; ok {
		opts.Depth, err = strconv.Atoi(d)
		if err != nil {
			return nil, err
		}
	}

	results, err := autoplay.RunBatch(context.Background(), entries, opts)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	if err := autoplay.Summarize(results).Render(&sb); err != nil {
		return nil, err
	}

	dbPath := sc.cfg.GetString("results-db")
	if p, ok := cmd.options["save"]; ok {
		dbPath = p
	}
	if dbPath != "" {
		if err := autoplay.SaveResults(dbPath, results); err != nil {
			return nil, err
		}
		fmt.Fprintf(&sb, "results saved to %s\n", dbPath)
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	settings := sc.cfg.AllSettings()
	if len(cmd.args) == 0 {
		keys := make([]string, 0, len(settings))
		for k := range settings {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var sb strings.Builder
		for _, k := range keys {
			fmt.Fprintf(&sb, "%s: %v\n", k, settings[k])
		}
		return msg(sb.String()), nil
	}
	key := cmd.args[0]
	if _, ok := settings[key]; !ok {
		return nil, errors.New("no such option: " + key)
	}
	if len(cmd.args) == 1 {
		return msg(fmt.Sprintf("%v", settings[key])), nil
	}
	sc.cfg.Set(key, cmd.args[1])
	if key == "threads" {
		sc.solver.SetThreads(sc.cfg.GetInt("threads"))
	}
	return msg("set " + key + " to " + cmd.args[1]), nil
}
