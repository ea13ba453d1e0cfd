// Package shell is an interactive console for poking at positions:
// load a FEN, ask the solver for a move, play games out, run batches.
package shell

import (
	"errors"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/castlegate/patzer/config"
	"github.com/castlegate/patzer/eval"
	"github.com/castlegate/patzer/rules"
	"github.com/castlegate/patzer/search"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("options need to come in pairs")
	errExitShell         = errors.New("sending quit signal")
)

type ShellController struct {
	l *readline.Instance

	cfg    *config.Config
	game   *rules.Game
	solver *search.Solver
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func NewShellController(cfg *config.Config) *ShellController {
	sc := &ShellController{cfg: cfg, game: rules.NewGameFromStart()}

	sc.solver = new(search.Solver)
	if err := sc.solver.Init(eval.Material{}); err != nil {
		panic(err)
	}
	sc.solver.SetThreads(cfg.GetInt("threads"))

	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mpatzer>\033[0m ",
		HistoryFile:     "/tmp/patzer_readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
		AutoComplete:        NewShellCompleter(sc),
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	return sc
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.l.Stderr())
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

type shellcmd struct {
	cmd     string
	args    []string
	options map[string]string
}

func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := map[string]string{}
	idx := 1
	for idx < len(fields) {
		f := fields[idx]
		// a bare "-" is data (FENs use it), not an option
		if strings.HasPrefix(f, "-") && len(f) > 1 {
			if idx+1 >= len(fields) {
				return nil, errWrongOptionSyntax
			}
			options[strings.TrimPrefix(f, "-")] = fields[idx+1]
			idx += 2
			continue
		}
		args = append(args, f)
		idx++
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

func (sc *ShellController) execute(line string) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "new":
		return sc.newGame(cmd)
	case "load":
		return sc.load(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "fen":
		return sc.fen(cmd)
	case "moves":
		return sc.moves(cmd)
	case "move", "m":
		return sc.move(cmd)
	case "undo", "u":
		return sc.undo(cmd)
	case "best":
		return sc.best(cmd)
	case "play":
		return sc.play(cmd)
	case "auto":
		return sc.auto(cmd)
	case "batch":
		return sc.batch(cmd)
	case "set":
		return sc.set(cmd)
	case "script":
		return sc.script(cmd)
	case "help":
		return usage()
	case "exit", "quit", "bye":
		return nil, errExitShell
	default:
		return nil, errors.New("command " + cmd.cmd + " not found")
	}
}

// Execute runs a single command line and prints its result, for
// one-shot invocations from the command line.
func (sc *ShellController) Execute(line string) {
	resp, err := sc.execute(strings.TrimSpace(line))
	if err != nil && err != errExitShell {
		sc.showError(err)
		return
	}
	if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
}

// Cleanup closes the terminal.
func (sc *ShellController) Cleanup() {
	sc.l.Close()
}

func (sc *ShellController) Loop(sig chan os.Signal) {

	defer sc.l.Close()

	for {

		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		resp, err := sc.execute(line)
		if err == errExitShell {
			sig <- syscall.SIGINT
			break
		} else if err != nil {
			sc.showError(err)
			continue
		}
		if resp != nil && resp.message != "" {
			sc.showMessage(resp.message)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}
