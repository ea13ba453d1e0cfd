package shell

import (
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
	luajson "layeh.com/gopher-json"
)

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal("patzer_shell")
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

func pushResult(L *lua.LState, r *Response, err error) int {
	if err != nil {
		log.Err(err).Msg("error-executing-script-command")
		L.Push(lua.LString("ERROR: " + err.Error()))
		return 1
	}
	L.Push(lua.LString(r.message))
	// return number of results pushed to stack.
	return 1
}

func scriptArgs(L *lua.LState) []string {
	lv := strings.TrimSpace(L.ToString(1))
	if lv == "" {
		return nil
	}
	return strings.Split(lv, " ")
}

func Load(L *lua.LState) int {
	sc := getShell(L)
	r, err := sc.load(&shellcmd{cmd: "load", args: scriptArgs(L)})
	return pushResult(L, r, err)
}

func Show(L *lua.LState) int {
	sc := getShell(L)
	r, err := sc.show(&shellcmd{cmd: "show"})
	return pushResult(L, r, err)
}

func Fen(L *lua.LState) int {
	sc := getShell(L)
	r, err := sc.fen(&shellcmd{cmd: "fen"})
	return pushResult(L, r, err)
}

func Moves(L *lua.LState) int {
	sc := getShell(L)
	r, err := sc.moves(&shellcmd{cmd: "moves"})
	return pushResult(L, r, err)
}

func Best(L *lua.LState) int {
	sc := getShell(L)
	r, err := sc.best(&shellcmd{cmd: "best", args: scriptArgs(L)})
	return pushResult(L, r, err)
}

func Move(L *lua.LState) int {
	sc := getShell(L)
	r, err := sc.move(&shellcmd{cmd: "move", args: scriptArgs(L)})
	return pushResult(L, r, err)
}

func Play(L *lua.LState) int {
	sc := getShell(L)
	r, err := sc.play(&shellcmd{cmd: "play", args: scriptArgs(L)})
	return pushResult(L, r, err)
}

func Set(L *lua.LState) int {
	sc := getShell(L)
	r, err := sc.set(&shellcmd{cmd: "set", args: scriptArgs(L)})
	return pushResult(L, r, err)
}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("need arguments for script")
	}

	filepath := cmd.args[0]

	L := lua.NewState()
	defer L.Close()
	luajson.Preload(L)

	lsc := L.NewUserData()
	lsc.Value = sc

	L.SetGlobal("patzer_shell", lsc)
	L.SetGlobal("patzer_load", L.NewFunction(Load))
	L.SetGlobal("patzer_show", L.NewFunction(Show))
	L.SetGlobal("patzer_fen", L.NewFunction(Fen))
	L.SetGlobal("patzer_moves", L.NewFunction(Moves))
	L.SetGlobal("patzer_best", L.NewFunction(Best))
	L.SetGlobal("patzer_move", L.NewFunction(Move))
	L.SetGlobal("patzer_play", L.NewFunction(Play))
	L.SetGlobal("patzer_set", L.NewFunction(Set))

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Msg("script-error")
		return nil, err
	}
	return nil, nil
}
