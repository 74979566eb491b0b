package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"github.com/vibescript/vibescript/pkg/bridge"
	"github.com/vibescript/vibescript/pkg/capability"
	"github.com/vibescript/vibescript/pkg/engine"
	"github.com/vibescript/vibescript/pkg/guard"
	"github.com/vibescript/vibescript/pkg/value"
)

const historyFileName = ".vibescript_history"

func newReplCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive vibescript session",
		RunE: func(cmd *cobra.Command, args []string) error {
			caps, limits, err := resolveExecution()
			if err != nil {
				return err
			}
			return runREPL(caps, limits)
		},
	}
}

// sessionState backs one REPL session's State.get/set/bind calls with a
// simple dotted-path store, guarded since liner's input loop and any
// in-flight async bindings could in principle touch it concurrently.
type sessionState struct {
	mu     sync.Mutex
	values map[string]value.Value
}

func newSessionState() *sessionState { return &sessionState{values: make(map[string]value.Value)} }

func (s *sessionState) get(path string) value.Value {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[path]
}

func (s *sessionState) set(path string, v value.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[path] = v
}

// runREPL threads one ScriptContext across every evaluated line, so
// State.get/set/bind calls see earlier lines' writes, the way a real
// session's host state behaves. Each line is compiled independently: the
// REPL does not retain a cross-line local-variable symbol table (see
// DESIGN.md).
func runREPL(caps capability.Set, limits guard.ExecutionLimits) error {
	fmt.Printf("vibescript repl v%s\n", version)
	fmt.Println("Type :quit or :exit to leave, :help for help")

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyPath := historyFilePath()
	if f, err := os.Open(historyPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	state := newSessionState()
	scriptContext := bridge.ScriptContext{
		StateGet:  state.get,
		StateSet:  state.set,
		StateBind: state.get,
	}
	runtime := bridge.NewDefaultRuntime()

	for {
		input, err := line.Prompt("vibescript> ")
		if err == liner.ErrPromptAborted || err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		trimmed := strings.TrimSpace(input)
		switch trimmed {
		case "":
			continue
		case ":quit", ":exit":
			saveHistory(line, historyPath)
			fmt.Println("goodbye")
			return nil
		case ":help":
			printREPLHelp()
			continue
		}
		line.AppendHistory(input)
		evalREPLLine(trimmed, caps, limits, scriptContext, runtime)
	}
	saveHistory(line, historyPath)
	return nil
}

func evalREPLLine(src string, caps capability.Set, limits guard.ExecutionLimits, sc bridge.ScriptContext, runtime *bridge.Runtime) {
	result, err := engine.CompileAndRun(engine.Request{
		Source:        src,
		FileName:      "<repl>",
		Capabilities:  caps,
		Limits:        limits,
		ScriptContext: &sc,
		BridgeRuntime: runtime,
	})
	for _, out := range result.Output {
		fmt.Println(out)
	}
	if err != nil {
		fmt.Println(color.RedString(err.Error()))
		return
	}
	if result.Value.Kind != value.KindNone {
		fmt.Println(color.CyanString("=> " + value.Inspect(result.Value)))
	}
}

func historyFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return historyFileName
	}
	return home + string(os.PathSeparator) + historyFileName
}

func saveHistory(line *liner.State, path string) {
	f, err := os.Create(path)
	if err != nil {
		return
	}
	defer f.Close()
	line.WriteHistory(f)
}

func printREPLHelp() {
	fmt.Println("commands:")
	fmt.Println("  :help   show this help")
	fmt.Println("  :quit   leave the session")
	fmt.Println("  :exit   leave the session")
}
