package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	. "github.com/katsu-lua/lua54/api"
	"github.com/katsu-lua/lua54/logger"
	"github.com/katsu-lua/lua54/state"
	"github.com/katsu-lua/lua54/term"
)

const version = "5.4.6"

type stringList []string

func (s *stringList) String() string     { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error { *s = append(*s, v); return nil }

func main() {
	var execs, requires stringList
	var interactive, verbose bool

	var dumpAst bool
	flag.Var(&execs, "e", "execute string 'stat'")
	flag.Var(&requires, "l", "require library 'name' before running file")
	flag.BoolVar(&interactive, "i", false, "attach the call-stack/locals debugger while running")
	flag.BoolVar(&verbose, "v", false, "show version and enable verbose logging")
	flag.BoolVar(&dumpAst, "ast", false, "dump the parsed AST of the given file to <file>.ast.json and exit")
	flag.Parse()

	logger.Debug = verbose
	if verbose {
		fmt.Println("lua54 " + version)
	}

	if dumpAst {
		if path := flag.Arg(0); path != "" {
			WriteAst(path)
		}
		return
	}

	ls := state.New()
	ls.OpenLibs()

	for _, name := range requires {
		ls.GetGlobal("require")
		ls.PushString(name)
		ls.Call(1, 0)
	}

	var dbg *term.Debugger
	if interactive {
		dbg = term.NewDebugger()
		dbg.Run()
		dbg.Attach(ls)
		logger.I("debugger attached")
	}

	for _, stat := range execs {
		runChunk(ls, stat, "=(command line)")
	}

	if path := flag.Arg(0); path != "" {
		runFile(ls, path)
	} else {
		repl(ls)
	}

	if dbg != nil {
		dbg.Stop()
	}
}

func runFile(ls State, path string) {
	logger.I("running %s", path)
	if !ls.DoFile(path) {
		logger.E("%s failed: %s", path, ls.ToString2(-1))
		fmt.Fprintln(os.Stderr, ls.ToString2(-1))
		ls.Pop(1)
		os.Exit(1)
	}
}

func runChunk(ls State, chunk, source string) {
	if !ls.DoString(chunk, source) {
		logger.E("%s failed: %s", source, ls.ToString2(-1))
		fmt.Fprintln(os.Stderr, ls.ToString2(-1))
		ls.Pop(1)
	}
}

// repl drives an interactive session, requesting more input (like the
// reference lua.c) whenever a chunk ends mid-statement.
func repl(ls State) {
	rd, err := term.NewReader("> ")
	if err != nil {
		replPlain(ls)
		return
	}
	defer rd.Close()

	fmt.Printf("lua54 %s -- Ctrl-D to exit\n", version)

	for {
		buf, err := rd.ReadLine()
		if err != nil {
			fmt.Println()
			return
		}
		if buf == "" {
			continue
		}

		for {
			status := ls.LoadString(buf, "=stdin")
			if status == ErrSyntax && incomplete(ls.ToString2(-1)) {
				ls.Pop(1)
				rd.SetPrompt(">> ")
				more, err := rd.ReadLine()
				rd.SetPrompt("> ")
				if err != nil {
					break
				}
				buf += "\n" + more
				continue
			}

			if status != OK {
				term.Red(ls.ToString2(-1))
				ls.Pop(1)
				break
			}
			if ls.PCall(0, MultRet, 0) != OK {
				term.Red(ls.ToString2(-1))
				ls.Pop(1)
			} else {
				printResults(ls)
			}
			break
		}
	}
}

// replPlain is the non-tty fallback used when stdin isn't a terminal (piped
// input, redirected scripts), since term.MakeRaw requires a real tty.
func replPlain(ls State) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		line := scanner.Text()
		if line != "" {
			runChunk(ls, line, "=stdin")
		}
		fmt.Print("> ")
	}
	fmt.Println()
}

func incomplete(msg string) bool {
	return strings.HasSuffix(msg, "<eof>")
}

func printResults(ls State) {
	n := ls.GetTop()
	for i := 1; i <= n; i++ {
		fmt.Println(ls.ToString2(i))
	}
	ls.Pop(n)
}
