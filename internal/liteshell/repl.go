package liteshell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/nsqlite/litewrap/internal/liteshell/config"
	"github.com/nsqlite/litewrap/internal/log"
	"github.com/nsqlite/litewrap/internal/sqlite"
	"github.com/nsqlite/litewrap/internal/util/sysutil"
	"github.com/peterh/liner"
)

type Repl struct {
	conf        config.Config
	conn        *sqlite.Conn
	logger      log.Logger
	ctx         context.Context
	stop        context.CancelFunc
	out         io.Writer
	mode        config.Mode
	historyPath string
}

func NewRepl(
	ctx context.Context,
	stop context.CancelFunc,
	conf config.Config,
	conn *sqlite.Conn,
	logger log.Logger,
	out io.Writer,
) (*Repl, error) {
	mode, err := config.ParseMode(conf.Mode)
	if err != nil {
		return nil, err
	}

	return &Repl{
		conf:        conf,
		conn:        conn,
		logger:      logger,
		ctx:         ctx,
		stop:        stop,
		out:         out,
		mode:        mode,
		historyPath: filepath.Join(os.TempDir(), ".liteshell_history"),
	}, nil
}

func (r *Repl) Start() error {
	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "Connected to %s running SQLite %s\n", r.conn.Path(), sqlite.Version())
	fmt.Fprintln(r.out, `Enter ".help" for usage hints and ".quit" or "CTRL+C" to quit`)
	fmt.Fprintln(r.out)

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(cmdHelpCompleter)
	r.readHistory(line)

	for {
		select {
		case <-r.ctx.Done():
			return nil
		default:
			input := r.prompt(line)
			if input == "" {
				continue
			}

			if quit := r.handle(input); quit {
				r.Shutdown()
				return nil
			}
		}
	}
}

// Shutdown stops the REPL.
func (r *Repl) Shutdown() {
	r.stop()
}

// handle runs one line of input. It returns true when the user asked to
// quit.
func (r *Repl) handle(input string) bool {
	command, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch command {
	case "exit", ".exit", ".quit":
		return true
	case "clear", ".clear":
		sysutil.ClearTerminal(r.out, runtime.GOOS)
	case "help", ".help":
		cmdHelp(r)
	case ".version":
		cmdVersion(r)
	case ".tables":
		cmdQuery(r, "SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name")
	case ".indexes":
		cmdQuery(r, "SELECT name, tbl_name FROM sqlite_master WHERE type = 'index' ORDER BY tbl_name, name")
	case ".schema":
		cmdQuery(r, "SELECT sql FROM sqlite_master WHERE sql IS NOT NULL ORDER BY type DESC, name")
	case ".columns":
		cmdColumns(r, arg)
	case ".count":
		cmdCount(r, arg)
	case ".exists":
		cmdExists(r, arg)
	case ".mode":
		cmdMode(r, arg)
	default:
		if strings.HasPrefix(input, ".") {
			fmt.Fprintln(r.out, "Unknown command, type .help for usage hints")
			return false
		}
		cmdQuery(r, input)
	}

	return false
}

// printError writes err in a readable form.
func (r *Repl) printError(err error) {
	r.logger.DebugNs(log.NsShell, "command failed", log.KV{"error": err.Error()})

	var execErr *sqlite.ExecError
	if errors.As(err, &execErr) {
		fmt.Fprintf(r.out, "Error: %s\n", execErr.Message)
		return
	}
	fmt.Fprintf(r.out, "Error: %s\n", err)
}

func (r *Repl) readHistory(line *liner.State) {
	file, err := os.Open(r.historyPath)
	if err != nil {
		fmt.Fprintln(r.out, "No previous history.")
		return
	}
	defer file.Close()
	_, _ = line.ReadHistory(file)
}

// prompt shows the prompt and reads the input from the user.
func (r *Repl) prompt(line *liner.State) string {
	label := "liteshell> "
	if r.conn.InTransaction() {
		label = "liteshell(tx)> "
	}

	input, err := line.Prompt(label)
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			fmt.Fprintln(r.out, "CTRL+C pressed, exiting...")
			return ".quit"
		}
		return ""
	}

	line.AppendHistory(input)
	if file, err := os.Create(r.historyPath); err == nil {
		_, _ = line.WriteHistory(file)
		file.Close()
	}

	return strings.TrimSpace(input)
}
