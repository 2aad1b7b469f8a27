// Package uci speaks the Universal Chess Interface protocol on top of the
// engine.
package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-logr/logr"

	"github.com/hailam/bitchess/internal/bench"
	"github.com/hailam/bitchess/internal/board"
	"github.com/hailam/bitchess/internal/engine"
	"github.com/hailam/bitchess/internal/storage"
)

const (
	engineName   = "bitchess"
	engineAuthor = "the bitchess authors"
)

// SettingsSaver persists option changes made with setoption.
type SettingsSaver interface {
	SaveSettings(storage.Settings) error
}

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	engine   *engine.Engine
	board    *board.Board
	settings storage.Settings
	store    SettingsSaver
	log      logr.Logger

	// debug is the session-only "debug on" mode: extra info strings.
	debug bool

	in    io.Reader
	out   io.Writer
	outMu sync.Mutex

	// Search state
	searching  bool
	infinite   bool
	searchDone chan struct{}
	cancel     context.CancelFunc
}

// Option configures a UCI handler.
type Option func(*UCI)

// WithIO replaces standard input and output.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(u *UCI) { u.in, u.out = in, out }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l logr.Logger) Option {
	return func(u *UCI) { u.log = l }
}

// WithStore persists setoption changes.
func WithStore(s SettingsSaver) Option {
	return func(u *UCI) { u.store = s }
}

// New creates a UCI protocol handler. settings are the option values
// reported by "uci"; the engine is expected to be configured with them.
func New(eng *engine.Engine, settings storage.Settings, opts ...Option) *UCI {
	u := &UCI{
		engine:   eng,
		board:    board.NewBoard(),
		settings: settings,
		log:      logr.Discard(),
		in:       os.Stdin,
		out:      os.Stdout,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Run reads commands until "quit" or end of input. A running search is
// finished, or stopped when it is infinite, before Run returns.
func (u *UCI) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(u.in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		u.log.V(2).Info("command", "line", line)

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			u.println("readyok")
		case "debug":
			u.setDebugMode(len(args) > 0 && args[0] == "on")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(ctx, args)
		case "stop":
			u.handleStop()
		case "quit":
			u.handleStop()
			return nil
		case "setoption":
			u.handleSetOption(args)
		// Debug commands
		case "d":
			u.print(u.board.Render(u.settings.Color))
		case "eval":
			u.handleEval()
		case "perft":
			u.handlePerft(ctx, args)
		default:
			u.printf("info string unknown command: %s\n", cmd)
		}
	}

	if u.infinite {
		u.handleStop()
	}
	u.waitSearch()
	return scanner.Err()
}

func (u *UCI) print(s string) {
	u.outMu.Lock()
	defer u.outMu.Unlock()
	io.WriteString(u.out, s)
}

func (u *UCI) println(s string) { u.print(s + "\n") }

func (u *UCI) printf(format string, args ...any) { u.print(fmt.Sprintf(format, args...)) }

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	u.printf("id name %s\n", engineName)
	u.printf("id author %s\n", engineAuthor)
	u.println("")
	u.printf("option name Hash type spin default %d min 1 max 4096\n", u.settings.HashMB)
	u.println("option name Clear Hash type button")
	u.printf("option name Debug type check default %t\n", u.settings.Debug)
	u.printf("option name Color type check default %t\n", u.settings.Color)
	u.println("uciok")
}

// handleNewGame resets the engine for a new game.
func (u *UCI) handleNewGame() {
	u.handleStop()
	u.engine.Clear()
	u.board = board.NewBoard()
}

// handlePosition sets up a position. Formats:
//   - position startpos [moves e2e4 e7e5 ...]
//   - position fen <fen> [moves ...]
//
// An illegal move ends move application at the move before it.
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}
	u.handleStop()

	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}

	var b *board.Board
	switch args[0] {
	case "startpos":
		b = board.NewBoard()
	case "fen":
		var err error
		b, err = board.ParseFEN(strings.Join(args[1:movesAt], " "))
		if err != nil {
			u.printf("info string %v\n", err)
			return
		}
	default:
		u.printf("info string unknown position type %q\n", args[0])
		return
	}

	if movesAt < len(args) {
		for _, text := range args[movesAt+1:] {
			m := b.ParseMove(text)
			if m == board.NoMove {
				u.printf("info string illegal move %s in %s\n", text, b.FEN())
				break
			}
			b.ApplyMove(m)
		}
	}
	u.board = b

	if u.debug || board.DebugChecks {
		if err := b.Validate(); err != nil {
			u.printf("info string position invalid: %v\n", err)
		}
	}
}

// parseGoOptions turns "go" arguments into search limits. perft is
// non-zero for "go perft N".
func parseGoOptions(args []string) (limits engine.Limits, perft int) {
	next := func(i int) (int, bool) {
		if i+1 >= len(args) {
			return 0, false
		}
		n, err := strconv.Atoi(args[i+1])
		return n, err == nil
	}
	ms := func(n int) time.Duration { return time.Duration(n) * time.Millisecond }

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "infinite":
			limits.Infinite = true
			continue
		case "depth", "nodes", "movetime", "wtime", "btime", "winc", "binc", "movestogo", "perft":
		default:
			continue
		}
		n, ok := next(i)
		if !ok {
			continue
		}
		switch args[i] {
		case "depth":
			limits.Depth = n
		case "nodes":
			limits.Nodes = uint64(max(n, 0))
		case "movetime":
			limits.MoveTime = ms(n)
		case "wtime":
			limits.Time[board.White] = ms(n)
		case "btime":
			limits.Time[board.Black] = ms(n)
		case "winc":
			limits.Inc[board.White] = ms(n)
		case "binc":
			limits.Inc[board.Black] = ms(n)
		case "movestogo":
			limits.MovesToGo = n
		case "perft":
			perft = n
		}
		i++
	}
	return limits, perft
}

// handleGo starts a search in the background. Its bestmove is printed when
// it ends.
func (u *UCI) handleGo(ctx context.Context, args []string) {
	limits, perft := parseGoOptions(args)
	if perft > 0 {
		u.handlePerft(ctx, []string{strconv.Itoa(perft)})
		return
	}
	u.handleStop()

	u.engine.OnInfo = u.sendInfo

	b := u.board.Clone()
	debug := u.debug
	u.background(ctx, limits.Infinite, func(ctx context.Context) {
		res := u.engine.Search(ctx, b, limits)
		u.log.V(1).Info("search done", "move", res.Move.String(), "depth", res.Depth,
			"nodes", humanize.Comma(int64(res.Nodes)))
		if debug {
			u.printf("info string search done depth %d nodes %s stopped %t\n",
				res.Depth, humanize.Comma(int64(res.Nodes)), res.Stopped)
		}
		u.printf("bestmove %s\n", res.Move)
	})
}

// background runs job on its own goroutine as the current search. stop
// cancels job's context and waits for it to return.
func (u *UCI) background(ctx context.Context, infinite bool, job func(context.Context)) {
	ctx, cancel := context.WithCancel(ctx)
	u.searching = true
	u.infinite = infinite
	u.cancel = cancel
	u.searchDone = make(chan struct{})

	done := u.searchDone
	go func() {
		defer close(done)
		defer cancel()
		job(ctx)
	}()
}

// sendInfo outputs search info in UCI format.
func (u *UCI) sendInfo(info engine.SearchInfo) {
	parts := []string{
		fmt.Sprintf("depth %d", info.Depth),
		fmt.Sprintf("seldepth %d", info.SelDepth),
		"score " + engine.FormatScore(info.Score),
		fmt.Sprintf("nodes %d", info.Nodes),
		fmt.Sprintf("nps %d", info.NPS),
		fmt.Sprintf("hashfull %d", info.HashFull),
		fmt.Sprintf("time %d", info.Time.Milliseconds()),
	}
	if len(info.PV) > 0 {
		pv := make([]string, len(info.PV))
		for i, m := range info.PV {
			pv[i] = m.String()
		}
		parts = append(parts, "pv "+strings.Join(pv, " "))
	}
	u.printf("info %s\n", strings.Join(parts, " "))
}

// handleStop stops the current search and waits for its bestmove.
func (u *UCI) handleStop() {
	if !u.searching {
		return
	}
	u.engine.Stop()
	u.cancel()
	u.waitSearch()
}

func (u *UCI) waitSearch() {
	if !u.searching {
		return
	}
	<-u.searchDone
	u.searching = false
	u.infinite = false
}

// handleSetOption processes "setoption name <name> [value <value>]".
func (u *UCI) handleSetOption(args []string) {
	var name, value []string
	target := &name
	for _, arg := range args {
		switch arg {
		case "name":
			target = &name
		case "value":
			target = &value
		default:
			*target = append(*target, arg)
		}
	}
	key := strings.ToLower(strings.Join(name, " "))
	val := strings.Join(value, " ")

	u.handleStop()
	switch key {
	case "hash":
		mb, err := strconv.Atoi(val)
		if err != nil {
			u.printf("info string invalid Hash value %q\n", val)
			return
		}
		u.settings.HashMB = mb
		u.settings.Normalize()
		u.engine.SetHashSize(u.settings.HashMB)
	case "clear hash":
		u.engine.Clear()
		return
	case "debug":
		u.settings.Debug = strings.EqualFold(val, "true")
		board.DebugChecks = u.settings.Debug
	case "color":
		u.settings.Color = strings.EqualFold(val, "true")
	default:
		u.printf("info string unknown option %q\n", key)
		return
	}
	u.saveSettings()
}

// setDebugMode switches the extra info strings of "debug on" for this
// session. A running search keeps the mode it started with.
func (u *UCI) setDebugMode(on bool) {
	u.debug = on
	if on {
		u.println("info string debug on")
	} else {
		u.println("info string debug off")
	}
}

func (u *UCI) saveSettings() {
	if u.store == nil {
		return
	}
	if err := u.store.SaveSettings(u.settings); err != nil {
		u.log.Error(err, "saving settings")
		u.printf("info string %v\n", err)
	}
}

// handleEval prints the static evaluation terms of the current position.
func (u *UCI) handleEval() {
	bd := engine.Analyze(&u.board.Position)
	u.print(bd.String())
	u.printf("Final evaluation: %s (white side)\n", engine.ScoreToString(bd.Total()))
}

// handlePerft starts a perft divide in the background: "perft [depth]".
// stop and quit cancel it.
func (u *UCI) handlePerft(ctx context.Context, args []string) {
	depth := 5
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			u.printf("info string invalid perft depth %q\n", args[0])
			return
		}
		depth = n
	}
	u.handleStop()

	b := u.board.Clone()
	u.background(ctx, false, func(ctx context.Context) {
		report, err := bench.Run(ctx, b, depth, bench.Options{Parallel: true})
		if err != nil {
			u.printf("info string perft: %v\n", err)
			return
		}
		u.outMu.Lock()
		report.WriteDivide(u.out)
		u.outMu.Unlock()
		u.printf("\nNodes searched: %d\n", report.Stats.Nodes)
		u.printf("info string %s\n", report.Summary())
	})
}
