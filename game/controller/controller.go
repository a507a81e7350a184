package controller

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wricardo/raiinet/game/engine"
	"github.com/wricardo/raiinet/game/render"
	"github.com/wricardo/raiinet/game/service"
)

// ErrInvalidMove is reported when the engine rejects a move
var ErrInvalidMove = errors.New("Invalid Move")

// View is what the controller draws to and reads commands from
type View interface {
	ShowBoard(v engine.GameView) error
	ShowMessage(msg string) error
	ShowPrompt(prompt string) error
	ReadCommand() (string, error)
}

// Controller turns command lines into calls on one service session
type Controller struct {
	svc       service.GameService
	sessionID string
	view      View
	logger    zerolog.Logger

	lastMessage   string
	quit          bool
	suppressBoard bool
}

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the controller logger
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// New creates a controller for an existing session
func New(svc service.GameService, sessionID string, view View, opts ...Option) *Controller {
	c := &Controller{
		svc:         svc,
		sessionID:   sessionID,
		view:        view,
		logger:      zerolog.Nop(),
		lastMessage: "P1's Turn",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LastMessage returns the status line shown under the board
func (c *Controller) LastMessage() string {
	return c.lastMessage
}

// Run shows the board, reads a command and executes it until quit or game over.
// Command errors become the status line; only engine invariant failures and
// view I/O errors end the loop with an error.
func (c *Controller) Run(ctx context.Context) error {
	for !c.quit {
		info, err := c.svc.GetSession(ctx, c.sessionID)
		if err != nil {
			return err
		}
		if info.GameOver {
			break
		}

		if !c.suppressBoard {
			if err := c.showBoard(ctx, info.Current); err != nil {
				return err
			}
		} else {
			c.suppressBoard = false
		}

		if err := c.view.ShowMessage("msg: " + c.lastMessage); err != nil {
			return err
		}
		if err := c.view.ShowPrompt(prompt(info.Current)); err != nil {
			return err
		}

		line, err := c.view.ReadCommand()
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		if err := c.Execute(ctx, line); err != nil {
			if errors.Is(err, engine.ErrFatal) {
				return err
			}
			c.logger.Debug().Err(err).Str("command", line).Msg("command failed")
			c.setStatusFromError(ctx, err)
		}
	}

	info, err := c.svc.GetSession(ctx, c.sessionID)
	if err != nil {
		return err
	}
	if info.GameOver {
		if err := c.showBoard(ctx, info.Current); err != nil {
			return err
		}
		return c.view.ShowMessage("msg: " + c.lastMessage)
	}
	return nil
}

// Execute runs a single command line
func (c *Controller) Execute(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch cmd, args := fields[0], fields[1:]; cmd {
	case "move":
		return c.cmdMove(ctx, args)
	case "ability":
		return c.cmdAbility(ctx, args)
	case "abilities":
		return c.cmdAbilities(ctx)
	case "board":
		info, err := c.svc.GetSession(ctx, c.sessionID)
		if err != nil {
			return err
		}
		return c.showBoard(ctx, info.Current)
	case "sequence":
		if len(args) == 0 {
			return errors.New("missing filename for sequence")
		}
		return c.cmdSequence(ctx, args[0])
	case "quit":
		c.quit = true
		return nil
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func (c *Controller) cmdMove(ctx context.Context, args []string) error {
	if len(args) < 2 || len(args[0]) != 1 {
		return errors.New("usage: move <label> <dir>")
	}
	dir, err := engine.ParseDirection(args[1])
	if err != nil {
		return err
	}

	res, err := c.svc.Move(ctx, c.sessionID, args[0][0], dir)
	if err != nil {
		return err
	}
	if !res.Success {
		return ErrInvalidMove
	}

	if res.GameOver {
		c.lastMessage = winMessage(res.Winner)
		c.quit = true
		return nil
	}
	c.lastMessage = turnMessage(res.View.Current)
	return nil
}

func (c *Controller) cmdAbility(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: ability <N> [args]")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return errors.New("usage: ability <N> [args]")
	}
	if id < 1 || id > engine.AbilitySlots {
		return fmt.Errorf("ability id must be between 1 and %d", engine.AbilitySlots)
	}

	target, err := parseTarget(args[1:])
	if err != nil {
		return err
	}

	res, err := c.svc.UseAbility(ctx, c.sessionID, id-1, target)
	if err != nil {
		return err
	}

	if res.View.GameOver {
		c.lastMessage = winMessage(res.View.Winner)
		c.quit = true
		return nil
	}
	c.lastMessage = turnMessage(res.View.Current)
	return nil
}

// parseTarget reads "[label [row col] | row col]"
func parseTarget(args []string) (engine.Target, error) {
	var t engine.Target
	if len(args) == 0 {
		return t, nil
	}

	first := args[0]
	if len(first) == 1 {
		if _, _, ok := engine.LinkIndexForLabel(first[0]); ok {
			t.Label, t.HasLabel = first[0], true
			if len(args) >= 3 {
				r, rErr := strconv.Atoi(args[1])
				col, cErr := strconv.Atoi(args[2])
				if rErr == nil && cErr == nil {
					t.Pos, t.HasPos = engine.Position{Row: r, Col: col}, true
				}
			}
			return t, nil
		}
	}

	r, err := strconv.Atoi(first)
	if err != nil {
		return t, errors.New("invalid ability target")
	}
	if len(args) < 2 {
		return t, errors.New("missing column for ability")
	}
	col, err := strconv.Atoi(args[1])
	if err != nil {
		return t, errors.New("missing column for ability")
	}
	t.Pos, t.HasPos = engine.Position{Row: r, Col: col}, true
	return t, nil
}

func (c *Controller) cmdAbilities(ctx context.Context) error {
	info, err := c.svc.GetSession(ctx, c.sessionID)
	if err != nil {
		return err
	}
	view, err := c.svc.GetView(ctx, c.sessionID, info.Current)
	if err != nil {
		return err
	}

	for _, line := range render.Abilities(view.Panel(info.Current).Abilities) {
		if err := c.view.ShowMessage(line); err != nil {
			return err
		}
	}
	// keep the listing on screen for the next prompt
	c.suppressBoard = true
	return nil
}

// cmdSequence runs every non-blank line of a file and stops at quit or game over.
// The first failing line aborts the rest of the file.
func (c *Controller) cmdSequence(ctx context.Context, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("could not open sequence file: %s", file)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if c.quit {
			break
		}
		info, err := c.svc.GetSession(ctx, c.sessionID)
		if err != nil {
			return err
		}
		if info.GameOver {
			break
		}

		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := c.Execute(ctx, line); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func (c *Controller) showBoard(ctx context.Context, viewer engine.PlayerID) error {
	view, err := c.svc.GetView(ctx, c.sessionID, viewer)
	if err != nil {
		return err
	}
	return c.view.ShowBoard(*view)
}

func (c *Controller) setStatusFromError(ctx context.Context, err error) {
	msg := err.Error()
	var engErr *engine.Error
	if errors.As(err, &engErr) {
		msg = engErr.Message
	}

	info, infoErr := c.svc.GetSession(ctx, c.sessionID)
	if infoErr != nil || !info.Current.Valid() {
		c.lastMessage = msg
		return
	}
	c.lastMessage = msg + ", " + turnMessage(info.Current)
}

func prompt(p engine.PlayerID) string {
	if p.Valid() {
		return p.String() + " > "
	}
	return "> "
}

func turnMessage(p engine.PlayerID) string {
	return p.String() + "'s Turn"
}

func winMessage(w engine.PlayerID) string {
	if w.Valid() {
		return fmt.Sprintf("Player %d wins", w.Number())
	}
	return "Game over"
}
