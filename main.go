// Command raiinet runs a two-player RAIInet match in the terminal.
//
// Both players share one terminal and type commands in turn. A setup can come
// from flags, a JSON file in the setup directory, or RAIINET_* environment
// variables, with flags taking precedence. With -spectate the match is also
// streamed over a websocket for read-only viewers, and with -ngrok the feed is
// published through an ngrok tunnel as well.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	gorilla "github.com/gorilla/websocket"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/raiinet/api"
	"github.com/wricardo/raiinet/game/config"
	"github.com/wricardo/raiinet/game/controller"
	"github.com/wricardo/raiinet/game/engine"
	"github.com/wricardo/raiinet/game/render"
	"github.com/wricardo/raiinet/game/service"
	"github.com/wricardo/raiinet/game/session"
	"github.com/wricardo/raiinet/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "raiinet"
)

// main loads .env, then hands os.Args to the CLI
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: Error loading .env file: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdin, os.Stdout, os.Stderr).Run(ctx, os.Args); err != nil {
		var engErr *engine.Error
		if errors.As(err, &engErr) && engErr.Kind == engine.KindFatal {
			fmt.Fprintf(os.Stderr, "RAIInet error: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Command line error: %v\n", err)
		}
		os.Exit(1)
	}
}

// app bundles the streams every command writes to
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

func newApp(in io.Reader, out, errOut io.Writer) *cli.Command {
	a := &app{in: in, out: out, errOut: errOut}

	return &cli.Command{
		Name:      AppName,
		Usage:     "play RAIInet in the terminal",
		Version:   Version,
		Writer:    out,
		ErrWriter: errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "ability1", Usage: "Player 1 ability cards, 5 codes from LFDSPWJH"},
			&cli.StringFlag{Name: "ability2", Usage: "Player 2 ability cards, 5 codes from LFDSPWJH"},
			&cli.StringFlag{Name: "link1", Usage: "Player 1 links, 8 pairs like V1V2V3V4D1D2D3D4"},
			&cli.StringFlag{Name: "link2", Usage: "Player 2 links, 8 pairs like V1V2V3V4D1D2D3D4"},
			&cli.StringFlag{Name: "setup", Usage: "load a setup by name from the setup directory"},
			&cli.StringFlag{Name: "config-dir", Usage: "setup directory (default $RAIINET_CONFIG_DIR or configs)"},
			&cli.IntFlag{Name: "shuffle", Usage: "shuffle both link layouts with this seed"},
			&cli.StringFlag{Name: "spectate", Usage: "serve a websocket spectator feed on this address, e.g. :8080"},
			&cli.BoolFlag{Name: "ngrok", Usage: "also publish the spectator feed through an ngrok tunnel (needs NGROK_AUTHTOKEN)"},
			&cli.StringFlag{Name: "ngrok-domain", Usage: "reserved ngrok domain for the tunnel (default $NGROK_DOMAIN)"},
			&cli.BoolFlag{Name: "player-views", Usage: "let spectators request a player's view instead of the public one"},
			&cli.BoolFlag{Name: "debug", Usage: "enable debug logging"},
		},
		Action: a.play,
		Commands: []*cli.Command{
			{
				Name:   "play",
				Usage:  "play a match (the default command)",
				Action: a.play,
			},
			{
				Name:      "validate",
				Usage:     "validate setup files",
				ArgsUsage: "[file.json ...]",
				Action:    a.validate,
			},
			{
				Name:   "configs",
				Usage:  "list the setups in the setup directory",
				Action: a.configs,
				Commands: []*cli.Command{
					{
						Name:      "save",
						Usage:     "write the setup built from the flags and environment to the setup directory",
						ArgsUsage: "NAME",
						Action:    a.saveSetup,
					},
				},
			},
			{
				Name:      "spectate",
				Usage:     "watch a match served with -spectate",
				ArgsUsage: "ws://host:port/ws?session=ID",
				Action:    a.spectate,
			},
		},
	}
}

// env holds what every command derives from the environment and global flags
type env struct {
	settings  config.Settings
	logger    zerolog.Logger
	configDir string
}

func (a *app) loadEnv(cmd *cli.Command) (env, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return env{}, err
	}

	level, err := settings.Level()
	if err != nil {
		return env{}, err
	}
	if cmd.Bool("debug") {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: a.errOut, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()

	dir := settings.ConfigDir
	if cmd.IsSet("config-dir") {
		dir = cmd.String("config-dir")
	}
	return env{settings: settings, logger: logger, configDir: dir}, nil
}

// gameConfig layers the environment, an optional setup file, then flags
func gameConfig(ctx context.Context, cmd *cli.Command, e env, svc service.GameService) (*engine.GameConfig, error) {
	cfg := e.settings.GameConfig()

	if name := cmd.String("setup"); name != "" {
		loaded, err := svc.LoadConfig(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("setup %s: %w", name, err)
		}
		copied := *loaded
		cfg = &copied
	}

	if cmd.IsSet("shuffle") {
		seed := cmd.Int("shuffle")
		if seed < 0 {
			return nil, errors.New("shuffle seed must not be negative")
		}
		cfg.Link1 = engine.ShuffledLayout(uint64(seed))
		cfg.Link2 = engine.ShuffledLayout(uint64(seed) + 1)
	}

	overrides := []struct {
		flag  string
		field *string
	}{
		{"ability1", &cfg.Ability1},
		{"ability2", &cfg.Ability2},
		{"link1", &cfg.Link1},
		{"link2", &cfg.Link2},
	}
	for _, o := range overrides {
		if cmd.IsSet(o.flag) {
			*o.field = cmd.String(o.flag)
		}
	}

	if err := engine.ValidateGameConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// layoutOverridden reports whether anything besides a setup name shapes the match
func layoutOverridden(cmd *cli.Command, e env) bool {
	for _, flag := range []string{"shuffle", "ability1", "ability2", "link1", "link2"} {
		if cmd.IsSet(flag) {
			return true
		}
	}
	return e.settings.HasOverrides()
}

// newService opens the setup directory when it exists and builds the game service over it
func newService(e env, opts ...service.Option) (service.GameService, *config.Manager) {
	opts = append([]service.Option{service.WithLogger(e.logger)}, opts...)
	sessions := session.NewManager(session.WithLogger(e.logger))

	configs, err := config.NewManager(e.configDir, config.WithLogger(e.logger))
	if err != nil {
		e.logger.Debug().Err(err).Msg("no setup directory")
		return service.NewGameService(sessions, nil, opts...), nil
	}
	return service.NewGameService(sessions, configs, opts...), configs
}

func (a *app) play(ctx context.Context, cmd *cli.Command) error {
	e, err := a.loadEnv(cmd)
	if err != nil {
		return err
	}

	feed := spectatorOptions{
		addr:        e.settings.SpectateAddr,
		ngrok:       e.settings.Ngrok || cmd.Bool("ngrok"),
		ngrokToken:  e.settings.NgrokAuthtoken,
		ngrokDomain: e.settings.NgrokDomain,
		playerViews: cmd.Bool("player-views"),
	}
	if cmd.IsSet("spectate") {
		feed.addr = cmd.String("spectate")
	}
	if cmd.IsSet("ngrok-domain") {
		feed.ngrokDomain = cmd.String("ngrok-domain")
	}

	var hub *websocket.Hub
	var opts []service.Option
	if feed.enabled() {
		hub = websocket.NewHub(websocket.WithLogger(e.logger))
		opts = append(opts, service.WithBroadcaster(hub))
	}

	svc, configs := newService(e, opts...)
	setup := cmd.String("setup")
	if configs == nil && setup != "" {
		return fmt.Errorf("setup directory %s: %w", e.configDir, service.ErrNoConfigManager)
	}
	if name := e.settings.DefaultSetup; name != "" && configs != nil {
		if err := configs.SetDefault(name); err != nil {
			return fmt.Errorf("RAIINET_DEFAULT_SETUP %s: %w", name, err)
		}
	}

	var info *service.SessionInfo
	if layoutOverridden(cmd, e) {
		cfg, err := gameConfig(ctx, cmd, e, svc)
		if err != nil {
			return err
		}
		info, err = svc.CreateSessionWithConfig(ctx, cfg)
		if err != nil {
			return err
		}
	} else {
		info, err = svc.CreateSession(ctx, setup)
		if err != nil {
			return err
		}
	}
	defer func() {
		if err := svc.DeleteSession(context.Background(), info.ID); err != nil {
			e.logger.Warn().Err(err).Str("session", info.ID).Msg("session cleanup")
		}
	}()

	e.logger.Info().
		Str("session", info.ID).
		Str("setup", info.ConfigName).
		Msg("match started")

	if hub != nil {
		urls, shutdown, err := serveSpectators(ctx, feed, hub, svc, e.logger)
		if err != nil {
			return err
		}
		defer shutdown()
		for _, u := range urls {
			e.logger.Info().Msgf("spectate with: %s spectate %s/ws?session=%s", AppName, u, info.ID)
		}
	}

	view := render.NewTextView(a.in, a.out)
	return controller.New(svc, info.ID, view, controller.WithLogger(e.logger)).Run(ctx)
}

// spectatorOptions says where the spectator feed listens
type spectatorOptions struct {
	addr        string
	ngrok       bool
	ngrokToken  string
	ngrokDomain string
	playerViews bool
}

func (o spectatorOptions) enabled() bool {
	return o.addr != "" || o.ngrok
}

// openListeners opens the local listener and the ngrok tunnel that are configured.
// It returns the websocket base URL of each one.
func openListeners(ctx context.Context, o spectatorOptions) ([]net.Listener, []string, error) {
	var listeners []net.Listener
	var urls []string
	fail := func(err error) ([]net.Listener, []string, error) {
		for _, ln := range listeners {
			ln.Close()
		}
		return nil, nil, err
	}

	if o.addr != "" {
		ln, err := net.Listen("tcp", o.addr)
		if err != nil {
			return fail(fmt.Errorf("spectator listener: %w", err))
		}
		listeners = append(listeners, ln)
		urls = append(urls, "ws://"+ln.Addr().String())
	}

	if o.ngrok {
		if o.ngrokToken == "" {
			return fail(errors.New("ngrok is enabled but NGROK_AUTHTOKEN is not set"))
		}

		tunnel := ngrokConfig.HTTPEndpoint()
		if o.ngrokDomain != "" {
			tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(o.ngrokDomain))
		}

		tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(o.ngrokToken))
		if err != nil {
			return fail(fmt.Errorf("failed to start ngrok tunnel: %w", err))
		}
		listeners = append(listeners, tun)
		urls = append(urls, "ws"+strings.TrimPrefix(tun.URL(), "http"))
	}

	return listeners, urls, nil
}

// serveSpectators starts the hub and the read-only HTTP API in front of it on
// every configured listener. The returned func stops all of them.
func serveSpectators(ctx context.Context, o spectatorOptions, hub *websocket.Hub, svc service.GameService, logger zerolog.Logger) ([]string, func(), error) {
	listeners, urls, err := openListeners(ctx, o)
	if err != nil {
		return nil, nil, err
	}

	hubCtx, cancel := context.WithCancel(ctx)
	go hub.Run(hubCtx)

	httpServer := &http.Server{
		Handler:     api.NewServer(svc, hub, api.WithLogger(logger), api.WithPlayerViews(o.playerViews)),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	for i, ln := range listeners {
		go func(ln net.Listener, url string) {
			logger.Info().Str("url", url).Msg("spectator feed listening")
			if err := httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
				logger.Error().Err(err).Msg("spectator server failed")
			}
		}(ln, urls[i])
	}

	return urls, func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("spectator server shutdown")
		}
		cancel()
	}, nil
}

func (a *app) validate(ctx context.Context, cmd *cli.Command) error {
	e, err := a.loadEnv(cmd)
	if err != nil {
		return err
	}

	var results []config.ValidationResult
	if files := cmd.Args().Slice(); len(files) > 0 {
		for _, f := range files {
			results = append(results, config.ValidateFile(f))
		}
	} else {
		results, err = config.ValidateDir(e.configDir)
		if err != nil {
			return err
		}
	}

	allValid := true
	for _, result := range results {
		fmt.Fprintf(a.out, "\n%s %s\n", strings.Repeat("=", 20), result.File)
		if result.Valid {
			fmt.Fprintln(a.out, "✅ VALID")
			for _, info := range result.Errors {
				fmt.Fprintln(a.out, "  "+info)
			}
			continue
		}
		allValid = false
		fmt.Fprintln(a.out, "❌ INVALID")
		for _, msg := range result.Errors {
			fmt.Fprintln(a.out, "  ❌ "+msg)
		}
	}

	fmt.Fprintf(a.out, "\n%s\n", strings.Repeat("=", 40))
	if !allValid {
		fmt.Fprintln(a.out, "❌ Some configurations have errors")
		return errors.New("validation failed")
	}
	fmt.Fprintf(a.out, "✅ All %d configurations are valid!\n", len(results))
	return nil
}

func (a *app) configs(ctx context.Context, cmd *cli.Command) error {
	e, err := a.loadEnv(cmd)
	if err != nil {
		return err
	}

	m, err := config.NewManager(e.configDir, config.WithLogger(e.logger))
	if err != nil {
		return err
	}
	infos, err := m.ListConfigs()
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Fprintf(a.out, "no setups in %s\n", e.configDir)
		return nil
	}
	for _, info := range infos {
		fmt.Fprintf(a.out, "%-12s %s/%s  %s\n", info.ConfigID, info.Ability1, info.Ability2, info.Description)
	}
	return nil
}

func (a *app) saveSetup(ctx context.Context, cmd *cli.Command) error {
	e, err := a.loadEnv(cmd)
	if err != nil {
		return err
	}
	if cmd.Args().Len() != 1 {
		return errors.New("usage: configs save NAME")
	}
	name := strings.TrimSuffix(cmd.Args().First(), ".json")
	if name == "" || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid setup name %q", cmd.Args().First())
	}

	svc, configs := newService(e)
	if configs == nil {
		return fmt.Errorf("setup directory %s: %w", e.configDir, service.ErrNoConfigManager)
	}

	cfg, err := gameConfig(ctx, cmd, e, svc)
	if err != nil {
		return err
	}
	cfg.Name = name
	if err := svc.SaveConfig(ctx, name, cfg); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "saved setup %s to %s\n", name, filepath.Join(e.configDir, name+".json"))
	return nil
}

func (a *app) spectate(ctx context.Context, cmd *cli.Command) error {
	e, err := a.loadEnv(cmd)
	if err != nil {
		return err
	}
	if cmd.Args().Len() != 1 {
		return errors.New("usage: spectate ws://host:port/ws?session=ID")
	}

	conn, _, err := gorilla.DefaultDialer.DialContext(ctx, cmd.Args().First(), nil)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		var msg websocket.Message
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil || gorilla.IsCloseError(err, gorilla.CloseNormalClosure) {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		e.logger.Debug().Str("event", msg.Event).Msg("spectator update")
		if _, err := io.WriteString(a.out, spectatorText(msg)); err != nil {
			return err
		}
	}
}

// spectatorText renders one feed message: event lines, the board, then the status
func spectatorText(msg websocket.Message) string {
	var b strings.Builder
	for _, ev := range msg.Events {
		fmt.Fprintf(&b, "* %s\n", ev.Message)
	}
	if msg.View == nil {
		return b.String()
	}
	b.WriteString(render.Text(*msg.View))
	switch {
	case msg.View.GameOver:
		fmt.Fprintf(&b, "msg: Player %d wins\n", msg.View.Winner.Number())
	default:
		fmt.Fprintf(&b, "msg: %s's Turn\n", msg.View.Current)
	}
	return b.String()
}
