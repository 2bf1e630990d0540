package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/MimeLyc/td2-chat-translator/internal/config"
	"github.com/MimeLyc/td2-chat-translator/internal/httpapi"
	"github.com/MimeLyc/td2-chat-translator/internal/ignore"
	"github.com/MimeLyc/td2-chat-translator/internal/jobs"
	"github.com/MimeLyc/td2-chat-translator/internal/llm"
	"github.com/MimeLyc/td2-chat-translator/internal/persistence"
	"github.com/MimeLyc/td2-chat-translator/internal/render"
	"github.com/MimeLyc/td2-chat-translator/internal/service"
	"github.com/MimeLyc/td2-chat-translator/internal/termmap"
	"github.com/MimeLyc/td2-chat-translator/internal/translator"
	"github.com/MimeLyc/td2-chat-translator/internal/tui"
	"github.com/MimeLyc/td2-chat-translator/pkg/log"
)

type runOptions struct {
	logDir      string
	headless    bool
	skipBacklog bool
	httpAddr    string
}

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Watch the game log and translate chat",
		Long: `Watch the newest log file in the Train Driver 2 log directory and translate
every chat message as it is written.

By default an interactive window is shown:
  l  cycle target language     b  cycle backend
  o  toggle original text      s  start/stop
  r  restart from the end      q  quit

With --headless the translations are printed to stdout instead. With --http the
same feed is also available to a browser overlay at /api/chat/stream.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTranslator(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.logDir, "log-dir", "", "directory holding the game's log files (overrides LOG_DIR)")
	cmd.Flags().BoolVar(&opts.headless, "headless", false, "print translations to stdout instead of the interactive window")
	cmd.Flags().BoolVar(&opts.skipBacklog, "skip-backlog", false, "ignore the chat already in the log and translate only new lines")
	cmd.Flags().StringVar(&opts.httpAddr, "http", "", "serve the chat feed and controls on this address, e.g. 127.0.0.1:8787 (overrides HTTP_ADDR)")

	return cmd
}

// app is everything a run needs, built from configuration.
type app struct {
	cfg       *config.Config
	selection *config.SelectionStore
	cache     *persistence.SQLiteStore
	worker    func(sink render.Sink) *service.Worker
}

func runTranslator(ctx context.Context, opts *runOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.NewFromEnv(
		config.WithLogDir(opts.logDir),
		config.WithSkipBacklog(opts.skipBacklog),
		config.WithHTTPAddr(opts.httpAddr),
	)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	closeLog, err := setupLogging(cfg, opts.headless)
	if err != nil {
		return err
	}
	defer closeLog()

	a, err := build(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	if opts.headless {
		return a.runHeadless(ctx)
	}
	return a.runInteractive(ctx)
}

// setupLogging logs to stdout in headless mode and to LOG_FILE under the
// interactive window, which owns the terminal.
func setupLogging(cfg *config.Config, headless bool) (func(), error) {
	level := log.ParseLevel(cfg.System.LogLevel)
	if headless {
		log.InitLogger(level)
		return func() {}, nil
	}

	fileLogger, err := log.NewFileLogger(cfg.System.LogFile, level)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.SetLogger(fileLogger.Logger)
	return func() { _ = fileLogger.Close() }, nil
}

func build(ctx context.Context, cfg *config.Config) (*app, error) {
	ignored, err := ignore.Load(cfg.Input.IgnoreFile)
	if err != nil {
		return nil, fmt.Errorf("load ignore list: %w", err)
	}
	fixed, err := termmap.Load(cfg.Input.FixedTranslationsFile)
	if err != nil {
		return nil, fmt.Errorf("load fixed translations: %w", err)
	}
	log.Info("Loaded %d ignored messages and %d fixed translations", ignored.Len(), fixed.Len())

	// a nil interface, not a typed nil, so the ChatGPT backend reports itself unconfigured
	var chat translator.ChatClient
	if cfg.LLM.APIKey != "" {
		client, err := llm.NewClient(&llm.Config{
			APIKey:      cfg.LLM.APIKey,
			APIURL:      cfg.LLM.APIURL,
			Model:       cfg.LLM.Model,
			MaxTokens:   cfg.LLM.MaxTokens,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("configure %s backend: %w", translator.BackendChatGPT, err)
		}
		chat = client
	}

	backends := translator.NewRegistry(chat,
		translator.GoogleConfig{APIURL: cfg.Google.APIURL, Timeout: cfg.Google.Timeout},
		translator.DeepLConfig{APIKey: cfg.DeepL.APIKey, APIURL: cfg.DeepL.APIURL, Timeout: cfg.DeepL.Timeout},
	)

	a := &app{cfg: cfg}
	var routerOpts []translator.RouterOption
	if cfg.System.CacheEnabled {
		store, err := persistence.NewSQLiteStore(cfg.DBPath())
		if err != nil {
			log.Warn("Translation cache unavailable, continuing without it: %v", err)
		} else {
			a.cache = store
			routerOpts = append(routerOpts, translator.WithCache(store))
			if cfg.System.CacheTTL > 0 {
				removed, err := store.DeleteTranslationsBefore(ctx, time.Now().Add(-cfg.System.CacheTTL))
				if err != nil {
					log.Warn("Purging old cache entries failed: %v", err)
				} else if removed > 0 {
					log.Info("Purged %d cached translations older than %s", removed, cfg.System.CacheTTL)
				}
			}
		}
	}
	router := translator.NewRouter(fixed, backends, routerOpts...)

	a.selection = config.NewSelectionStore(cfg.System.PrefsFile, cfg.DefaultSelection())
	a.worker = func(sink render.Sink) *service.Worker {
		return service.NewWorker(ignored, router, a.selection, sink)
	}
	return a, nil
}

func (a *app) close() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			log.Warn("Closing translation cache: %v", err)
		}
	}
}

// session binds the service to the configured log directory for the UI.
type session struct {
	svc *service.Service
	dir string
}

func (s *session) Start() (string, error)   { return s.svc.Start(s.dir) }
func (s *session) Restart() (string, error) { return s.svc.Restart() }
func (s *session) Stop()                    { s.svc.Stop() }
func (s *session) Active() bool             { return s.svc.Active() }

// serveHTTP starts the optional HTTP feed and returns the sink feeding it.
func (a *app) serveHTTP(ctx context.Context, g *errgroup.Group, sess *session, queue *jobs.Queue) render.Sink {
	if a.cfg.HTTP.Addr == "" {
		return nil
	}

	feed := httpapi.NewFeed(0)
	srv := httpapi.NewServer(feed,
		httpapi.WithSession(sess),
		httpapi.WithSelectionStore(a.selection),
		httpapi.WithQueue(queue),
		httpapi.WithUI(a.cfg.HTTP.UIDir, a.cfg.HTTP.UIDir != ""),
	)

	g.Go(func() error {
		log.Info("Serving chat feed on http://%s", a.cfg.HTTP.Addr)
		if err := srv.ListenAndServe(a.cfg.HTTP.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return feed
}

func (a *app) runHeadless(ctx context.Context) error {
	items := render.NewChannelSink(256)
	printer := render.NewPrinter(os.Stdout)

	queue := jobs.NewQueue()
	var sink render.Tee
	svc, err := service.NewService(queue, service.Options{
		Schedule:    a.cfg.Poll.Schedule,
		SkipBacklog: a.cfg.Poll.SkipBacklog,
		Status:      &sink,
	})
	if err != nil {
		return err
	}
	sess := &session{svc: svc, dir: a.cfg.Input.LogDir}

	g, gctx := errgroup.WithContext(ctx)
	sink = render.Tee{items, a.serveHTTP(gctx, g, sess, queue)}

	g.Go(func() error {
		for it := range items.Items() {
			printer.Render(it)
		}
		return nil
	})

	queue.Start(gctx, a.worker(&sink).Process)

	g.Go(func() error {
		<-gctx.Done()
		svc.Close()
		queue.Stop()
		items.Close()
		return nil
	})

	if _, err := sess.Start(); err != nil {
		service.Handle(err)
		if stopErr := stopGroup(ctx, g); stopErr != nil {
			log.Warn("Shutting down after failed start: %v", stopErr)
		}
		return err
	}
	return g.Wait()
}

func (a *app) runInteractive(ctx context.Context) error {
	queue := jobs.NewQueue()

	ui := tui.NewSink()
	var sink render.Tee
	svc, err := service.NewService(queue, service.Options{
		Schedule:    a.cfg.Poll.Schedule,
		SkipBacklog: a.cfg.Poll.SkipBacklog,
		Status:      &sink,
	})
	if err != nil {
		return err
	}
	sess := &session{svc: svc, dir: a.cfg.Input.LogDir}

	g, gctx := errgroup.WithContext(ctx)

	model := tui.New(tui.Options{Session: sess, Settings: a.selection})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(gctx))
	ui.Attach(program)

	sink = render.Tee{ui, a.serveHTTP(gctx, g, sess, queue)}
	queue.Start(gctx, a.worker(&sink).Process)

	g.Go(func() error {
		defer queue.Stop()
		defer svc.Close()
		_, err := program.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return err
		}
		// quitting the window ends the run
		return errQuit
	})

	// Send blocks until the program loop is running, so the first session starts here.
	g.Go(func() error {
		if _, err := sess.Start(); err != nil {
			service.Handle(err)
			sink.Render(render.Item{Text: "Error: " + err.Error(), Tag: render.TagStatus})
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errQuit) {
		return err
	}
	return nil
}

// errQuit cancels the group when the operator closes the window.
var errQuit = errors.New("quit")

// stopGroup cancels everything started under g and waits for it.
func stopGroup(ctx context.Context, g *errgroup.Group) error {
	g.Go(func() error { return errQuit })
	if err := g.Wait(); err != nil && !errors.Is(err, errQuit) && ctx.Err() == nil {
		return err
	}
	return nil
}
