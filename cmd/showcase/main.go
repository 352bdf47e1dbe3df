// showcase: portfolio site backend
// Serves the project catalog, carousel layouts and live sessions, and records
// contact, waitlist and bug-report submissions.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/teslashibe/showcase/internal/config"
	"github.com/teslashibe/showcase/internal/log"
	"github.com/teslashibe/showcase/pkg/catalog"
	"github.com/teslashibe/showcase/pkg/contact"
	"github.com/teslashibe/showcase/pkg/hub"
	"github.com/teslashibe/showcase/pkg/sink"
	"github.com/teslashibe/showcase/pkg/web"
)

var version = "1.0.0"

type flags struct {
	configPath string
	addr       string
	staticDir  string
	catalog    string
	sink       string
	dataDir    string
	logLevel   string
	noWatch    bool
}

func parseFlags() flags {
	var f flags
	flag.StringVar(&f.configPath, "config", "showcase.yaml", "Config file (optional)")
	flag.StringVar(&f.addr, "addr", "", "Listen address (default :8080)")
	flag.StringVar(&f.staticDir, "static", "", "Directory of the built site to serve at /")
	flag.StringVar(&f.catalog, "catalog", "", "Project catalog YAML (default: built-in)")
	flag.StringVar(&f.sink, "sink", "", "Submission backend: firebase, local or mock")
	flag.StringVar(&f.dataDir, "data", "", "Data directory for the local sink")
	flag.StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.BoolVar(&f.noWatch, "no-watch", false, "Do not hot-reload the catalog file")
	flag.Parse()
	return f
}

// apply overrides cfg with the flags that were set.
func (f flags) apply(cfg *config.Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Addr, f.addr)
	set(&cfg.StaticDir, f.staticDir)
	set(&cfg.Catalog, f.catalog)
	set(&cfg.Sink, f.sink)
	set(&cfg.DataDir, f.dataDir)
	set(&cfg.Log.Level, f.logLevel)
	if f.noWatch {
		cfg.WatchCatalog = false
	}
}

func main() {
	f := parseFlags()

	cfg, err := config.LoadWithOverrides(f.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	f.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log.Init(log.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Error("showcase stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	log.Info("starting showcase", "version", version, "sink", cfg.Sink, "addr", cfg.Addr)

	snk, blobDir, err := openSink(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open sink: %w", err)
	}
	defer snk.Close()

	cat := catalog.Default()
	if cfg.Catalog != "" {
		if cat, err = catalog.Load(cfg.Catalog); err != nil {
			return err
		}
	}
	source := catalog.NewSource(cat)
	log.Info("catalog loaded", "projects", cat.Len(), "ids", cat.IDs())

	activity := hub.New("activity", hub.WithLogger(log.With("component", "hub")))

	if cfg.Watching() {
		w, err := catalog.NewWatcher(cfg.Catalog, source,
			catalog.WithLogger(log.With("component", "catalog")),
			catalog.WithOnReload(func(c *catalog.Catalog) {
				activity.Publish(hub.Event{
					Type:     hub.EventCatalogUpdated,
					Projects: c.Len(),
					At:       time.Now(),
				})
			}),
		)
		if err != nil {
			return fmt.Errorf("failed to create catalog watcher: %w", err)
		}
		if err := w.Start(ctx); err != nil {
			return fmt.Errorf("failed to watch catalog: %w", err)
		}
		defer w.Stop()
	}

	forms := contact.NewService(snk, contact.WithLogger(log.With("component", "contact")))

	srv := web.NewServer(web.Config{
		Addr:          cfg.Addr,
		StaticDir:     cfg.StaticDir,
		BlobDir:       blobDir,
		BodyLimit:     cfg.BodyLimit(),
		SubmitTimeout: cfg.SubmitTimeout,
		Logger:        log.L(),
	}, source, forms, activity)

	return srv.Run(ctx)
}

// openSink builds the configured backend. blobDir is set when uploads are
// stored on local disk and must be served by the web server.
func openSink(ctx context.Context, cfg config.Config) (sink.Sink, string, error) {
	switch cfg.Sink {
	case config.SinkFirebase:
		fb, err := sink.NewFirebase(ctx, sink.FirebaseConfig{
			ProjectID:       cfg.Firebase.ProjectID,
			Bucket:          cfg.Firebase.Bucket,
			CredentialsFile: cfg.Firebase.CredentialsFile,
			Logger:          log.With("component", "sink"),
		})
		if err != nil {
			return nil, "", err
		}
		return fb, "", nil
	case config.SinkMock:
		log.Warn("using mock sink: submissions are not stored")
		return sink.NewMock(), "", nil
	default:
		dir, err := filepath.Abs(cfg.DataDir)
		if err != nil {
			return nil, "", err
		}
		l, err := sink.NewLocal(dir, sink.WithLocalLogger(log.With("component", "sink")))
		if err != nil {
			return nil, "", err
		}
		return l, l.BlobDir(), nil
	}
}
