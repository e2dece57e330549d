package main

import (
	"bufio"
	"bytes"
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/polyrabbit/folio/config"
	"github.com/polyrabbit/folio/content"
	myhttp "github.com/polyrabbit/folio/http"
	"github.com/polyrabbit/folio/quote"
	"github.com/polyrabbit/folio/relay"
	"github.com/polyrabbit/folio/writer"
)

func main() {
	cfg := config.Parse()
	if cfg.ListRelays {
		config.ListRelaysAndExit(cfg.Relays)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpClient := myhttp.New(cfg)
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = quote.DefaultRelayTimeout
	}

	switch {
	case cfg.Serve != "":
		server := relay.NewServer(httpClient, cfg.AllowedTargets, timeout)
		if err := server.Run(ctx, cfg.Serve); err != nil {
			logrus.Fatalf("Relay server stopped, error: %v", err)
		}
	case cfg.ContentMode():
		if err := runContent(ctx, cfg, httpClient); err != nil {
			logrus.Fatal(err)
		}
	default:
		runTicker(ctx, stop, cfg, httpClient, timeout)
	}
}

func newLibrary(cfg *config.Config, httpClient *myhttp.Client) *content.Library {
	var source content.Source
	if cfg.Content.BaseURL != "" {
		logrus.Debugf("Loading posts from %s", cfg.Content.BaseURL)
		source = content.NewHTTPSource(httpClient, cfg.Content.BaseURL)
	} else {
		dir := cfg.Content.Dir
		if dir == "" {
			dir = "."
		}
		logrus.Debugf("Loading posts from directory %s", dir)
		source = content.NewDirSource(afero.NewOsFs(), dir)
	}
	return content.NewLibrary(source, cfg.Content.Posts)
}

func runContent(ctx context.Context, cfg *config.Config, httpClient *myhttp.Client) error {
	lib := newLibrary(cfg, httpClient)
	out := colorable.NewColorableStdout()

	switch {
	case cfg.Post != "":
		writer.RenderPost(out, lib.Post(ctx, cfg.Post))
	case cfg.Sitemap != "":
		return writeSitemap(ctx, cfg, lib)
	case cfg.Tag != "":
		writer.RenderPosts(out, content.WithTag(lib.All(ctx), cfg.Tag), "")
	case cfg.Search != "":
		writer.RenderPosts(out, content.Search(lib.All(ctx), cfg.Search), cfg.Search)
	default:
		posts := lib.All(ctx)
		writer.RenderPosts(out, posts, "")
		writer.RenderTags(out, content.Tags(posts))
	}
	return nil
}

func writeSitemap(ctx context.Context, cfg *config.Config, lib *content.Library) error {
	if cfg.Content.Domain == "" {
		return errors.New("content.domain is required to generate a sitemap")
	}
	var buf bytes.Buffer
	if err := content.WriteSitemap(&buf, cfg.Content.Domain, lib.IDs(ctx), time.Now()); err != nil {
		return err
	}
	if cfg.Sitemap == "-" {
		_, err := os.Stdout.Write(buf.Bytes())
		return err
	}
	if err := afero.WriteFile(afero.NewOsFs(), cfg.Sitemap, buf.Bytes(), 0o644); err != nil {
		return err
	}
	logrus.Infof("Sitemap generated at %s", cfg.Sitemap)
	return nil
}

func runTicker(ctx context.Context, quit context.CancelFunc, cfg *config.Config, httpClient *myhttp.Client, timeout time.Duration) {
	relays, err := quote.NewRelays(cfg.Relays)
	if err != nil {
		logrus.Fatalf("Unable to set up relays, %v", err)
	}
	store := quote.NewStore(cfg.Holdings)
	ingestor := quote.NewIngestor(store, quote.NewFetcher(relays, httpClient, timeout), cfg.Upstream)
	logrus.Debugf("Quote target is %s", ingestor.Target())

	tw := writer.NewTableWriter(cfg.Columns)
	logrus.SetOutput(tw)
	defer logrus.SetOutput(colorable.NewColorableStderr())

	var renderMu sync.Mutex
	render := func(acknowledged bool) {
		renderMu.Lock()
		defer renderMu.Unlock()
		notice := writer.Notice{Status: store.Status(), Acknowledged: acknowledged}
		if err := tw.Render(store.Holdings(), store.Snapshots(), notice); err != nil {
			logrus.SetOutput(colorable.NewColorableStderr())
			logrus.Fatal(err)
		}
	}

	if cfg.Refresh == 0 {
		if err := ingestor.RunCycle(ctx); err != nil {
			hintProxy(err)
		}
		render(false)
		return
	}

	if cfg.Metrics != "" {
		go serveMetrics(ctx, cfg.Metrics)
	}

	interval := time.Duration(cfg.Refresh) * time.Second
	logrus.Infof("Auto refresh on every %s, press Enter to refresh now, q to quit", interval)
	var scheduler *quote.Scheduler
	var hinted sync.Once
	scheduler = quote.NewScheduler(ingestor, interval, func(ev quote.Event) {
		if ev.Err != nil {
			hinted.Do(func() { hintProxy(ev.Err) })
		}
		render(scheduler.Acknowledged())
	})
	scheduler.Start(ctx)
	go readKeys(scheduler.Trigger, quit)

	<-ctx.Done()
	scheduler.Stop()
}

// readKeys triggers a refresh on Enter or "r", and quits on "q".
func readKeys(refresh func(), quit func()) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "", "r":
			refresh()
		case "q":
			quit()
			return
		}
	}
	// Stdin closed, keep ticking until a signal arrives
}

func hintProxy(err error) {
	if myhttp.IsTimeout(err) {
		logrus.Info("Maybe you are blocked by a firewall, try using --proxy to go through a proxy?")
	}
}

func serveMetrics(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	logrus.Debugf("Serving metrics on %s/metrics", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logrus.Warnf("Metrics server stopped, error: %v", err)
	}
}
