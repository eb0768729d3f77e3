package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/spf13/cobra"

	"github.com/phanxgames/domlayer/internal/config"
	"github.com/phanxgames/domlayer/memsurface"
	"github.com/phanxgames/domlayer/rodsurface"
)

type runOptions struct {
	configPath string
	dryRun     bool
	frames     int
	screenshot string
}

func newRunCmd() *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Bind configured elements and drive their placement for a number of frames",
		Long: `Run opens the configured page in Chrome (or attaches to remote_url), binds
each configured element id to a scene node, starts its tweens, and drives the
scene at the configured tick rate. Element styles are rewritten only when the
node's placement, opacity or visibility changed.

With --dry-run, or when the config names no page, an in-memory document is
used instead and the resulting styles are printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOverlay(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "domlayer.toml", "config file (.toml, .yaml)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "use an in-memory document instead of a browser")
	cmd.Flags().IntVar(&opts.frames, "frames", 0, "override the configured frame count")
	cmd.Flags().StringVar(&opts.screenshot, "screenshot", "", "write a PNG of the page after the last frame")
	return cmd
}

func runOverlay(ctx context.Context, out io.Writer, opts runOptions) error {
	logger := loggerFromContext(ctx)

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.frames > 0 {
		cfg.Frames = opts.frames
	}

	if opts.dryRun || !cfg.NeedsBrowser() {
		return runDry(ctx, out, cfg, logger)
	}
	return runBrowser(ctx, cfg, opts.screenshot, logger)
}

// runDry drives the overlay against an in-memory document and prints the
// final style of every element together with its write count.
func runDry(ctx context.Context, out io.Writer, cfg *config.Config, logger *log.Logger) error {
	doc := memsurface.NewDocument()
	for _, ec := range cfg.Elements {
		doc.Create(ec.ID)
	}
	ov, err := buildOverlay(cfg, doc, logger)
	if err != nil {
		return err
	}
	if err := ov.drive(ctx, cfg.Frames, cfg.TPS, false); err != nil {
		return err
	}

	for _, el := range doc.Elements() {
		fmt.Fprintf(out, "#%s (%d writes)\n", el.ID, len(el.Writes()))
		for _, p := range el.Properties() {
			fmt.Fprintf(out, "  %s: %s\n", p, el.Style(p))
		}
	}
	return nil
}

func runBrowser(ctx context.Context, cfg *config.Config, screenshot string, logger *log.Logger) error {
	controlURL := cfg.RemoteURL
	local := controlURL == ""
	if local {
		l := launcher.New().Headless(!cfg.Headful)
		u, err := l.Launch()
		if err != nil {
			return fmt.Errorf("launch browser: %w", err)
		}
		defer l.Cleanup()
		controlURL = u
		logger.Info("launched local chrome", "url", controlURL, "headful", cfg.Headful)
	} else {
		logger.Info("connecting to remote browser", "url", controlURL)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("connect browser: %w", err)
	}
	if local {
		defer browser.Close()
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: cfg.URL})
	if err != nil {
		return fmt.Errorf("open %s: %w", cfg.URL, err)
	}
	if !local {
		defer page.Close()
	}
	if err := page.Timeout(cfg.Timeout).WaitLoad(); err != nil {
		logger.Warn("wait load", "url", cfg.URL, "err", err)
	}

	doc := rodsurface.New(page).WithTimeout(cfg.Timeout)
	ov, err := buildOverlay(cfg, doc, logger)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := ov.drive(ctx, cfg.Frames, cfg.TPS, true); err != nil {
		return err
	}
	logger.Info("done", "frames", cfg.Frames, "elements", len(ov.nodes), "elapsed", time.Since(start).Round(time.Millisecond))

	if screenshot != "" {
		img, err := page.Screenshot(true, nil)
		if err != nil {
			return fmt.Errorf("screenshot: %w", err)
		}
		if err := os.WriteFile(screenshot, img, 0o644); err != nil {
			return fmt.Errorf("screenshot: %w", err)
		}
		logger.Info("wrote screenshot", "path", screenshot)
	}
	return nil
}
