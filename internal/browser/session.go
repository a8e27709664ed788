package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/chromedp/chromedp"

	"relentless-househunter/internal/crawler"
	"relentless-househunter/internal/logging"
)

// Config controls how Chrome is launched for each session.
type Config struct {
	Headless  bool
	UserAgent string
	ProxyURL  string
	// ProfileDir is an existing Chrome user-data-dir. Each session gets its
	// own copy so cookies from a manually unblocked profile are reused.
	ProfileDir string
	// WorkDir holds the per-session profile copies. Defaults to os.TempDir().
	WorkDir string
	Width   int
	Height  int
}

// Factory opens one Chrome process per session.
type Factory struct {
	cfg    Config
	logger logging.Logger
}

func NewFactory(cfg Config, logger logging.Logger) *Factory {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 1920, 1080
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Factory{cfg: cfg, logger: logger}
}

func (f *Factory) allocatorOptions(userDataDir string) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", f.cfg.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(f.cfg.Width, f.cfg.Height),
	)
	if f.cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(f.cfg.UserAgent))
	}
	if f.cfg.ProxyURL != "" {
		opts = append(opts, chromedp.ProxyServer(f.cfg.ProxyURL))
	}
	if userDataDir != "" {
		opts = append(opts, chromedp.UserDataDir(userDataDir))
	}
	return opts
}

// NewSession starts a browser and returns its first tab. The browser lives
// until Close, independently of ctx cancellation.
func (f *Factory) NewSession(ctx context.Context) (crawler.Session, error) {
	var profile string
	if f.cfg.ProfileDir != "" {
		dir, err := os.MkdirTemp(f.cfg.WorkDir, "househunter-profile-*")
		if err != nil {
			return nil, fmt.Errorf("create profile dir: %w", err)
		}
		if err := CopyProfile(f.cfg.ProfileDir, dir); err != nil {
			_ = os.RemoveAll(dir)
			return nil, fmt.Errorf("clone profile: %w", err)
		}
		profile = dir
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.WithoutCancel(ctx), f.allocatorOptions(profile)...)
	logger := f.logger
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, args ...interface{}) {
		logger.Debugf(format, args...)
	}))

	s := &Session{
		tab:     tabCtx,
		cancel:  func() { cancelTab(); cancelAlloc() },
		profile: profile,
	}
	if err := s.run(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("start browser: %w", err)
	}
	return s, nil
}

// Session is a single Chrome tab.
type Session struct {
	tab     context.Context
	cancel  func()
	profile string
}

// run executes actions on the tab, bounded by the caller's ctx.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	var (
		opCtx  context.Context
		cancel context.CancelFunc
	)
	if deadline, ok := ctx.Deadline(); ok {
		opCtx, cancel = context.WithDeadline(s.tab, deadline)
	} else {
		opCtx, cancel = context.WithCancel(s.tab)
	}
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(opCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	return s.run(ctx, chromedp.Navigate(url))
}

// WaitReady maps a timeout on the caller's deadline to ErrPageNotReady.
func (s *Session) WaitReady(ctx context.Context, selector string) error {
	return waitError(ctx, s.run(ctx, chromedp.WaitReady(selector, chromedp.ByQuery)))
}

func waitError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", crawler.ErrPageNotReady, err)
	}
	return err
}

func (s *Session) HTML(ctx context.Context) (string, error) {
	var html string
	err := s.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	return html, err
}

func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	var location string
	err := s.run(ctx, chromedp.Location(&location))
	return location, err
}

func (s *Session) Refresh(ctx context.Context) error {
	return s.run(ctx, chromedp.Reload())
}

// Close stops the browser and removes the cloned profile.
func (s *Session) Close() error {
	s.cancel()
	if s.profile != "" {
		return os.RemoveAll(s.profile)
	}
	return nil
}

// CopyProfile copies a Chrome user-data-dir. Symlinks and the Singleton*
// lock files of a running browser are skipped.
func CopyProfile(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case d.Type()&fs.ModeSymlink != 0, strings.HasPrefix(d.Name(), "Singleton"):
			return nil
		case d.IsDir():
			return os.MkdirAll(target, 0o755)
		case !d.Type().IsRegular():
			return nil
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
