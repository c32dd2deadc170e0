// retroview - BSP software renderer in the terminal
// Walks a grid level's BSP tree front to back and draws it column by
// column, the way 1990s first-person engines did.
//
// Controls:
//
//	W/S, Up/Down     - Move forward/back
//	A/D, Left/Right  - Turn
//	Q/E              - Strafe
//	F                - Cycle the fuzz overlay (off, column, buffer)
//	P                - Pause the fuzz overlay
//	M                - Toggle the wall-range overlay
//	R                - Back to the start
//	?                - Toggle HUD
//	Esc              - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/retroview/pkg/config"
	"github.com/taigrr/retroview/pkg/draw"
	"github.com/taigrr/retroview/pkg/export"
	"github.com/taigrr/retroview/pkg/level"
	"github.com/taigrr/retroview/pkg/palette"
)

var (
	configPath = flag.String("config", "", "Path to a YAML config (default $"+config.EnvPath+")")
	width      = flag.Int("width", 0, "Screen width for -png (overrides config)")
	height     = flag.Int("height", 0, "Screen height for -png (overrides config)")
	pngPath    = flag.String("png", "", "Render one frame to this PNG and exit")
	glbPath    = flag.String("glb", "", "Export the level to this GLB and exit")
	targetFPS  = flag.Int("fps", 35, "Target FPS")
	logLevel   = flag.String("log", "", "Log level: debug, info, warn, error (overrides config)")
)

const (
	moveSpeed = 6.0 // map units per frame
	turnSpeed = 4.0 // degrees per frame
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "retroview - BSP software renderer in the terminal\n\n")
		fmt.Fprintf(os.Stderr, "Usage: retroview [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  W/S A/D    - Move and turn (or arrow keys)\n")
		fmt.Fprintf(os.Stderr, "  Q/E        - Strafe\n")
		fmt.Fprintf(os.Stderr, "  F          - Cycle fuzz overlay\n")
		fmt.Fprintf(os.Stderr, "  P          - Pause fuzz\n")
		fmt.Fprintf(os.Stderr, "  M          - Toggle wall-range overlay\n")
		fmt.Fprintf(os.Stderr, "  R          - Reset position\n")
		fmt.Fprintf(os.Stderr, "  ?          - Toggle HUD\n")
		fmt.Fprintf(os.Stderr, "  Esc        - Quit\n")
	}
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *width > 0 {
		cfg.Screen.Width = *width
	}
	if *height > 0 {
		cfg.Screen.Height = *height
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if *targetFPS < 1 {
		return fmt.Errorf("fps must be positive, got %d", *targetFPS)
	}

	logFile, err := setupLogger(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()

	pal := palette.Default()
	if cfg.Render.Palette != "" {
		if pal, err = palette.Load(cfg.Render.Palette); err != nil {
			return err
		}
	}

	lvl, err := cfg.Level.Builder().Build()
	if err != nil {
		return fmt.Errorf("build level: %w", err)
	}
	slog.Info("level built",
		"sectors", len(lvl.Sectors), "segs", len(lvl.Segs),
		"subsectors", len(lvl.Subsectors), "nodes", len(lvl.Nodes))

	if *glbPath != "" {
		return exportGLB(lvl, pal, *glbPath)
	}

	v := cfg.View
	player := NewPlayer(lvl, *targetFPS, v.X, v.Y, v.Z, v.Angle)

	if *pngPath != "" {
		return screenshot(cfg, lvl, pal, player, *pngPath)
	}
	return interactive(cfg, lvl, pal, player)
}

// setupLogger sends logs to the configured file; the terminal belongs to
// the viewer.
func setupLogger(cfg *config.Config) (io.Closer, error) {
	lvl, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	var out io.WriteCloser = nopCloser{os.Stderr}
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log: %w", err)
		}
		out = f
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: lvl})))
	return out, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func exportGLB(lvl *level.Level, pal *palette.Palette, path string) error {
	mesh := export.FromLevel(lvl, "retroview", export.Options{
		Palette:  pal,
		Textures: draw.DefaultTextures(),
	})
	if err := export.SaveGLB(path, mesh); err != nil {
		return err
	}
	slog.Info("exported", "path", path, "triangles", mesh.TriangleCount(), "materials", len(mesh.Materials))
	fmt.Printf("Exported %s (%d triangles)\n", path, mesh.TriangleCount())
	return nil
}

func screenshot(cfg *config.Config, lvl *level.Level, pal *palette.Palette, player *Player, path string) error {
	scene, err := NewScene(cfg, lvl, pal, cfg.Screen.Width, cfg.Screen.Height)
	if err != nil {
		return err
	}
	stats, err := scene.Draw(player.View)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	slog.Info("frame", "stats", stats)
	return scene.Screen.SavePNG(path, pal, cfg.Screen.PNGScale)
}

func interactive(cfg *config.Config, lvl *level.Level, pal *palette.Palette, player *Player) error {
	term := uv.DefaultTerminal()

	cols, rows, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(cols, rows)

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	// Each terminal row shows two screen rows.
	scene, err := NewScene(cfg, lvl, pal, cols, rows*2)
	if err != nil {
		return err
	}
	hud := NewHUD()
	start := player.View

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Events are handled on the frame loop so nothing races the renderer.
	events := make(chan uv.Event, 64)
	go func() {
		for ev := range term.Events() {
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	handle := func(ev uv.Event) error {
		switch ev := ev.(type) {
		case uv.WindowSizeEvent:
			cols, rows = ev.Width, ev.Height
			term.Erase()
			term.Resize(cols, rows)
			if err := scene.Resize(cols, rows*2); err != nil {
				return err
			}
			slog.Debug("resized", "cols", cols, "rows", rows)

		case uv.KeyPressEvent:
			switch {
			case ev.MatchString("escape"), ev.MatchString("ctrl+c"):
				cancel()
			case ev.MatchString("w", "up"):
				player.Forward.Velocity = moveSpeed
			case ev.MatchString("s", "down"):
				player.Forward.Velocity = -moveSpeed
			case ev.MatchString("a", "left"):
				player.Turn.Velocity = turnSpeed
			case ev.MatchString("d", "right"):
				player.Turn.Velocity = -turnSpeed
			case ev.MatchString("q"):
				player.Strafe.Velocity = -moveSpeed
			case ev.MatchString("e"):
				player.Strafe.Velocity = moveSpeed
			case ev.MatchString("r"):
				player.View = start
				player.Reset()
			case ev.MatchString("f"):
				scene.Fuzz = (scene.Fuzz + 1) % 3
			case ev.MatchString("p"):
				scene.FuzzPaused = !scene.FuzzPaused
			case ev.MatchString("m"):
				scene.ShowRanges = !scene.ShowRanges
			case ev.MatchString("?"), ev.MatchString("shift+/"):
				hud.Show = !hud.Show
			}
		}
		return nil
	}

	targetDuration := time.Second / time.Duration(*targetFPS)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		now := time.Now()
	drain:
		for {
			select {
			case ev := <-events:
				if err := handle(ev); err != nil {
					return err
				}
			default:
				break drain
			}
		}

		player.Update()
		stats, err := scene.Draw(player.View)
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}

		scene.Screen.Draw(term, uv.Rect(0, 0, cols, rows), pal)
		if err := term.Display(); err != nil {
			return fmt.Errorf("display: %w", err)
		}

		hud.UpdateFPS()
		hud.Render(cols, rows, stats, player.View, scene)

		if elapsed := time.Since(now); elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
