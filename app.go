package main

import (
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/serpent/audio"
	"github.com/pthm-cable/serpent/camera"
	"github.com/pthm-cable/serpent/config"
	"github.com/pthm-cable/serpent/game"
	"github.com/pthm-cable/serpent/renderer"
	"github.com/pthm-cable/serpent/telemetry"
	"github.com/pthm-cable/serpent/ui"
)

var keyHints = [][2]string{
	{"Mouse", "steer"},
	{"LMB", "hold to turn"},
	{"Space", "boost"},
	{"`", "steer mode"},
	{"Esc", "pause"},
	{"F1", "overlays"},
	{"F5", "snapshot"},
}

// app owns the window-side state wrapped around a Game.
type app struct {
	cfg  *config.Config
	g    *game.Game
	cam  *camera.Camera
	snd  *audio.SoundManager
	opts game.Options

	arena     *renderer.ArenaRenderer
	particles *renderer.ParticleRenderer
	gameOver  *renderer.GameOverPanel

	overlays    *ui.OverlayRegistry
	hud         *ui.HUD
	controls    *ui.ControlsPanel
	playerPanel *ui.PlayerPanel
	perfPanel   *ui.PerfPanel
	statsPanel  *ui.StatsPanel

	lastStats telemetry.WindowStats
	hasStats  bool
}

func runWindow(cfg *config.Config, opts game.Options, maxTicks, stepsPerUpdate int) {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	// Esc pauses instead of closing.
	rl.SetExitKey(0)

	g, err := game.New(cfg, opts)
	if err != nil {
		slog.Error("failed to create game", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	a := newApp(cfg, g, opts)
	defer a.snd.Cleanup()

	for !rl.WindowShouldClose() {
		a.update(stepsPerUpdate)
		a.draw()

		if maxTicks > 0 && int(g.Frame()) >= maxTicks {
			break
		}
	}
}

func newApp(cfg *config.Config, g *game.Game, opts game.Options) *app {
	cam := camera.FromConfig(cfg)
	a := &app{
		cfg:         cfg,
		g:           g,
		cam:         cam,
		snd:         audio.NewSoundManager(),
		opts:        opts,
		arena:       renderer.NewArenaRenderer(cam, cfg.Derived.WorldW32, cfg.Derived.WorldH32, cfg.Derived.Cell32),
		particles:   renderer.NewParticleRenderer(cam),
		gameOver:    renderer.NewGameOverPanel(),
		overlays:    ui.NewOverlayRegistry(),
		hud:         ui.NewHUD(),
		controls:    ui.NewControlsPanel(10, 100, 220),
		playerPanel: ui.NewPlayerPanel(220),
		perfPanel:   ui.NewPerfPanel(10, 100),
		statsPanel:  ui.NewStatsPanel(240),
	}

	if err := a.snd.Initialize(); err != nil {
		slog.Warn("audio unavailable", "error", err)
	}

	g.SetStatsCallback(func(ws telemetry.WindowStats) {
		a.lastStats = ws
		a.hasStats = true
	})

	if pos, head, ok := g.Player(); ok {
		cam.Follow(pos.X, pos.Y, head.Radius, true, 0)
	}
	return a
}

func (a *app) update(steps int) {
	dt := rl.GetFrameTime()
	if w, h := float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()); w != a.cam.ViewportW || h != a.cam.ViewportH {
		a.cam.Resize(w, h)
	}

	a.handleKeys()

	mouse := rl.GetMousePosition()
	aimX, aimY := a.cam.ScreenToWorld(mouse.X, mouse.Y)
	a.g.SetPlayerInput(aimX, aimY, rl.IsMouseButtonDown(rl.MouseButtonLeft), rl.IsKeyDown(rl.KeySpace))

	for range steps {
		a.g.Step(tickDT)
	}
	a.snd.PlayAll(a.g.DrainEvents())

	if pos, head, ok := a.g.Player(); ok && !head.Dead {
		a.cam.Follow(pos.X, pos.Y, head.Radius, head.Protected(), dt)
	}
	if !a.g.State().Paused {
		a.arena.Advance(dt)
	}
}

func (a *app) handleKeys() {
	if rl.IsKeyPressed(rl.KeyEscape) {
		a.g.TogglePause()
	}
	if rl.IsKeyPressed(rl.KeyGrave) {
		mode := a.g.ToggleControlMode()
		slog.Info("control mode", "mode", mode.String())
	}
	if rl.IsKeyPressed(rl.KeyF1) {
		a.controls.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyF5) {
		dir := a.opts.SnapshotDir
		if dir == "" {
			dir = "snapshots"
		}
		if _, err := a.g.SaveSnapshot(dir, nil); err != nil {
			slog.Error("failed to save snapshot", "error", err)
		}
	}
	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		a.overlays.HandleKeyPress(key)
	}
}

func (a *app) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 12, G: 14, B: 20, A: 255})

	a.arena.DrawWorld()
	if a.overlays.IsEnabled(ui.OverlayGrid) {
		a.arena.DrawGrid()
	}
	a.arena.DrawFood(a.g.Foods())

	opts := renderer.SnakeOptions{
		Magnet:    a.overlays.IsEnabled(ui.OverlayMagnet),
		Danger:    a.overlays.IsEnabled(ui.OverlayDanger),
		Colliders: a.overlays.IsEnabled(ui.OverlayBodies),
	}
	a.g.Snakes(func(v *game.SnakeView) {
		a.arena.DrawSnake(v, opts)
	})
	a.particles.Draw(a.g.Particles())

	a.drawUI()

	rl.EndDrawing()
	a.g.Perf().RecordFrame()
}

func (a *app) drawUI() {
	sw, sh := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	st := a.g.State()

	a.hud.Draw(ui.HUDData{
		Title:    a.cfg.Screen.Title,
		AICount:  st.AI,
		LiveFood: st.LiveFood,
		Frame:    st.Frame,
		SimTime:  st.SimTime,
		FPS:      rl.GetFPS(),
		Paused:   st.Paused && !st.GameOver,
		Mode:     a.g.PlayerMode(),
	})
	a.hud.DrawControls(sh, keyHints)

	// The perf panel stacks below the overlay toggles when both are open.
	y := a.controls.Draw(a.overlays)
	if a.overlays.IsEnabled(ui.OverlayPerf) {
		a.perfPanel.SetPosition(10, y+10)
		a.perfPanel.Draw(a.g.Perf().Stats(), a.g.Registry())
	}
	if a.hasStats && a.overlays.IsEnabled(ui.OverlayStats) {
		a.statsPanel.Draw(a.lastStats, sw, sh)
	}
	if _, head, ok := a.g.Player(); ok && !head.Dead && a.overlays.IsEnabled(ui.OverlayPlayerPanel) {
		a.playerPanel.Draw(head, sw, sh)
	}

	if st.GameOver {
		rec := a.g.PlayerDeath()
		data := renderer.GameOverData{
			Length:     rec.Length,
			PeakLength: rec.PeakLength,
			Kills:      rec.Kills,
			Survival:   rec.Survival,
			Rank:       a.g.PlayerRank(),
		}
		if a.gameOver.Draw(data, float32(sw), float32(sh)) {
			a.g.Restart()
			if pos, head, ok := a.g.Player(); ok {
				a.cam.Follow(pos.X, pos.Y, head.Radius, true, 0)
			}
		}
	}
}
