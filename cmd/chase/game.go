package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"math/rand/v2"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"

	"github.com/milk9111/entitystate/ecs"
	"github.com/milk9111/entitystate/fsm"
	"github.com/milk9111/entitystate/fsm/input"
	"github.com/milk9111/entitystate/fsm/input/keyboard"
	"github.com/milk9111/entitystate/fsm/yamlfsm"
)

const entitySize = 16

type Game struct {
	cfg    Config
	logger *slog.Logger

	world   *ecs.World
	sched   *ecs.Scheduler
	machine *yamlfsm.Machine
	hits    *HitCounter
	watcher *yamlfsm.Watcher

	face   ebtext.Face
	ui     *ebitenui.UI
	paused bool
	frames int
}

func NewGame(cfg Config, machinePath string, watch bool, logger *slog.Logger) (*Game, error) {
	g := &Game{
		cfg:    cfg,
		logger: logger,
		world:  ecs.NewWorld(),
		sched:  ecs.NewScheduler(),
		hits:   &HitCounter{},
		face:   ebtext.NewGoXFace(basicfont.Face7x13),
	}
	g.ui = NewPauseUI(g)

	registry := newRegistry(cfg)
	library := yamlfsm.NewLibrary(registry, logger)
	if machinePath == "" {
		data, err := defaultsFS.ReadFile("machines/chaser.yaml")
		if err != nil {
			return nil, fmt.Errorf("chase: read default machine: %w", err)
		}
		f, err := yamlfsm.Parse(data)
		if err != nil {
			return nil, err
		}
		if g.machine, err = registry.Compile(f); err != nil {
			return nil, err
		}
	} else {
		m, err := library.Load(machinePath)
		if err != nil {
			return nil, err
		}
		g.machine = m
	}

	g.sched.AddTo(ecs.PreUpdate, keyboard.NewSystem(nil))
	g.sched.Add(&PlayerMoveSystem{width: float64(cfg.Width), height: float64(cfg.Height)})
	g.sched.Add(ChaseSystem{})
	g.sched.Add(TimerSystem{})
	fsm.Install(g.sched, fsm.WithLogger(logger))
	g.sched.AddTo(ecs.PostUpdate, g.hits)

	if watch {
		w, err := yamlfsm.NewWatcher(machinePath)
		if err != nil {
			return nil, fmt.Errorf("chase: watch %s: %w", machinePath, err)
		}
		g.watcher = w
		g.sched.AddTo(ecs.PreUpdate, yamlfsm.NewReloadSystem(library, w))
	}

	if err := g.spawn(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Game) spawn() error {
	w := g.world
	player := w.CreateEntity()
	center := cp.Vector{X: float64(g.cfg.Width) / 2, Y: float64(g.cfg.Height) / 2}
	if err := ecs.Add(w, player, PlayerComponent.Kind(), &Player{Speed: g.cfg.PlayerSpeed}); err != nil {
		return err
	}
	if err := ecs.Add(w, player, PositionComponent.Kind(), &Position{Vector: center}); err != nil {
		return err
	}
	if err := ecs.Add(w, player, input.ActionStateComponent.Kind(), input.NewActionState()); err != nil {
		return err
	}

	for i := 0; i < g.cfg.Enemies; i++ {
		home := cp.Vector{
			X: rand.Float64() * float64(g.cfg.Width),
			Y: rand.Float64() * float64(g.cfg.Height),
		}
		e := w.CreateEntity()
		if err := ecs.Add(w, e, ChaserComponent.Kind(), &Chaser{Speed: g.cfg.EnemySpeed, Home: home}); err != nil {
			return err
		}
		if err := ecs.Add(w, e, PositionComponent.Kind(), &Position{Vector: home}); err != nil {
			return err
		}
		if err := g.machine.Attach(w, e); err != nil {
			return err
		}
	}
	return nil
}

func (g *Game) Close() error {
	if g.watcher != nil {
		return g.watcher.Close()
	}
	return nil
}

func (g *Game) Update() error {
	if keyboard.JustPressedKey(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if g.paused {
		g.ui.Update()
		return nil
	}
	g.frames++
	g.sched.Update(g.world)
	return nil
}

func stateColor(name string) color.Color {
	switch name {
	case "chasing":
		return colornames.Orange
	case "attacking":
		return colornames.Red
	case "stunned":
		return colornames.Slateblue
	default:
		return colornames.Lightgrey
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	w := g.world
	ecs.ForEach2(w, PlayerComponent.Kind(), PositionComponent.Kind(), func(_ ecs.Entity, _ *Player, pos *Position) {
		vector.FillRect(screen, float32(pos.X-entitySize/2), float32(pos.Y-entitySize/2), entitySize, entitySize, colornames.White, false)
	})

	ecs.ForEach2(w, ChaserComponent.Kind(), PositionComponent.Kind(), func(e ecs.Entity, _ *Chaser, pos *Position) {
		name := "?"
		if s, err := fsm.CurrentState(w, e); err == nil {
			name = s.Name()
		}
		vector.FillRect(screen, float32(pos.X-entitySize/2), float32(pos.Y-entitySize/2), entitySize, entitySize, stateColor(name), false)

		if chasing, ok := ChasingState.Get(w, e); ok {
			if target, ok := ecs.Get(w, chasing.Target, PositionComponent.Kind()); ok {
				vector.StrokeLine(screen, float32(pos.X), float32(pos.Y), float32(target.X), float32(target.Y), 1, colornames.Orange, true)
			}
		}

		op := &ebtext.DrawOptions{}
		op.GeoM.Translate(pos.X-entitySize/2, pos.Y+entitySize)
		op.ColorScale.ScaleWithColor(colornames.White)
		ebtext.Draw(screen, name, g.face, op)
	})

	ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.2f    machine: %s    entities: %d    hits: %d", ebiten.ActualFPS(), g.machine.Def.Name(), g.world.EntityCount(), g.hits.Hits))

	if g.paused {
		g.ui.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}
