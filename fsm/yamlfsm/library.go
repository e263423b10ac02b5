package yamlfsm

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/milk9111/entitystate/ecs"
	"github.com/milk9111/entitystate/fsm"
)

// Library keeps the compiled machine of every loaded file and swaps
// entities over to new definitions when a file is reloaded.
type Library struct {
	registry *Registry
	logger   *slog.Logger

	mu       sync.Mutex
	machines map[string]*Machine
}

func NewLibrary(r *Registry, logger *slog.Logger) *Library {
	if logger == nil {
		logger = slog.Default()
	}
	return &Library{registry: r, logger: logger, machines: map[string]*Machine{}}
}

func (l *Library) compileFile(path string) (*Machine, error) {
	f, err := Load(path)
	if err != nil {
		return nil, err
	}
	m, err := l.registry.Compile(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Load compiles the file at path and remembers it.
func (l *Library) Load(path string) (*Machine, error) {
	path = filepath.Clean(path)
	m, err := l.compileFile(path)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.machines[path] = m
	l.mu.Unlock()
	return m, nil
}

// Machine returns the last compiled machine of path.
func (l *Library) Machine(path string) (*Machine, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.machines[filepath.Clean(path)]
	return m, ok
}

// Reload recompiles path and moves every entity driven by the previous
// definition to the new one. On a compile error the previous definition
// stays in place. Entities whose current state is missing from the new
// definition keep the old one and are reported.
func (l *Library) Reload(w *ecs.World, path string) (int, error) {
	path = filepath.Clean(path)
	l.mu.Lock()
	old, ok := l.machines[path]
	l.mu.Unlock()
	if !ok {
		return 0, fmt.Errorf("yamlfsm: reload %s: not loaded", path)
	}

	next, err := l.compileFile(path)
	if err != nil {
		return 0, err
	}
	l.mu.Lock()
	l.machines[path] = next
	l.mu.Unlock()

	var (
		moved int
		errs  []error
	)
	ecs.ForEach(w, fsm.MachineComponent.Kind(), func(e ecs.Entity, inst *fsm.Machine) {
		if inst.Definition() != old.Def {
			return
		}
		if err := fsm.Replace(w, e, next.Def); err != nil {
			errs = append(errs, err)
			return
		}
		moved++
	})
	l.logger.Info("machine reloaded",
		"path", path,
		"machine", next.Def.Name(),
		"entities", moved,
	)
	return moved, errors.Join(errs...)
}

// ReloadSystem applies changes reported by a Watcher from inside the tick,
// so definitions are only swapped between evaluations.
type ReloadSystem struct {
	library *Library
	watcher *Watcher
	logger  *slog.Logger
}

func NewReloadSystem(l *Library, w *Watcher) *ReloadSystem {
	return &ReloadSystem{library: l, watcher: w, logger: l.logger}
}

func (s *ReloadSystem) Update(w *ecs.World) {
	for {
		select {
		case path, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if _, loaded := s.library.Machine(path); !loaded {
				continue
			}
			if _, err := s.library.Reload(w, path); err != nil {
				s.logger.Error("machine reload failed", "path", path, "err", err)
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Error("machine watcher", "err", err)
		default:
			return
		}
	}
}
