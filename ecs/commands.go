package ecs

import "github.com/milk9111/entitystate/ecs/component"

// Command is a deferred structural change.
type Command func(w *World)

// Commands queues structural changes until World.ApplyCommands runs them.
type Commands struct {
	queue []Command
}

// Push queues an arbitrary command.
func (c *Commands) Push(cmd Command) {
	if c == nil || cmd == nil {
		return
	}
	c.queue = append(c.queue, cmd)
}

// Len returns the number of pending commands.
func (c *Commands) Len() int {
	if c == nil {
		return 0
	}
	return len(c.queue)
}

// Spawn queues the creation of an entity; fn receives it once created.
func (c *Commands) Spawn(fn func(w *World, e Entity)) {
	c.Push(func(w *World) {
		e := w.CreateEntity()
		if fn != nil {
			fn(w, e)
		}
	})
}

// Entity returns a command builder scoped to e.
func (c *Commands) Entity(e Entity) *EntityCommands {
	return &EntityCommands{entity: e, commands: c}
}

// EntityCommands queues changes for a single entity. Changes aimed at an
// entity that is gone by the time they are applied are dropped.
type EntityCommands struct {
	entity   Entity
	commands *Commands
}

// ID returns the target entity.
func (ec *EntityCommands) ID() Entity {
	return ec.entity
}

// Commands returns the underlying queue, for changes to other entities.
func (ec *EntityCommands) Commands() *Commands {
	return ec.commands
}

// Insert queues adding v under the component id.
func (ec *EntityCommands) Insert(id component.ComponentID, v any) *EntityCommands {
	e := ec.entity
	ec.commands.Push(func(w *World) {
		_ = w.AddComponent(e, id, v)
	})
	return ec
}

// Remove queues removing the component id.
func (ec *EntityCommands) Remove(id component.ComponentID) *EntityCommands {
	e := ec.entity
	ec.commands.Push(func(w *World) {
		w.RemoveComponent(e, id)
	})
	return ec
}

// Despawn queues destroying the entity.
func (ec *EntityCommands) Despawn() {
	e := ec.entity
	ec.commands.Push(func(w *World) {
		w.DestroyEntity(e)
	})
}
