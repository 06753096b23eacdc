package structs

import (
	"fmt"
	"strings"
)

// CondEnv is what a precondition is evaluated against: the session flag
// table and the per-object state bags.
type CondEnv interface {
	Flag(name string) (FlagValue, bool)
	ObjectState(objectID, key string) (string, bool)
}

// FlagIs matches a session flag against a value.
type FlagIs struct {
	Name string    `yaml:"name"`
	Is   FlagValue `yaml:"is"`
}

// StateIs matches one entry of an object state bag. Object defaults to the
// object the interaction belongs to.
type StateIs struct {
	Object string `yaml:"object,omitempty"`
	Key    string `yaml:"key"`
	Is     string `yaml:"is"`
}

// Cond is a small expression tree over flags and object state. Content
// stays data-only: no executable code, every node is declaratively
// validatable and fuzzable. Exactly one field may be set per node.
type Cond struct {
	All   []*Cond  `yaml:"all,omitempty"`
	Any   []*Cond  `yaml:"any,omitempty"`
	Not   *Cond    `yaml:"not,omitempty"`
	Flag  *FlagIs  `yaml:"flag,omitempty"`
	State *StateIs `yaml:"state,omitempty"`
}

// Eval evaluates the tree against env. self names the object whose
// interaction table the condition came from; StateIs nodes without an
// explicit object refer to it. A nil condition is true.
func (c *Cond) Eval(env CondEnv, self string) bool {
	if c == nil {
		return true
	}
	switch {
	case len(c.All) > 0:
		for _, sub := range c.All {
			if !sub.Eval(env, self) {
				return false
			}
		}
		return true
	case len(c.Any) > 0:
		for _, sub := range c.Any {
			if sub.Eval(env, self) {
				return true
			}
		}
		return false
	case c.Not != nil:
		return !c.Not.Eval(env, self)
	case c.Flag != nil:
		val, _ := env.Flag(c.Flag.Name)
		return val == c.Flag.Is
	case c.State != nil:
		objectID := c.State.Object
		if objectID == "" {
			objectID = self
		}
		val, _ := env.ObjectState(objectID, c.State.Key)
		return val == c.State.Is
	}
	return true
}

// Refs calls flag for every flag name and object for every explicit object
// id the tree references. Used by load-time validation.
func (c *Cond) Refs(flag func(name string), object func(id string)) {
	if c == nil {
		return
	}
	for _, sub := range c.All {
		sub.Refs(flag, object)
	}
	for _, sub := range c.Any {
		sub.Refs(flag, object)
	}
	c.Not.Refs(flag, object)
	if c.Flag != nil {
		flag(c.Flag.Name)
	}
	if c.State != nil && c.State.Object != "" {
		object(c.State.Object)
	}
}

// Check rejects structurally malformed nodes: empty nodes and nodes with
// more than one populated field.
func (c *Cond) Check() error {
	if c == nil {
		return nil
	}
	populated := 0
	if len(c.All) > 0 {
		populated++
	}
	if len(c.Any) > 0 {
		populated++
	}
	if c.Not != nil {
		populated++
	}
	if c.Flag != nil {
		populated++
	}
	if c.State != nil {
		populated++
	}
	if populated != 1 {
		return fmt.Errorf("condition node must populate exactly one of all/any/not/flag/state, got %d", populated)
	}
	for _, sub := range c.All {
		if err := sub.Check(); err != nil {
			return err
		}
	}
	for _, sub := range c.Any {
		if err := sub.Check(); err != nil {
			return err
		}
	}
	if err := c.Not.Check(); err != nil {
		return err
	}
	if c.State != nil && strings.TrimSpace(c.State.Key) == "" {
		return fmt.Errorf("state condition needs a key")
	}
	if c.Flag != nil && strings.TrimSpace(c.Flag.Name) == "" {
		return fmt.Errorf("flag condition needs a name")
	}
	return nil
}
