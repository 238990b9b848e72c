package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot is the top-level structure of a manifest file.
type fileRoot struct {
	Modules []*moduleBlock `hcl:"module,block"`
	Remain  hcl.Body       `hcl:",remain"`
}

// moduleBlock represents a `module "<id>"` block.
type moduleBlock struct {
	ID               string            `hcl:"id,label"`
	Version          string            `hcl:"version,optional"`
	Description      string            `hcl:"description,optional"`
	Author           string            `hcl:"author,optional"`
	Enabled          *bool             `hcl:"enabled,optional"`
	DependentModules []string          `hcl:"dependent_modules,optional"`
	Components       []*componentBlock `hcl:"component,block"`
	Config           *configBlock      `hcl:"config,block"`
}

// componentBlock represents a `component "<slot>"` block binding the slot
// to a catalog implementation by name, optionally behind a flag gate.
type componentBlock struct {
	Slot string `hcl:"slot,label"`
	Impl string `hcl:"impl"`
	When string `hcl:"when,optional"`
}

// configBlock carries the module's free-form configuration attributes.
type configBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// enabled reports the block's effective enablement; omitting the
// attribute means enabled.
func (m *moduleBlock) enabled() bool {
	return m.Enabled == nil || *m.Enabled
}
