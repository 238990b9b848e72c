package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agnivade/levenshtein"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/modshell/modshell/internal/catalog"
	"github.com/modshell/modshell/internal/ctxlog"
	"github.com/modshell/modshell/internal/fsutil"
	"github.com/modshell/modshell/internal/manifest"
)

// Suggestions further than this edit distance from the unknown name are
// noise, not help.
const maxSuggestionDistance = 3

// Loader is the HCL implementation of the manifest.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL manifest loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every manifest file under the given paths, stitches
// component declarations to catalog implementations, and returns the
// descriptors in file order. It is agnostic to whether a path is a file
// or a directory; paths that don't exist are skipped.
func (l *Loader) Load(ctx context.Context, cat *catalog.Catalog, paths ...string) ([]*manifest.Descriptor, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Manifest loader started.", "path_count", len(paths))

	files, err := l.findManifestFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered manifest files.", "count", len(files))

	parser := hclparse.NewParser()
	descs := make([]*manifest.Descriptor, 0)

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse manifest file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode manifest file %s: %w", file, diags)
		}

		for _, mod := range root.Modules {
			if !mod.enabled() {
				logger.Info("Skipping disabled module.", "module", mod.ID, "file", file)
				continue
			}
			desc, err := l.translateModule(cat, mod)
			if err != nil {
				return nil, err
			}
			descs = append(descs, desc)
		}
	}

	logger.Debug("Manifest loading complete.", "modules", len(descs))
	return descs, nil
}

// translateModule converts one decoded module block into a descriptor,
// resolving each component's implementation name against the catalog.
func (l *Loader) translateModule(cat *catalog.Catalog, mod *moduleBlock) (*manifest.Descriptor, error) {
	desc := &manifest.Descriptor{
		ID:               mod.ID,
		Version:          mod.Version,
		Description:      mod.Description,
		Author:           mod.Author,
		DependentModules: mod.DependentModules,
	}

	for _, comp := range mod.Components {
		impl, ok := cat.Lookup(comp.Impl)
		if !ok {
			return nil, &manifest.ConfigError{
				ModuleID: mod.ID,
				Reason:   unknownImplReason(comp.Impl, comp.Slot, cat.Names()),
			}
		}
		desc.Components = append(desc.Components, manifest.Component{
			Slot:     manifest.Slot(comp.Slot),
			ImplName: comp.Impl,
			Impl:     impl,
			Gate:     comp.When,
		})
	}

	if mod.Config != nil {
		cfg, err := decodeConfigBlock(mod.Config.Body)
		if err != nil {
			return nil, &manifest.ConfigError{
				ModuleID: mod.ID,
				Reason:   fmt.Sprintf("config block: %v", err),
			}
		}
		desc.Config = cfg
	}

	return desc, nil
}

// decodeConfigBlock evaluates the block's attributes into plain Go
// values. Manifest config is literal-only: expressions cannot reference
// variables or call functions.
func decodeConfigBlock(body hcl.Body) (map[string]any, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}
	if len(attrs) == 0 {
		return nil, nil
	}

	cfg := make(map[string]any, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("attribute '%s': %w", name, diags)
		}
		gv, err := fromCty(val)
		if err != nil {
			return nil, fmt.Errorf("attribute '%s': %w", name, err)
		}
		cfg[name] = gv
	}
	return cfg, nil
}

// unknownImplReason formats the fatal reason for an unresolvable
// implementation name, with a closest-match hint when one is near enough.
func unknownImplReason(implName, slot string, known []string) string {
	reason := fmt.Sprintf("unknown implementation '%s' for slot '%s'", implName, slot)
	if suggestion, ok := closestName(implName, known); ok {
		reason += fmt.Sprintf(" (did you mean '%s'?)", suggestion)
	}
	return reason
}

// closestName returns the registered name nearest to the given one, if
// any falls within maxSuggestionDistance.
func closestName(name string, known []string) (string, bool) {
	best := ""
	bestDist := maxSuggestionDistance + 1
	for _, candidate := range known {
		if d := levenshtein.ComputeDistance(name, candidate); d < bestDist {
			best = candidate
			bestDist = d
		}
	}
	return best, best != ""
}

// findManifestFiles resolves the configured paths to a deterministic,
// de-duplicated list of .hcl files.
func (l *Loader) findManifestFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})

	add := func(file string) {
		if _, wasSeen := seen[file]; !wasSeen {
			allFiles = append(allFiles, file)
			seen[file] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue // It's not an error if a configured path doesn't exist.
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if info.IsDir() {
			found, err := fsutil.FindFilesByExtension(path, ".hcl")
			if err != nil {
				return nil, err
			}
			for _, file := range found {
				add(file)
			}
		} else if filepath.Ext(path) == ".hcl" {
			add(path)
		}
	}
	return allFiles, nil
}
