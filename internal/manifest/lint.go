package manifest

import (
	"fmt"
	"strings"
)

// Finding is a single declared-dependency diagnostic. Findings never affect
// registration; the app logs them as warnings at boot and the diagnostics
// surface exposes them.
type Finding struct {
	ModuleID string
	Detail   string
}

// String renders a finding for log output.
func (f Finding) String() string {
	return fmt.Sprintf("module '%s': %s", f.ModuleID, f.Detail)
}

// Lint inspects the declared dependentModules metadata across descriptors
// and reports unknown ids, self references, and declaration cycles. The
// metadata stays purely declarative: manifest order remains authoritative
// for registration, so none of these findings is an error.
func Lint(descs []*Descriptor) []Finding {
	known := make(map[string]struct{}, len(descs))
	for _, d := range descs {
		known[d.ID] = struct{}{}
	}

	var findings []Finding

	// Edges between known, non-self ids feed the cycle walk below.
	edges := make(map[string][]string, len(descs))
	for _, d := range descs {
		for _, dep := range d.DependentModules {
			switch {
			case dep == d.ID:
				findings = append(findings, Finding{
					ModuleID: d.ID,
					Detail:   "declares a dependency on itself",
				})
			default:
				if _, ok := known[dep]; !ok {
					findings = append(findings, Finding{
						ModuleID: d.ID,
						Detail:   fmt.Sprintf("declares a dependency on unknown module '%s'", dep),
					})
					continue
				}
				edges[d.ID] = append(edges[d.ID], dep)
			}
		}
	}

	findings = append(findings, findCycles(descs, edges)...)
	return findings
}

const (
	colorUnvisited = iota
	colorInStack
	colorDone
)

// findCycles walks the declaration graph depth-first in manifest order and
// reports each dependency cycle once, on the module where it was discovered.
func findCycles(descs []*Descriptor, edges map[string][]string) []Finding {
	color := make(map[string]int, len(descs))
	var findings []Finding
	var stack []string

	var visit func(id string)
	visit = func(id string) {
		color[id] = colorInStack
		stack = append(stack, id)

		for _, dep := range edges[id] {
			switch color[dep] {
			case colorUnvisited:
				visit(dep)
			case colorInStack:
				start := 0
				for i, s := range stack {
					if s == dep {
						start = i
						break
					}
				}
				path := append(append([]string{}, stack[start:]...), dep)
				findings = append(findings, Finding{
					ModuleID: id,
					Detail:   fmt.Sprintf("declared dependency cycle: %s", strings.Join(path, " -> ")),
				})
			}
		}

		stack = stack[:len(stack)-1]
		color[id] = colorDone
	}

	for _, d := range descs {
		if color[d.ID] == colorUnvisited {
			visit(d.ID)
		}
	}
	return findings
}
