package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fyrsmithlabs/sqscan/internal/reactor"
)

// moduleJSON is the wire shape of one resolved module in --json output.
type moduleJSON struct {
	Key         string       `json:"key"`
	Name        string       `json:"name"`
	Version     string       `json:"version,omitempty"`
	Description string       `json:"description,omitempty"`
	BaseDir     string       `json:"baseDir"`
	WorkDir     string       `json:"workDir"`
	Sources     []string     `json:"sources,omitempty"`
	Tests       []string     `json:"tests,omitempty"`
	Modules     []moduleJSON `json:"modules,omitempty"`
}

func toModuleJSON(def *reactor.Definition) moduleJSON {
	out := moduleJSON{
		Key:         def.Key(),
		Name:        def.Name(),
		Version:     def.Version(),
		Description: def.Description(),
		BaseDir:     def.BaseDir(),
		WorkDir:     def.WorkDir(),
		Sources:     def.SourceDirs(),
		Tests:       def.TestDirs(),
	}
	for _, sub := range def.SubProjects() {
		out.Modules = append(out.Modules, toModuleJSON(sub))
	}
	return out
}

func renderJSON(w io.Writer, r *reactor.Reactor) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toModuleJSON(r.Root()))
}

func renderText(w io.Writer, r *reactor.Reactor) {
	renderModule(w, r.Root(), 0)
}

func renderModule(w io.Writer, def *reactor.Definition, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%s%s", indent, def.Key())
	if def.Name() != "" && def.Name() != def.Key() {
		fmt.Fprintf(w, " (%s)", def.Name())
	}
	if def.Version() != "" {
		fmt.Fprintf(w, " %s", def.Version())
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s  base dir: %s\n", indent, def.BaseDir())
	if sources := def.SourceDirs(); len(sources) > 0 {
		fmt.Fprintf(w, "%s  sources:  %s\n", indent, strings.Join(sources, ", "))
	}
	for _, sub := range def.SubProjects() {
		renderModule(w, sub, depth+1)
	}
}
