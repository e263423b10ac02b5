// Command fsmlint checks YAML machine files.
//
//	fsmlint [-allow near,far] [-watch] machines/
//
// Custom triggers and hooks registered by a game are unknown to fsmlint; name
// them with -allow and -allow-hooks so files using them still compile.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/entitystate/ecs"
	"github.com/milk9111/entitystate/fsm"
	"github.com/milk9111/entitystate/fsm/yamlfsm"
)

func main() {
	allow := flag.String("allow", "", "comma separated trigger names to accept without checking")
	allowHooks := flag.String("allow-hooks", "", "comma separated hook names to accept without checking")
	watch := flag.Bool("watch", false, "keep running and check files again when they change")
	verbose := flag.Bool("v", false, "print a summary of every valid machine")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: fsmlint [flags] file-or-dir...")
		flag.PrintDefaults()
		os.Exit(2)
	}

	newRegistry := func() *yamlfsm.Registry {
		r := yamlfsm.NewRegistry()
		for _, name := range splitList(*allow) {
			r.RegisterTrigger(name, func(*yaml.Node) (yamlfsm.Trigger, error) {
				return yamlfsm.Erase(fsm.Always()), nil
			})
		}
		for _, name := range splitList(*allowHooks) {
			r.RegisterHook(name, func(*yaml.Node) (fsm.Hook, error) {
				return func(*ecs.EntityCommands) {}, nil
			})
		}
		return r
	}

	files, err := collect(flag.Args())
	if err != nil {
		logger.Error("collect files", "err", err)
		os.Exit(1)
	}

	failed := 0
	for _, path := range files {
		if !lint(newRegistry(), path, *verbose, logger) {
			failed++
		}
	}
	if !*watch {
		if failed > 0 {
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := watchFiles(ctx, flag.Args(), func(path string) {
		lint(newRegistry(), path, *verbose, logger)
	}); err != nil {
		logger.Error("watch", "err", err)
		os.Exit(1)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// collect expands directories into the machine files they contain.
func collect(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && yamlfsm.IsMachineFile(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func lint(r *yamlfsm.Registry, path string, verbose bool, logger *slog.Logger) bool {
	f, err := yamlfsm.Load(path)
	if err == nil {
		var m *yamlfsm.Machine
		if m, err = r.Compile(f); err == nil {
			if verbose {
				printSummary(path, m)
			}
			return true
		}
	}
	for _, e := range flatten(err) {
		fmt.Fprintf(os.Stderr, "%s: %v\n", path, e)
	}
	logger.Debug("lint failed", "path", path)
	return false
}

// flatten splits joined errors so each problem is printed on its own line.
func flatten(err error) []error {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		var out []error
		for _, e := range joined.Unwrap() {
			out = append(out, flatten(e)...)
		}
		return out
	}
	return []error{err}
}

func printSummary(path string, m *yamlfsm.Machine) {
	names := make([]string, 0, len(m.Def.States()))
	for _, s := range m.Def.States() {
		names = append(names, s.Name())
	}
	fmt.Printf("%s: machine %s, initial %s, states [%s], %d transitions\n",
		path, m.Def.Name(), m.Initial().Name(), strings.Join(names, ", "), m.Def.Transitions())
}

func watchFiles(ctx context.Context, paths []string, onChange func(string)) error {
	w, err := yamlfsm.NewWatcher(paths...)
	if err != nil {
		return err
	}
	defer w.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case path, ok := <-w.Events:
			if !ok {
				return nil
			}
			onChange(path)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
