// Package cmd implements the CLI command structure for tasktrack.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasktrack/internal/config"
	"github.com/nibzard/tasktrack/internal/export"
	"github.com/nibzard/tasktrack/internal/logging"
	"github.com/nibzard/tasktrack/internal/render"
	"github.com/nibzard/tasktrack/internal/task"
	"github.com/nibzard/tasktrack/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the tasktrack CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("tasktrack", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := logging.New(os.Stderr, cfg)

	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// With no command the tool prints usage and exits cleanly.
	remaining := fs.Args()
	if len(remaining) == 0 {
		printUsage(fs, os.Stdout)
		return nil
	}
	subcommand := remaining[0]
	remaining = remaining[1:]

	switch subcommand {
	case "add":
		return addCommand(cfg, logger, remaining)
	case "update":
		return updateCommand(cfg, logger, remaining)
	case "delete":
		return deleteCommand(cfg, logger, remaining)
	case "mark-in-progress":
		return markCommand(cfg, logger, task.StatusInProgress, remaining)
	case "mark-done":
		return markCommand(cfg, logger, task.StatusDone, remaining)
	case "list":
		return listCommand(cfg, logger, remaining)
	case "export":
		return exportCommand(cfg, logger, remaining)
	case "doctor":
		return doctorCommand(cfg, remaining)
	case "tui":
		return ui.RunTUI(ctx, cfg.StoragePath)
	case "version", "--version", "-v":
		return versionCommand()
	case "help", "--help", "-h":
		printUsage(fs, os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// openStore opens the store and reports any absorbed load problem.
// Corrupt content is a documented quirk (the store starts empty), so
// it only surfaces at debug level; an unreadable file is louder.
func openStore(cfg *config.Config, logger *log.Logger) (*task.Store, error) {
	store, err := task.Open(cfg.StoragePath)
	if err != nil {
		return nil, err
	}
	if loadErr := store.LoadErr(); loadErr != nil {
		if errors.Is(loadErr, task.ErrCorrupt) {
			logger.Debug("recovered from corrupt storage, starting empty", "err", loadErr)
		} else {
			logger.Warn("storage unreadable, starting empty", "err", loadErr)
		}
	}
	return store, nil
}

// addCommand creates a new task from the remaining arguments.
func addCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("tasktrack add", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	description := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if description == "" {
		return fmt.Errorf("add requires a task description")
	}

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}

	t, err := store.Add(description)
	if err != nil {
		return fmt.Errorf("adding task: %w", err)
	}

	fmt.Printf("Task added successfully (ID: %d)\n", t.ID)
	fmt.Println(render.Table([]task.Task{t}))
	return nil
}

// updateCommand replaces a task's description.
func updateCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("tasktrack update", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) < 2 {
		return fmt.Errorf("update requires a task id and a new description")
	}
	id, err := parseID(rest[0])
	if err != nil {
		return err
	}
	description := strings.TrimSpace(strings.Join(rest[1:], " "))
	if description == "" {
		return fmt.Errorf("update requires a non-empty description")
	}

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}

	found, err := store.Update(id, description)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	if !found {
		fmt.Printf("Task with ID %d not found.\n", id)
		return nil
	}

	fmt.Printf("Task updated successfully (ID: %d)\n", id)
	return nil
}

// deleteCommand removes a task by id.
func deleteCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("tasktrack delete", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) != 1 {
		return fmt.Errorf("delete requires exactly one task id")
	}
	id, err := parseID(rest[0])
	if err != nil {
		return err
	}

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}

	found, err := store.Delete(id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	if !found {
		fmt.Printf("Task with ID %d not found.\n", id)
		return nil
	}

	fmt.Printf("Task deleted successfully (ID: %d)\n", id)
	return nil
}

// markCommand sets a task's status. Transitions are unconstrained:
// any status can be set from any other.
func markCommand(cfg *config.Config, logger *log.Logger, status task.Status, args []string) error {
	fs := flag.NewFlagSet("tasktrack mark", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) != 1 {
		return fmt.Errorf("mark requires exactly one task id")
	}
	id, err := parseID(rest[0])
	if err != nil {
		return err
	}

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}

	found, err := store.MarkStatus(id, status)
	if err != nil {
		return fmt.Errorf("marking task: %w", err)
	}
	if !found {
		fmt.Printf("Task with ID %d not found.\n", id)
		return nil
	}

	fmt.Printf("Task marked as %s (ID: %d)\n", status, id)
	return nil
}

// listCommand renders all tasks, or only those with the given status.
func listCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("tasktrack list", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) > 1 {
		return fmt.Errorf("unexpected arguments: %v", rest[1:])
	}

	var filter task.Status
	if len(rest) == 1 {
		parsed, err := task.ParseStatus(rest[0])
		if err != nil {
			return err
		}
		filter = parsed
	}

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}

	fmt.Println(render.Render(store.List(filter)))
	return nil
}

// exportCommand writes the task list as json, csv, or pdf.
func exportCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("tasktrack export", flag.ContinueOnError)
	format := fs.String("format", "json", "Export format (json|csv|pdf)")
	out := fs.String("out", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if rest := fs.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected arguments: %v", rest)
	}

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := export.Write(w, store.List(""), *format); err != nil {
		return fmt.Errorf("exporting tasks: %w", err)
	}
	if *out != "" {
		fmt.Printf("Exported %d tasks to %s\n", store.Len(), *out)
	}
	return nil
}

// doctorCommand checks the storage directory and tasks.json validity.
func doctorCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasktrack doctor", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if rest := fs.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected arguments: %v", rest)
	}

	fmt.Println("Tasktrack Doctor")
	fmt.Println("================")
	fmt.Println()

	allOK := true

	fmt.Printf("Storage directory: %s\n", cfg.StoragePath)
	if info, err := os.Stat(cfg.StoragePath); err != nil {
		if os.IsNotExist(err) {
			fmt.Println("  ⚠️  Not found (will be created on first command)")
		} else {
			fmt.Printf("  ❌ Error: %v\n", err)
			allOK = false
		}
	} else if !info.IsDir() {
		fmt.Println("  ❌ Error: path is not a directory")
		allOK = false
	} else {
		fmt.Println("  ✅ OK")
	}
	fmt.Println()

	tasksPath := cfg.StoragePath + string(os.PathSeparator) + task.FileName
	fmt.Printf("Tasks file: %s\n", tasksPath)
	if info, err := os.Stat(tasksPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Println("  ⚠️  Not found (will be created on first add)")
		} else {
			fmt.Printf("  ❌ Error: %v\n", err)
			allOK = false
		}
	} else if info.IsDir() {
		fmt.Println("  ❌ Error: path is a directory")
		allOK = false
	} else if err := task.ValidateFile(tasksPath); err != nil {
		fmt.Printf("  ❌ %v\n", err)
		allOK = false
	} else {
		store, err := task.Open(cfg.StoragePath)
		if err != nil {
			fmt.Printf("  ❌ Error: %v\n", err)
			allOK = false
		} else {
			fmt.Printf("  ✅ Valid (%d tasks)\n", store.Len())
		}
	}
	fmt.Println()

	if allOK {
		fmt.Println("✅ All checks passed!")
		return nil
	}
	fmt.Println("⚠️  Some checks failed.")
	return fmt.Errorf("doctor checks failed")
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Printf("tasktrack version %s\n", Version)
	return nil
}

// parseID parses a positive integer task id.
func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Tasktrack - A local task tracker backed by tasks.json")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tasktrack [options] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  add <description>          Create a task")
	fmt.Fprintln(w, "  update <id> <description>  Edit a task's description")
	fmt.Fprintln(w, "  delete <id>                Remove a task")
	fmt.Fprintln(w, "  mark-in-progress <id>      Set a task's status to in-progress")
	fmt.Fprintln(w, "  mark-done <id>             Set a task's status to done")
	fmt.Fprintln(w, "  list [status]              Show tasks (todo|in-progress|done)")
	fmt.Fprintln(w, "  export                     Export tasks (json|csv|pdf)")
	fmt.Fprintln(w, "  doctor                     Check storage health")
	fmt.Fprintln(w, "  tui                        Launch terminal UI")
	fmt.Fprintln(w, "  version                    Show version information")
	fmt.Fprintln(w, "  help                       Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export Options (use with 'export' command):")
	fmt.Fprintln(w, "  -format string")
	fmt.Fprintln(w, "        Export format (json|csv|pdf) (default json)")
	fmt.Fprintln(w, "  -out string")
	fmt.Fprintln(w, "        Output file (default: stdout)")
}
