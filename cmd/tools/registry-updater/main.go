// cmd/tools/registry-updater/main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"compare-workers/internal/common/validation"
	"compare-workers/pkg/registry"
)

const defaultPath = "configs/activity-registry.json"

func main() {
	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "init":
		err = runInit(os.Args[2:])
	case "add":
		err = runAdd(os.Args[2:])
	case "update":
		err = runUpdate(os.Args[2:])
	case "validate":
		err = runValidate(os.Args[2:])
	default:
		help()
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runInit writes the registry compiled into the workers so it can be
// edited without rebuilding.
func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	path := fs.String("path", defaultPath, "Registry file to write")
	force := fs.Bool("force", false, "Overwrite an existing file")
	fs.Parse(args)

	if _, err := os.Stat(*path); err == nil && !*force {
		return fmt.Errorf("%s already exists, use -force to overwrite", *path)
	}
	reg := registry.Builtin()
	if err := save(reg, *path); err != nil {
		return err
	}
	fmt.Printf("Wrote %d activities to %s\n", len(reg.Activities), *path)
	return nil
}

func runAdd(args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	path := fs.String("path", defaultPath, "Registry file")
	id := fs.String("id", "", "Activity ID (domain.subdomain.action)")
	displayName := fs.String("displayName", "", "Display name")
	description := fs.String("description", "", "Description")
	category := fs.String("category", "", "Category (e.g. comparison)")
	taskType := fs.String("taskType", "", "Zeebe task type (kebab-case)")
	version := fs.String("version", "1.0.0", "Version")
	status := fs.String("status", "planned", "Implementation status (planned, in-progress, implemented)")
	timeout := fs.String("timeout", "10s", "Job timeout")
	retries := fs.Int("retries", 3, "Job retries")
	fs.Parse(args)

	if *id == "" || *displayName == "" || *category == "" || *taskType == "" {
		fs.Usage()
		return errors.New("id, displayName, category and taskType are required")
	}
	if _, err := registry.ParseTimeout(*timeout); err != nil {
		return err
	}

	reg, err := registry.LoadOrBuiltin(*path)
	if err != nil {
		return fmt.Errorf("load registry: %w", err)
	}
	if reg.FindByID(*id) != nil {
		return fmt.Errorf("activity %s already exists", *id)
	}
	reg.Activities = append(reg.Activities, registry.Activity{
		ID:                   *id,
		DisplayName:          *displayName,
		Description:          *description,
		Category:             *category,
		Version:              *version,
		TaskType:             *taskType,
		ImplementationStatus: *status,
		InputSchema:          map[string]interface{}{"type": "object"},
		OutputSchema:         map[string]interface{}{"type": "object"},
		ErrorCodes:           []string{},
		Timeout:              *timeout,
		Retries:              *retries,
		Workflows:            []string{},
		Tags:                 []string{},
	})
	if problems := reg.Validate(); len(problems) > 0 {
		return errors.Join(problems...)
	}
	if err := save(reg, *path); err != nil {
		return err
	}
	fmt.Printf("Added activity %s\n", *id)
	return nil
}

func runUpdate(args []string) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	path := fs.String("path", defaultPath, "Registry file")
	id := fs.String("id", "", "Activity ID to update")
	field := fs.String("field", "", "Field to update (status, version, displayName, description, category, timeout, retries)")
	value := fs.String("value", "", "New value")
	fs.Parse(args)

	if *id == "" || *field == "" || *value == "" {
		fs.Usage()
		return errors.New("id, field and value are required")
	}

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("load registry: %w", err)
	}
	a := reg.FindByID(*id)
	if a == nil {
		return fmt.Errorf("activity %s not found", *id)
	}

	switch *field {
	case "status":
		a.ImplementationStatus = *value
	case "version":
		a.Version = *value
	case "displayName":
		a.DisplayName = *value
	case "description":
		a.Description = *value
	case "category":
		a.Category = *value
	case "timeout":
		if _, err := registry.ParseTimeout(*value); err != nil {
			return err
		}
		a.Timeout = *value
	case "retries":
		n, err := strconv.Atoi(*value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid retries value %q", *value)
		}
		a.Retries = n
	default:
		return fmt.Errorf("unknown field: %s", *field)
	}

	if err := save(reg, *path); err != nil {
		return err
	}
	fmt.Printf("Updated %s.%s = %s\n", *id, *field, *value)
	return nil
}

// runValidate checks naming rules and compiles every input schema the way
// the workers do at startup.
func runValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	path := fs.String("path", defaultPath, "Registry file")
	fs.Parse(args)

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("load registry: %w", err)
	}
	if len(reg.Activities) == 0 {
		return errors.New("registry contains no activities")
	}
	if problems := reg.Validate(); len(problems) > 0 {
		return errors.Join(problems...)
	}
	if _, err := validation.NewValidator(reg); err != nil {
		return err
	}
	fmt.Printf("Registry validation passed. Found %d activities.\n", len(reg.Activities))
	return nil
}

func save(reg *registry.ActivityRegistry, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	reg.LastUpdated = time.Now().Format("2006-01-02")
	return registry.Save(reg, path)
}

func help() {
	fmt.Println(`
Usage: registry-updater <command> [flags]

Commands:
  init      Write the built-in registry to a file
  add       Add a new activity
  update    Update a field of an existing activity
  validate  Check naming rules and compile the input schemas
  help      Show this help message

Examples:
  registry-updater init -path configs/activity-registry.json
  registry-updater update -id comparison.items.rank -field timeout -value 15s
  registry-updater validate -path configs/activity-registry.json`)
}
