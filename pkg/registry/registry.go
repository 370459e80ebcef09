// pkg/registry/registry.go
package registry

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
)

//go:embed activity-registry.json
var builtin []byte

var (
	idPattern       = regexp.MustCompile(`^[a-z]+\.[a-z]+\.[a-z]+$`)
	taskTypePattern = regexp.MustCompile(`^[a-z]+(-[a-z]+)*$`)
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Builtin returns the registry shipped with the binary.
func Builtin() *ActivityRegistry {
	reg, err := Parse(builtin)
	if err != nil {
		panic(fmt.Sprintf("embedded activity registry is invalid: %v", err))
	}
	return reg
}

// LoadOrBuiltin reads path when it exists and falls back to the builtin registry.
func LoadOrBuiltin(path string) (*ActivityRegistry, error) {
	if path == "" {
		return Builtin(), nil
	}
	reg, err := LoadRegistry(path)
	if errors.Is(err, os.ErrNotExist) {
		return Builtin(), nil
	}
	return reg, err
}

func Parse(data []byte) (*ActivityRegistry, error) {
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, err
	}
	return &reg, nil
}

func Save(reg *ActivityRegistry, path string) error {
	sort.Slice(reg.Activities, func(i, j int) bool { return reg.Activities[i].ID < reg.Activities[j].ID })
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// FindByTaskType returns nil when no activity uses the task type.
func (r *ActivityRegistry) FindByTaskType(taskType string) *Activity {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i]
		}
	}
	return nil
}

func (r *ActivityRegistry) FindByID(id string) *Activity {
	for i := range r.Activities {
		if r.Activities[i].ID == id {
			return &r.Activities[i]
		}
	}
	return nil
}

// Validate checks naming and uniqueness of ids and task types.
func (r *ActivityRegistry) Validate() []error {
	var errs []error
	ids := map[string]bool{}
	taskTypes := map[string]bool{}
	for _, a := range r.Activities {
		if !idPattern.MatchString(a.ID) {
			errs = append(errs, fmt.Errorf("activity %q: id must follow domain.subdomain.action", a.ID))
		}
		if !taskTypePattern.MatchString(a.TaskType) {
			errs = append(errs, fmt.Errorf("activity %q: task type %q must be kebab-case", a.ID, a.TaskType))
		}
		if ids[a.ID] {
			errs = append(errs, fmt.Errorf("duplicate activity id %q", a.ID))
		}
		if taskTypes[a.TaskType] {
			errs = append(errs, fmt.Errorf("duplicate task type %q", a.TaskType))
		}
		ids[a.ID] = true
		taskTypes[a.TaskType] = true
	}
	return errs
}
