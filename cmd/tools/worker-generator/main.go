// cmd/tools/worker-generator/main.go
package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"compare-workers/pkg/registry"
)

// WorkerData holds data for templates
type WorkerData struct {
	Name        string
	PackageName string
	TaskType    string
	Description string
	Timeout     string
	InputFields []Field
	OutputField []Field
}

type Field struct {
	GoName   string
	GoType   string
	JSONName string
}

// schemaFields turns the properties of a JSON schema object into sorted
// struct fields.
func schemaFields(schema map[string]interface{}) []Field {
	props, _ := schema["properties"].(map[string]interface{})
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]Field, 0, len(names))
	for _, name := range names {
		details, _ := props[name].(map[string]interface{})
		fields = append(fields, Field{
			GoName:   goName(name),
			GoType:   goTypeFromJSONType(details["type"]),
			JSONName: name,
		})
	}
	return fields
}

// goTypeFromJSONType maps JSON schema types to Go types
func goTypeFromJSONType(jsonType interface{}) string {
	switch jt := jsonType.(type) {
	case string:
		switch jt {
		case "string":
			return "string"
		case "integer":
			return "int64"
		case "number":
			return "float64"
		case "boolean":
			return "bool"
		case "object":
			return "map[string]interface{}"
		case "array":
			return "[]interface{}"
		}
	case []interface{}:
		// ["string", "null"] style unions keep the non-null member.
		var kinds []interface{}
		for _, k := range jt {
			if k != "null" {
				kinds = append(kinds, k)
			}
		}
		if len(kinds) == 1 {
			return goTypeFromJSONType(kinds[0])
		}
	}
	return "interface{}"
}

// goName exports a camelCase property name, keeping Go initialisms.
func goName(prop string) string {
	if prop == "" {
		return prop
	}
	name := strings.ToUpper(prop[:1]) + prop[1:]
	for _, suffix := range []string{"Id", "Ids", "Url"} {
		if strings.HasSuffix(name, suffix) {
			name = strings.TrimSuffix(name, suffix) + strings.ToUpper(suffix[:2]) + suffix[2:]
			break
		}
	}
	return name
}

func tag(key, name string) string {
	return fmt.Sprintf("`%s:\"%s\"`", key, name)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func packageName(taskType string) string {
	return strings.ReplaceAll(taskType, "-", "")
}

func categoryDir(category string) string {
	switch category {
	case "notification":
		return "communication"
	default:
		return strings.ToLower(category)
	}
}

const configTemplate = `// internal/workers/{{ .Dir }}/config.go
package {{ .PackageName }}

import (
	"fmt"
	"time"

	"compare-workers/internal/common/config"
)

type Config struct {
	Enabled       bool          {{ tag "mapstructure" "enabled" }}
	MaxJobsActive int           {{ tag "mapstructure" "max_jobs_active" }}
	Timeout       time.Duration {{ tag "mapstructure" "timeout" }}
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       {{ .TimeoutExpr }},
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	return nil
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}
	cfg := DefaultConfig()
	if appConfig == nil {
		return cfg
	}
	if workerCfg, exists := appConfig.Workers[TaskType]; exists {
		cfg.Enabled = workerCfg.Enabled
		if workerCfg.MaxJobsActive > 0 {
			cfg.MaxJobsActive = workerCfg.MaxJobsActive
		}
		if workerCfg.Timeout > 0 {
			cfg.Timeout = config.GetDuration(workerCfg.Timeout)
		}
	}
	return cfg
}
`

const modelsTemplate = `// internal/workers/{{ .Dir }}/models.go
package {{ .PackageName }}

import "compare-workers/internal/common/logger"

type Input struct {
{{- range .InputFields }}
	{{ .GoName }} {{ .GoType }} {{ tag "json" (printf "%s,omitempty" .JSONName) }}
{{- end }}
}

type Output struct {
{{- range .OutputField }}
	{{ .GoName }} {{ .GoType }} {{ tag "json" .JSONName }}
{{- end }}
}

type ServiceDependencies struct {
	Logger logger.Logger
}
`

const serviceTemplate = `// internal/workers/{{ .Dir }}/service.go
package {{ .PackageName }}

import (
	"context"
	"fmt"

	"compare-workers/internal/common/errors"
)

type Service struct {
	deps   ServiceDependencies
	config *Config
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{deps: deps, config: config}
}

// Execute {{ .Description }}
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	return nil, errors.NewInternalError(fmt.Errorf("%s is not implemented", TaskType))
}
`

const handlerTemplate = `// internal/workers/{{ .Dir }}/handler.go
package {{ .PackageName }}

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"compare-workers/internal/common/config"
	"compare-workers/internal/common/errors"
	"compare-workers/internal/common/logger"
	"compare-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "{{ .TaskType }}"

type Handler struct {
	config    *Config
	logger    logger.Logger
	validator *validation.Validator
	errors    *errors.ErrorHandler
	service   *Service
}

type HandlerOptions struct {
	AppConfig    *config.Config
	CustomConfig *Config
	Validator    *validation.Validator
	Dependencies ServiceDependencies
	Logger       logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"worker": TaskType})
	deps := opts.Dependencies
	deps.Logger = log

	return &Handler{
		config:    workerConfig,
		logger:    log,
		validator: opts.Validator,
		errors:    errors.NewErrorHandler(log),
		service:   NewService(deps, workerConfig),
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := h.parseInput(job)
	if err != nil {
		h.errors.HandleJobError(ctx, client, job, err)
		return
	}
	output, err := h.service.Execute(ctx, input)
	if err != nil {
		h.errors.HandleJobError(ctx, client, job, err)
		return
	}

	request, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromObject(output)
	if err != nil {
		h.logger.Error("Failed to create complete job command", map[string]interface{}{"jobKey": job.GetKey(), "error": err.Error()})
		return
	}
	if _, err := request.Send(ctx); err != nil {
		h.logger.Error("Failed to complete job", map[string]interface{}{"jobKey": job.GetKey(), "error": err.Error()})
	}
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("parse job variables: %v", err))
	}
	if h.validator != nil {
		if result := h.validator.Validate(TaskType, variables); !result.Valid {
			return nil, errors.NewInvalidInputError(strings.Join(result.GetErrorMessages(), "; "))
		}
	}
	var input Input
	if err := json.Unmarshal([]byte(job.GetVariables()), &input); err != nil {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("decode input: %v", err))
	}
	return &input, nil
}
`

const testTemplate = `// internal/workers/{{ .Dir }}/handler_test.go
package {{ .PackageName }}

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compare-workers/internal/common/logger"
)

func TestNewHandler(t *testing.T) {
	h, err := NewHandler(HandlerOptions{Logger: logger.NewTestLogger(t)})
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Timeout, h.config.Timeout)
}
`

type templateData struct {
	WorkerData
	Dir         string
	TimeoutExpr string
}

var templates = []struct {
	file string
	body string
}{
	{"config.go", configTemplate},
	{"models.go", modelsTemplate},
	{"service.go", serviceTemplate},
	{"handler.go", handlerTemplate},
	{"handler_test.go", testTemplate},
}

// render returns the formatted source of every scaffold file.
func render(data templateData) (map[string][]byte, error) {
	funcs := template.FuncMap{"tag": tag}
	out := make(map[string][]byte, len(templates))
	for _, t := range templates {
		tmpl, err := template.New(t.file).Funcs(funcs).Parse(t.body)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", t.file, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("render %s: %w", t.file, err)
		}
		src, err := format.Source(buf.Bytes())
		if err != nil {
			return nil, fmt.Errorf("format %s: %w", t.file, err)
		}
		out[t.file] = src
	}
	return out, nil
}

// timeoutExpr renders a registry timeout such as "15s" as a Go duration
// expression, defaulting to ten seconds.
// timeoutExpr renders the activity timeout as Go source, rounded up to whole
// seconds.
func timeoutExpr(timeout string) string {
	d := registry.Activity{Timeout: timeout}.TimeoutDuration()
	secs := int64((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%d * time.Second", secs)
}

func newTemplateData(a *registry.Activity) templateData {
	return templateData{
		WorkerData: WorkerData{
			Name:        a.DisplayName,
			PackageName: packageName(a.TaskType),
			TaskType:    a.TaskType,
			Description: lowerFirst(a.Description),
			Timeout:     a.Timeout,
			InputFields: schemaFields(a.InputSchema),
			OutputField: schemaFields(a.OutputSchema),
		},
		Dir:         filepath.ToSlash(filepath.Join(categoryDir(a.Category), a.TaskType)),
		TimeoutExpr: timeoutExpr(a.Timeout),
	}
}

func main() {
	activity := flag.String("activity", "", "Activity ID from the registry (e.g. comparison.items.rank)")
	outputDir := flag.String("output", "./internal/workers/", "Root directory for generated workers")
	registryPath := flag.String("registry", "configs/activity-registry.json", "Activity registry file")
	force := flag.Bool("force", false, "Overwrite existing files")
	flag.Parse()

	if *activity == "" {
		fmt.Println("Usage: worker-generator -activity <id> [-output <dir>] [-registry <path>]")
		os.Exit(1)
	}

	reg, err := registry.LoadOrBuiltin(*registryPath)
	if err != nil {
		fmt.Printf("Error loading registry from %s: %v\n", *registryPath, err)
		os.Exit(1)
	}
	a := reg.FindByID(*activity)
	if a == nil {
		fmt.Printf("Activity '%s' not found in registry %s\n", *activity, *registryPath)
		os.Exit(1)
	}
	if a.Implemented() && !*force {
		fmt.Printf("Activity '%s' is already implemented; pass -force to regenerate\n", *activity)
		os.Exit(1)
	}
	if a.Description == "" {
		a.Description = "runs " + a.DisplayName
	}

	data := newTemplateData(a)
	files, err := render(data)
	if err != nil {
		fmt.Printf("Error rendering worker: %v\n", err)
		os.Exit(1)
	}

	workerDir := filepath.Join(*outputDir, filepath.FromSlash(data.Dir))
	if err := os.MkdirAll(workerDir, 0o755); err != nil {
		fmt.Printf("Error creating directory: %v\n", err)
		os.Exit(1)
	}
	for _, t := range templates {
		path := filepath.Join(workerDir, t.file)
		if _, err := os.Stat(path); err == nil && !*force {
			fmt.Printf("Skipped %s (exists)\n", path)
			continue
		}
		if err := os.WriteFile(path, files[t.file], 0o644); err != nil {
			fmt.Printf("Error writing %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("Generated %s\n", path)
	}

	fmt.Printf("\nNext steps:\n")
	fmt.Printf("  1. Implement Service.Execute in service.go\n")
	fmt.Printf("  2. Register the worker in cmd/worker-manager/workers.go\n")
	fmt.Printf("  3. Add a workers.%s section to configs/config.yaml\n", a.TaskType)
}
