// pkg/registry/schema.go
package registry

import (
	"fmt"
	"time"
)

// DefaultTimeout applies to activities whose timeout is empty or unreadable.
const DefaultTimeout = 10 * time.Second

// ActivityRegistry is the catalogue of Zeebe task types this service
// implements, with the JSON schemas their job variables must satisfy.
type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

type Activity struct {
	ID                   string                 `json:"id"`
	DisplayName          string                 `json:"displayName"`
	Description          string                 `json:"description"`
	Category             string                 `json:"category"`
	Version              string                 `json:"version"`
	TaskType             string                 `json:"taskType"`
	ImplementationStatus string                 `json:"implementationStatus"`
	InputSchema          map[string]interface{} `json:"inputSchema,omitempty"`
	OutputSchema         map[string]interface{} `json:"outputSchema,omitempty"`
	ErrorCodes           []string               `json:"errorCodes"`
	Timeout              string                 `json:"timeout"`
	Retries              int                    `json:"retries"`
	Workflows            []string               `json:"workflows,omitempty"`
	Tags                 []string               `json:"tags,omitempty"`
}

// ParseTimeout accepts Go duration strings greater than zero.
func ParseTimeout(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout %q must be positive", s)
	}
	return d, nil
}

func (a Activity) TimeoutDuration() time.Duration {
	d, err := ParseTimeout(a.Timeout)
	if err != nil {
		return DefaultTimeout
	}
	return d
}

// Implemented reports whether a worker for the activity ships in this repo.
func (a Activity) Implemented() bool {
	return a.ImplementationStatus == "implemented"
}
