package story

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed scenario.yaml
var defaultScenario []byte

// DefaultScenario returns the built-in mock scenario. The place timestamp is
// set to now, as the cards display "current time".
func DefaultScenario() (*Scenario, error) {
	return ParseScenario(defaultScenario, time.Now())
}

// ParseScenario decodes a YAML scenario. A place without a timestamp gets now.
func ParseScenario(data []byte, now time.Time) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if sc.Place != nil && sc.Place.Timestamp.IsZero() {
		sc.Place.Timestamp = now
	}
	return &sc, nil
}

// LoadScenario reads a scenario file. An empty path returns the default.
func LoadScenario(path string) (*Scenario, error) {
	if path == "" {
		return DefaultScenario()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	return ParseScenario(data, time.Now())
}
