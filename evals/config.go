// Package evals replays catalogued question/answer test cases through the
// agents across multiple model configurations and scores the results.
//
// Information Hiding:
// - YAML configuration shape and validation encapsulated here
// - Check construction and judge binding hidden behind BuildChecks
// - Sampling and threshold aggregation hidden behind Runner
package evals

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"
)

// ModelConfig identifies one model the harness evaluates.
type ModelConfig struct {
	Name        string  `yaml:"name" json:"name"`
	Provider    string  `yaml:"provider" json:"provider"`
	Temperature float64 `yaml:"temperature" json:"temperature"`
}

// EvalSettings controls sampling and pass criteria.
type EvalSettings struct {
	// Samples is how many times each (case, model) pair runs.
	Samples int `yaml:"samples" json:"samples"`

	// SuccessThreshold is the minimum pass rate (0..1) for a case to pass.
	SuccessThreshold float64 `yaml:"success_threshold" json:"success_threshold"`
}

// CheckSpec is one check declaration from the configuration.
type CheckSpec struct {
	Type      string            `yaml:"type" json:"type"`
	Arguments map[string]string `yaml:"arguments" json:"arguments,omitempty"`
	Metadata  map[string]string `yaml:"metadata" json:"metadata,omitempty"`
}

// TestInput is the agent input for a test case.
type TestInput struct {
	Question string `yaml:"question" json:"question"`
}

// Expected holds the pass criteria for a test case.
type Expected struct {
	// MustContain lists phrases the response must include (contains check).
	MustContain []string `yaml:"must_contain" json:"must_contain,omitempty"`

	// Criteria is free-text judging guidance (llm_judge check).
	Criteria string `yaml:"criteria" json:"criteria,omitempty"`
}

// TestCase is one catalogued question with its expectations.
type TestCase struct {
	ID       string            `yaml:"id" json:"id"`
	Input    TestInput         `yaml:"input" json:"input"`
	Expected Expected          `yaml:"expected" json:"expected"`
	Metadata map[string]string `yaml:"metadata" json:"metadata,omitempty"`
}

// Category is a named group of test cases.
type Category struct {
	Name        string     `yaml:"name" json:"name"`
	Description string     `yaml:"description" json:"description"`
	TestCases   []TestCase `yaml:"test_cases" json:"test_cases"`
}

// Config is the full evaluation configuration.
// Test cases live either in the flat TestCases list or under Categories.
type Config struct {
	Models     []ModelConfig       `yaml:"models"`
	Eval       EvalSettings        `yaml:"eval"`
	Checks     []CheckSpec         `yaml:"checks"`
	TestCases  []TestCase          `yaml:"test_cases"`
	Categories map[string]Category `yaml:"categories"`

	// Digest identifies the configuration content, for run records.
	Digest string `yaml:"-"`
}

// LoadConfig reads and validates a YAML evaluation configuration.
// Malformed YAML and unknown check types fail here; unknown providers
// fail later, when the case actually runs.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses and validates YAML configuration bytes.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.Digest = digestConfig(data)
	return &cfg, nil
}

// digestConfig hashes configuration bytes with xxHash, fast and good
// enough to tell configurations apart in run records.
func digestConfig(data []byte) string {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], xxhash.Sum64(data))
	return hex.EncodeToString(buf[:])
}

func (c *Config) validate() error {
	if len(c.Models) == 0 {
		return fmt.Errorf("config declares no models")
	}
	for i, m := range c.Models {
		if m.Name == "" || m.Provider == "" {
			return fmt.Errorf("model %d: name and provider are required", i)
		}
	}

	if c.Eval.Samples <= 0 {
		c.Eval.Samples = 1
	}
	if c.Eval.SuccessThreshold < 0 || c.Eval.SuccessThreshold > 1 {
		return fmt.Errorf("success_threshold %v out of range [0, 1]", c.Eval.SuccessThreshold)
	}

	for i, spec := range c.Checks {
		switch spec.Type {
		case CheckTypeContains:
		case CheckTypeLLMJudge:
			if spec.Arguments["judge_model"] == "" {
				return fmt.Errorf("check %d: llm_judge requires a judge_model argument", i)
			}
		default:
			return fmt.Errorf("check %d: unknown check type %q", i, spec.Type)
		}
	}

	if len(c.TestCases) == 0 && len(c.Categories) == 0 {
		return fmt.Errorf("config declares no test cases")
	}
	for _, tc := range c.allCases() {
		if tc.ID == "" {
			return fmt.Errorf("test case with empty id")
		}
		if tc.Input.Question == "" {
			return fmt.Errorf("test case %q: input.question is required", tc.ID)
		}
	}

	return nil
}

func (c *Config) allCases() []TestCase {
	cases := append([]TestCase{}, c.TestCases...)
	for _, cat := range c.Categories {
		cases = append(cases, cat.TestCases...)
	}
	return cases
}
