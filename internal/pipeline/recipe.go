package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/insightsheet-cli/internal/cleaning"
	"github.com/KaramelBytes/insightsheet-cli/internal/transform"
)

// Step operation names.
const (
	OpDedupe         = "dedupe"
	OpTrim           = "trim"
	OpInferTypes     = "infer_types"
	OpCleanAll       = "clean_all"
	OpRemoveOutliers = "remove_outliers"
	OpFillMissing    = "fill_missing"
	OpTransform      = "transform"
)

// Recipe is an ordered list of cleaning and transform steps.
type Recipe struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Steps       []Step `yaml:"steps"`
}

// Step is one recipe entry. Only the fields its Op uses are read.
type Step struct {
	Op string `yaml:"op"`
	// remove_outliers, fill_missing
	Column    string  `yaml:"column,omitempty"`
	Threshold float64 `yaml:"threshold,omitempty"`
	Strategy  string  `yaml:"strategy,omitempty"`
	// transform
	ColumnA   string `yaml:"column_a,omitempty"`
	ColumnB   string `yaml:"column_b,omitempty"`
	Operation string `yaml:"operation,omitempty"`
	NewColumn string `yaml:"new_column,omitempty"`
	Separator string `yaml:"separator,omitempty"`
}

// LoadRecipe reads and validates a YAML recipe file.
func LoadRecipe(path string) (Recipe, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Recipe{}, fmt.Errorf("read recipe: %w", err)
	}
	return ParseRecipe(b)
}

// ParseRecipe decodes YAML, rejecting unknown fields, and validates it.
func ParseRecipe(b []byte) (Recipe, error) {
	var r Recipe
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&r); err != nil {
		return Recipe{}, fmt.Errorf("parse recipe: %w", err)
	}
	if err := r.Validate(); err != nil {
		return Recipe{}, err
	}
	return r, nil
}

// Marshal encodes the recipe as YAML.
func (r Recipe) Marshal() ([]byte, error) {
	return yaml.Marshal(r)
}

// Validate checks op names and the arguments each op needs. Column
// existence is checked when the step runs.
func (r Recipe) Validate() error {
	if len(r.Steps) == 0 {
		return errors.New("recipe has no steps")
	}
	for i, s := range r.Steps {
		if err := s.validate(); err != nil {
			return &StepError{Index: i, Op: s.Op, Err: err}
		}
	}
	return nil
}

func (s Step) validate() error {
	switch strings.ToLower(s.Op) {
	case OpDedupe, OpTrim, OpInferTypes, OpCleanAll:
		return nil
	case OpRemoveOutliers:
		if s.Column == "" {
			return errors.New("column is required")
		}
		if s.Threshold < 0 {
			return errors.New("threshold must not be negative")
		}
		return nil
	case OpFillMissing:
		if s.Column == "" {
			return errors.New("column is required")
		}
		_, err := cleaning.ParseStrategy(s.Strategy)
		return err
	case OpTransform:
		if s.ColumnA == "" || s.ColumnB == "" || s.NewColumn == "" {
			return errors.New("column_a, column_b and new_column are required")
		}
		_, err := transform.ParseOp(s.Operation)
		return err
	case "":
		return errors.New("op is required")
	}
	return fmt.Errorf("unknown op %q", s.Op)
}
