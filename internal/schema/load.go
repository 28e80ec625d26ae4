package schema

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads conventions from a YAML file on top of Default.
// Fields absent from the file keep their default values.
func LoadFile(path string) (Conventions, error) {
	c := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("read schema file: %w", err)
	}

	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parse schema file %s: %w", path, err)
	}

	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("schema file %s: %w", path, err)
	}

	return c, nil
}

// Validate checks that the conventions can drive classification.
func (c Conventions) Validate() error {
	var errs []string

	if strings.TrimSpace(c.DimensionColumn) == "" {
		errs = append(errs, "dimension_column is required")
	}
	if strings.TrimSpace(c.GroupValueColumn) == "" {
		errs = append(errs, "group_value_column is required")
	}
	if c.DimensionColumn != "" && c.DimensionColumn == c.GroupValueColumn {
		errs = append(errs, "dimension_column and group_value_column must differ")
	}
	if strings.TrimSpace(c.SexLabel) == "" || strings.TrimSpace(c.AgeLabel) == "" {
		errs = append(errs, "sex_label and age_label are required")
	}
	if strings.TrimSpace(c.AllLabel) == "" {
		errs = append(errs, "all_label is required")
	}
	if c.DefaultServiceCount < 0 {
		errs = append(errs, "default_service_count must be non-negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid conventions:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
