// Package suite loads the optional YAML file with named scenario selections and their schedules
package suite

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/threefoldtech/gridwatch/app/runner"
	"github.com/threefoldtech/gridwatch/app/scenario"
)

// File is the root of suite yaml
type File struct {
	Suites []Entry `yaml:"suites" json:"suites" validate:"required,min=1,dive" jsonschema:"minItems=1,description=scheduled scenario selections"`
}

// Entry is a named selection of scenarios with its own schedule
type Entry struct {
	Name      string   `yaml:"name" json:"name" validate:"required" jsonschema:"description=unique name of the selection"`
	Schedule  string   `yaml:"schedule" json:"schedule" validate:"required" jsonschema:"description=cron spec or descriptor,example=@every 6h,example=*/30 * * * *"`
	Scenarios []string `yaml:"scenarios,omitempty" json:"scenarios,omitempty" jsonschema:"description=scenario ids or case numbers or groups; empty for all"`
}

// Load reads and validates suite file
func Load(path string) (File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return File{}, fmt.Errorf("can't read suite file %s: %w", path, err)
	}
	res, err := Parse(data)
	if err != nil {
		return File{}, fmt.Errorf("suite file %s: %w", path, err)
	}
	return res, nil
}

// Parse decodes and validates suite yaml
func Parse(data []byte) (File, error) {
	res := File{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&res); err != nil {
		return File{}, fmt.Errorf("can't parse yaml: %w", err)
	}
	if err := res.Validate(); err != nil {
		return File{}, err
	}
	return res, nil
}

// Validate checks required fields, schedules, scenario filters and name uniqueness
func (f File) Validate() error {
	if err := validator.New().Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid %s, rule %q", verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("invalid suite: %w", err)
	}

	names := map[string]bool{}
	for i, e := range f.Suites {
		if e.Name == runner.ManualJobName || strings.HasPrefix(e.Name, runner.ManualJobName+":") {
			return fmt.Errorf("suite %d: name %q is reserved", i+1, e.Name)
		}
		if names[e.Name] {
			return fmt.Errorf("suite %d: duplicate name %q", i+1, e.Name)
		}
		names[e.Name] = true

		if _, err := cron.ParseStandard(e.Schedule); err != nil {
			return fmt.Errorf("suite %s: invalid schedule %q: %w", e.Name, e.Schedule, err)
		}
		if _, err := scenario.Select(e.Scenarios...); err != nil {
			return fmt.Errorf("suite %s: %w", e.Name, err)
		}
	}
	return nil
}

// Jobs converts suite entries to scheduler jobs
func (f File) Jobs() []runner.Job {
	res := make([]runner.Job, 0, len(f.Suites))
	for _, e := range f.Suites {
		res = append(res, runner.Job{Name: e.Name, Schedule: e.Schedule, Filters: e.Scenarios})
	}
	return res
}

// Schema returns JSON schema of the suite file
func Schema() *jsonschema.Schema {
	s := jsonschema.Reflect(&File{})
	s.Title = "Gridwatch suite schema"
	s.Description = "Schema for gridwatch YAML suite file"
	return s
}
