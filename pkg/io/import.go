package io

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	apperrors "github.com/matzehuels/taskplan/pkg/errors"
	"github.com/matzehuels/taskplan/pkg/plan"
)

// Problem is a task set with optional constraints and default strategy.
type Problem struct {
	Tasks       []plan.Task       `json:"tasks" yaml:"tasks"`
	Constraints *plan.Constraints `json:"constraints,omitempty" yaml:"constraints,omitempty"`
	Strategy    string            `json:"strategy,omitempty" yaml:"strategy,omitempty"`
}

// ReadProblem decodes a problem document, or a bare task list, from r and
// validates it. ReadProblem does not close r.
func ReadProblem(r io.Reader, format Format) (Problem, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Problem{}, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "read input")
	}

	var p Problem
	switch format {
	case FormatYAML:
		err = decodeYAML(data, &p)
	default:
		err = decodeJSON(data, &p)
	}
	if err != nil {
		return Problem{}, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode %s", format)
	}

	if p.Tasks == nil {
		p.Tasks = []plan.Task{}
	}
	if err := plan.ValidateTasks(p.Tasks); err != nil {
		return Problem{}, err
	}
	if p.Constraints != nil {
		if err := plan.ValidateConstraints(*p.Constraints); err != nil {
			return Problem{}, err
		}
	}
	return p, nil
}

func decodeJSON(data []byte, p *Problem) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &p.Tasks)
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	return dec.Decode(p)
}

func decodeYAML(data []byte, p *Problem) error {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return err
	}
	if len(root.Content) == 0 {
		return nil
	}
	doc := root.Content[0]
	if doc.Kind == yaml.SequenceNode {
		return doc.Decode(&p.Tasks)
	}
	return doc.Decode(p)
}

// ReadTasks decodes and validates a task set. Constraints and strategy in a
// problem document are ignored.
func ReadTasks(r io.Reader, format Format) ([]plan.Task, error) {
	p, err := ReadProblem(r, format)
	if err != nil {
		return nil, err
	}
	return p.Tasks, nil
}

// ImportProblem reads a problem from the file at path, choosing the format
// by extension.
func ImportProblem(path string) (Problem, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Problem{}, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return Problem{}, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadProblem(f, FormatFromPath(path))
}

// ImportTasks reads a task set from the file at path.
func ImportTasks(path string) ([]plan.Task, error) {
	p, err := ImportProblem(path)
	if err != nil {
		return nil, err
	}
	return p.Tasks, nil
}
