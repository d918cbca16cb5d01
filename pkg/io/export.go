package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	apperrors "github.com/matzehuels/taskplan/pkg/errors"
	"github.com/matzehuels/taskplan/pkg/plan"
)

// WriteResult encodes a result as indented JSON.
func WriteResult(w io.Writer, r plan.Result) error {
	return writeJSON(w, r)
}

// ExportResult writes a result to a JSON file at path.
// This is a convenience wrapper around [WriteResult] for file-based output.
// A path that cannot be created is an INVALID_PATH error.
func ExportResult(r plan.Result, path string) error {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteResult(f, r)
}

// WriteProblem encodes a problem in the given format. The output can be read
// back with [ReadProblem].
func WriteProblem(w io.Writer, p Problem, format Format) error {
	if format == FormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	}
	return writeJSON(w, p)
}

// ExportProblem writes a problem to path in the format its extension names.
func ExportProblem(p Problem, path string) error {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteProblem(f, p, FormatFromPath(path))
}

func create(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidPath, err, "create %s", path)
	}
	return f, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
