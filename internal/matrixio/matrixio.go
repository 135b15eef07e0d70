// Package matrixio reads and writes matrices as YAML documents.
//
// Two layouts are accepted on input:
//
//	rows: 2
//	cols: 3
//	data: [1, 2, 3, 4, 5, 6]
//
// or
//
//	data_rows:
//	  - [1, 2, 3]
//	  - [4, 5, 6]
//
// Output always uses the data_rows layout together with rows and cols.
package matrixio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ajroetker/go-parmul/par"
	"github.com/ajroetker/go-parmul/par/contrib/matrix"
)

// ErrFormat is returned for documents that describe no valid matrix.
var ErrFormat = errors.New("matrixio: invalid matrix document")

// Scalar is the element types YAML can carry.
type Scalar interface {
	par.Integers | par.Floats
}

type document[T Scalar] struct {
	Rows     int   `yaml:"rows,omitempty"`
	Cols     int   `yaml:"cols,omitempty"`
	Data     []T   `yaml:"data,omitempty"`
	DataRows [][]T `yaml:"data_rows,omitempty"`
}

// Read decodes one matrix document from r.
func Read[T Scalar](r io.Reader) (*matrix.Matrix[T], error) {
	var doc document[T]
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("matrixio: decode: %w", err)
	}

	switch {
	case doc.DataRows != nil && doc.Data != nil:
		return nil, fmt.Errorf("%w: both data and data_rows given", ErrFormat)
	case doc.DataRows != nil:
		m, err := matrix.FromRows(doc.DataRows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFormat, err)
		}
		if (doc.Rows != 0 && doc.Rows != m.Rows()) || (doc.Cols != 0 && doc.Cols != m.Cols()) {
			return nil, fmt.Errorf("%w: declared %dx%d, data_rows is %dx%d",
				ErrFormat, doc.Rows, doc.Cols, m.Rows(), m.Cols())
		}
		return m, nil
	default:
		m, err := matrix.New(doc.Rows, doc.Cols, doc.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFormat, err)
		}
		return m, nil
	}
}

// Write encodes m as a matrix document.
func Write[T Scalar](w io.Writer, m *matrix.Matrix[T]) error {
	doc := document[T]{Rows: m.Rows(), Cols: m.Cols(), DataRows: m.ToRows()}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("matrixio: encode: %w", err)
	}
	return enc.Close()
}

// ReadFile reads a matrix document from path.
func ReadFile[T Scalar](path string) (*matrix.Matrix[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := Read[T](f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// WriteFile writes m to path, replacing any existing file.
func WriteFile[T Scalar](path string, m *matrix.Matrix[T]) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
