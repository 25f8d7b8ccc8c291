// Package termui provides objects and methods for interactive UI in terminal windows.
//
// License
//
// Governed by a 3-Clause BSD license. License file may be found in the root
// folder of this module.
//
package termui

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/npillmayer/mxl"
	"github.com/npillmayer/mxl/vm"
	"github.com/npillmayer/schuko/tracing"
)

// trace traces with key 'mxl.cli'.
func trace() tracing.Trace {
	return tracing.Select("mxl.cli")
}

// Formatter writes an item to w in a human readable form. It returns false
// if it does not know how to format item.
type Formatter interface {
	Format(interface{}, io.Writer) (bool, error)
}

// DefaultFormatter formats strings, MXL values and tables.
// Matrices are rendered as tables.
type DefaultFormatter struct{}

func (df DefaultFormatter) Format(item interface{}, w io.Writer) (bool, error) {
	switch t := item.(type) {
	case string:
		w.Write([]byte("▶ "))
		if _, err := w.Write([]byte(t)); err != nil {
			return false, err
		}
		w.Write([]byte{'\n'})
		return true, nil
	case mxl.Scalar:
		_, err := fmt.Fprintf(w, "▶ %d\n", t.Int())
		return err == nil, err
	case mxl.Matrix:
		if t.Rows() == 0 || t.Cols() == 0 {
			_, err := fmt.Fprintf(w, "▶ (empty matrix %s)\n", t.Self().Shape())
			return err == nil, err
		}
		return df.Format(MatrixTable(t), w)
	case table.Writer:
		if t == nil {
			w.Write([]byte("▶ (empty table)\n"))
		} else {
			w.Write([]byte(t.Render()))
			w.Write([]byte{'\n'})
		}
		return true, nil
	default:
		w.Write([]byte("▶ "))
		w.Write([]byte(fmt.Sprintf("object of type %T\n", t)))
		return true, nil
	}
}

// MatrixTable creates a table for the elements of a matrix. Rows and columns
// are headed by their 1-based indices.
func MatrixTable(m mxl.Matrix) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	header := table.Row{""}
	for j := 0; j < m.Cols(); j++ {
		header = append(header, strconv.Itoa(j+1))
	}
	tw.AppendHeader(header)
	for i := 0; i < m.Rows(); i++ {
		row := table.Row{strconv.Itoa(i + 1)}
		for j := 0; j < m.Cols(); j++ {
			row = append(row, m.At(i, j))
		}
		tw.AppendRow(row)
	}
	if name := m.Name(); name != "" {
		tw.SetTitle("%s", name)
	}
	return tw
}

// ---------------------------------------------------------------------------

// ValueOutput receives the output of print and show statements and writes
// it to W, using a Formatter.
type ValueOutput struct {
	W         io.Writer
	Formatter Formatter // DefaultFormatter if nil
}

var _ vm.Output = ValueOutput{}

// PrintValue is part of interface vm.Output.
func (vo ValueOutput) PrintValue(v mxl.Value) {
	if v == nil {
		return
	}
	f := vo.Formatter
	if f == nil {
		f = DefaultFormatter{}
	}
	if ok, err := f.Format(v, vo.W); err != nil || !ok {
		trace().Errorf("cannot format value %s: %v", v, err)
	}
}

// ShowText is part of interface vm.Output.
func (vo ValueOutput) ShowText(text string) {
	io.WriteString(vo.W, text)
}
