package report

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowsynth/watnet/wtn"
)

func ex1Solution(t *testing.T) *Solution {
	t.Helper()
	top, par := wtn.GalanGrossmann98Ex1()
	m, cat, err := wtn.Build(top, par)
	require.NoError(t, err)

	point := make([]float64, m.NumVars())
	point[cat.UnitIn[0][2]] = 40
	point[cat.UnitOut[0][2]] = 40
	point[cat.UnitIn[1][2]] = 80
	point[cat.UnitOut[1][2]] = 80
	point[cat.Frac[0][0]] = 1
	point[cat.MixIn[2][3][0]] = 800
	point[cat.MixIn[2][3][1]] = 211.2
	point[cat.MixIn[2][3][2]] = 80

	return &Solution{
		Topology:   top,
		Parameters: par,
		Catalog:    cat,
		Point:      point,
		Objective:  120,
		Chosen:     []int{0, 0},
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, ex1Solution(t)))
	out := buf.String()

	assert.Contains(t, out, "network galan98ex1")
	assert.Contains(t, out, "objective (min-flow)  120.000")
	assert.Contains(t, out, "discharge flow  80.000 t/h")
	assert.Contains(t, out, "unit TX: equipment X")
	assert.Contains(t, out, "unit TXX: equipment XX")
	assert.Contains(t, out, "splitter 1: 1.000")
	assert.Contains(t, out, "W  80.000 t/h")
	assert.Contains(t, out, "A  800.000 t·ppm/h (10.00 ppm, limit 10)")
	assert.Contains(t, out, "B  211.200 t·ppm/h (2.64 ppm, limit 10)")
}

func TestWriteUnknownChoice(t *testing.T) {
	s := ex1Solution(t)
	s.Chosen = []int{-1, -1}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, s))
	out := buf.String()

	assert.NotContains(t, out, "equipment")
	assert.Contains(t, out, "unit TX\n")
}

func TestWritePropagatesWriteErrors(t *testing.T) {
	s := ex1Solution(t)
	w := &failingWriter{limit: 10}
	err := Write(w, s)
	require.ErrorIs(t, err, errShortWrite)
}

var errShortWrite = errors.New("short write")

// failingWriter accepts limit bytes, then fails every write.
type failingWriter struct {
	limit   int
	written int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.written+len(p) > w.limit {
		return 0, errShortWrite
	}
	w.written += len(p)
	return len(p), nil
}
