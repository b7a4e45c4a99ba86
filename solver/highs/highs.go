//go:build (linux || darwin) && (amd64 || arm64)

// Package highs solves linear and mixed-integer linear watnet models with
// the HiGHS solver through its C API. It links against a system libhighs
// (pkg-config "highs").
//
// The backend accepts only models that are linear: disjunctions must first
// be linearized with minlp.ReformulateBigM, and bilinear split rows must be
// removed with minlp.FixVars. Models that still carry nonlinear terms or
// disjunctions are rejected with an *UnsupportedModelError; solving general
// bilinear network models requires an MINLP solver and is out of scope here.
package highs

/*
#cgo pkg-config: highs

#include <stdlib.h>
#include "interfaces/highs_c_api.h"
*/
import "C"
import (
	"fmt"
	"runtime"
	"unsafe"
)

// highsInt mirrors the integer type of the HiGHS C API.
type highsInt = C.HighsInt

// runStatus is the outcome classification reported by HiGHS after a run.
type runStatus int

const (
	runNotSet runStatus = iota
	runOptimal
	runInfeasible
	runUnboundedOrInfeasible
	runUnbounded
	runTimeLimit
	runIterationLimit
	runModelEmpty
	runError
)

func (s runStatus) String() string {
	switch s {
	case runOptimal:
		return "Optimal"
	case runInfeasible:
		return "Infeasible"
	case runUnboundedOrInfeasible:
		return "UnboundedOrInfeasible"
	case runUnbounded:
		return "Unbounded"
	case runTimeLimit:
		return "TimeLimit"
	case runIterationLimit:
		return "IterationLimit"
	case runModelEmpty:
		return "ModelEmpty"
	case runError:
		return "Error"
	default:
		return "NotSet"
	}
}

func runStatusFromC(status C.HighsInt) runStatus {
	switch status {
	case C.kHighsModelStatusOptimal:
		return runOptimal
	case C.kHighsModelStatusInfeasible:
		return runInfeasible
	case C.kHighsModelStatusUnboundedOrInfeasible:
		return runUnboundedOrInfeasible
	case C.kHighsModelStatusUnbounded:
		return runUnbounded
	case C.kHighsModelStatusTimeLimit:
		return runTimeLimit
	case C.kHighsModelStatusIterationLimit:
		return runIterationLimit
	case C.kHighsModelStatusModelEmpty:
		return runModelEmpty
	default:
		return runError
	}
}

// handle wraps one native HiGHS instance.
type handle struct {
	ptr unsafe.Pointer
}

func newHandle() (*handle, error) {
	ptr := C.Highs_create()
	if ptr == nil {
		return nil, fmt.Errorf("highs: failed to create solver instance")
	}
	h := &handle{ptr: ptr}
	runtime.SetFinalizer(h, (*handle).close)
	return h, nil
}

// close releases the native instance. Safe to call more than once.
func (h *handle) close() {
	if h.ptr != nil {
		C.Highs_destroy(h.ptr)
		h.ptr = nil
	}
}

func (h *handle) setBoolOption(name string, value bool) error {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	var cVal C.HighsInt
	if value {
		cVal = 1
	}
	if C.Highs_setBoolOptionValue(h.ptr, cName, cVal) < 0 {
		return fmt.Errorf("highs: setting bool option %q failed", name)
	}
	return nil
}

func (h *handle) setFloatOption(name string, value float64) error {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	if C.Highs_setDoubleOptionValue(h.ptr, cName, C.double(value)) < 0 {
		return fmt.Errorf("highs: setting option %q failed", name)
	}
	return nil
}

// passModel loads a complete row-wise model in one call. integrality may be
// nil for a pure LP.
func (h *handle) passModel(
	numCol, numRow int,
	colCost, colLower, colUpper []float64,
	rowLower, rowUpper []float64,
	aStart, aIndex []int,
	aValue []float64,
	integrality []highsInt,
	offset float64,
) error {
	cStart := make([]C.HighsInt, len(aStart))
	for i, v := range aStart {
		cStart[i] = C.HighsInt(v)
	}
	cIndex := make([]C.HighsInt, len(aIndex))
	for i, v := range aIndex {
		cIndex[i] = C.HighsInt(v)
	}

	var pColCost, pColLower, pColUpper, pRowLower, pRowUpper, pAValue *C.double
	var pAStart, pAIndex, pIntegrality *C.HighsInt
	if numCol > 0 {
		pColCost = (*C.double)(&colCost[0])
		pColLower = (*C.double)(&colLower[0])
		pColUpper = (*C.double)(&colUpper[0])
	}
	if numRow > 0 {
		pRowLower = (*C.double)(&rowLower[0])
		pRowUpper = (*C.double)(&rowUpper[0])
	}
	if len(cStart) > 0 {
		pAStart = &cStart[0]
	}
	if len(cIndex) > 0 {
		pAIndex = &cIndex[0]
		pAValue = (*C.double)(&aValue[0])
	}
	if len(integrality) > 0 {
		pIntegrality = &integrality[0]
	}

	status := C.Highs_passModel(h.ptr,
		C.HighsInt(numCol), C.HighsInt(numRow),
		C.HighsInt(len(aValue)), 0, // num_nz, q_num_nz
		C.kHighsMatrixFormatRowwise, C.kHighsHessianFormatTriangular,
		C.kHighsObjSenseMinimize, C.double(offset),
		pColCost, pColLower, pColUpper,
		pRowLower, pRowUpper,
		pAStart, pAIndex, pAValue,
		nil, nil, nil, // no Hessian
		pIntegrality)
	if status < 0 {
		return fmt.Errorf("highs: passing model failed")
	}
	return nil
}

// run solves the loaded model and returns the status, the primal column
// values, and the objective value.
func (h *handle) run() (runStatus, []float64, float64, error) {
	if C.Highs_run(h.ptr) < 0 {
		return runError, nil, 0, fmt.Errorf("highs: run failed")
	}

	status := runStatusFromC(C.Highs_getModelStatus(h.ptr))
	numCol := int(C.Highs_getNumCol(h.ptr))

	colValue := make([]float64, numCol)
	if numCol > 0 {
		C.Highs_getSolution(h.ptr, (*C.double)(&colValue[0]), nil, nil, nil)
	}
	objective := float64(C.Highs_getObjectiveValue(h.ptr))
	return status, colValue, objective, nil
}

func integralityInteger() C.HighsInt { return C.kHighsVarTypeInteger }

func integralityContinuous() C.HighsInt { return C.kHighsVarTypeContinuous }
