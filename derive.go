/*
Copyright © 2018 the flightdata authors.
This file is part of flightdata.

flightdata is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

flightdata is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with flightdata.  If not, see <http://www.gnu.org/licenses/>.
*/

package flightdata

import (
	"fmt"
	"math"
	"sort"

	"github.com/Knetic/govaluate"
)

// deriveFunctions are the functions available to expressions in Derive.
var deriveFunctions = map[string]govaluate.ExpressionFunction{
	"exp":   mathFunc("exp", math.Exp),
	"log":   mathFunc("log", math.Log),
	"sqrt":  mathFunc("sqrt", math.Sqrt),
	"abs":   mathFunc("abs", math.Abs),
	"sin":   mathFunc("sin", func(deg float64) float64 { return math.Sin(deg * math.Pi / 180) }),
	"cos":   mathFunc("cos", func(deg float64) float64 { return math.Cos(deg * math.Pi / 180) }),
	"atan2": atan2,
}

func mathFunc(name string, f func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("flightdata: got %d arguments for function '%s', but needs 1", len(args), name)
		}
		x, ok := args[0].(float64)
		if !ok {
			return nil, fmt.Errorf("flightdata: invalid argument type %T for function '%s'", args[0], name)
		}
		return f(x), nil
	}
}

// atan2 returns the angle in degrees.
func atan2(args ...interface{}) (interface{}, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("flightdata: got %d arguments for function 'atan2', but needs 2", len(args))
	}
	y, ok1 := args[0].(float64)
	x, ok2 := args[1].(float64)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("flightdata: invalid argument types %T, %T for function 'atan2'", args[0], args[1])
	}
	return math.Atan2(y, x) * 180 / math.Pi, nil
}

// Derive calculates a new variable called name from the expression expr,
// which can refer to any variable present in r, and adds it to r.
// For example,
//
//	r.Derive("temperature_K", "temperature + 273.15")
//
// The functions exp, log, sqrt, abs, sin, cos and atan2 are available;
// the trigonometric functions work in degrees. A row of the new variable
// is masked wherever any of the variables it depends on is masked.
func (r *Record) Derive(name, expr string) error {
	if _, ok := r.Vars[name]; ok {
		return fmt.Errorf("flightdata: derived variable %s: a variable with that name already exists", name)
	}
	expression, err := govaluate.NewEvaluableExpressionWithFunctions(expr, deriveFunctions)
	if err != nil {
		return fmt.Errorf("flightdata: derived variable %s: %v", name, err)
	}

	inputs := make(map[string]*MaskedArray)
	for _, v := range expression.Vars() {
		a, ok := r.Get(v)
		if !ok {
			return fmt.Errorf("flightdata: derived variable %s: variable %s is not present in the record", name, v)
		}
		inputs[v] = a
	}
	inputNames := make([]string, 0, len(inputs))
	for v := range inputs {
		inputNames = append(inputNames, v)
	}
	sort.Strings(inputNames)

	out := NewMaskedArray(r.Len(), DefaultFill)
	params := make(map[string]interface{}, len(inputs))
rows:
	for i := range out.Data {
		for _, v := range inputNames {
			a := inputs[v]
			if a.Mask[i] {
				out.Mask[i] = true
				continue rows
			}
			params[v] = a.Data[i]
		}
		val, err := expression.Evaluate(params)
		if err != nil {
			return fmt.Errorf("flightdata: derived variable %s: row %d: %v", name, i, err)
		}
		f, ok := val.(float64)
		if !ok {
			return fmt.Errorf("flightdata: derived variable %s: expression evaluates to %T, not a number", name, val)
		}
		out.Data[i] = f
		out.Mask[i] = math.IsNaN(f) || math.IsInf(f, 0)
	}
	r.Vars[name] = out
	r.Labels[name] = expr
	return nil
}
