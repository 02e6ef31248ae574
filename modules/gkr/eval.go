package gkr

import (
	"ExpanderExec/modules/circuit"
	"ExpanderExec/modules/fields"
)

// evalLayer computes the output vector of one layer from its input
// vector. publicInput is the public-input block of the instance being
// evaluated.
func evalLayer[E any](field fields.Field[E], layer *circuit.Layer[E], in []E, out []E, publicInput []E) {
	outputSize := uint(1) << layer.OutputLenLog
	for i := uint(0); i < outputSize; i++ {
		out[i] = field.Zero()
	}

	for i := range layer.Mul {
		gate := &layer.Mul[i]
		v := field.Mul(field.Mul(in[gate.IIds[0]], in[gate.IIds[1]]), gate.Coef.ActualLocalValue())
		out[gate.OId] = field.Add(out[gate.OId], v)
	}

	for i := range layer.Add {
		gate := &layer.Add[i]
		v := field.Mul(in[gate.IIds[0]], gate.Coef.ActualLocalValue())
		out[gate.OId] = field.Add(out[gate.OId], v)
	}

	for i := range layer.Cst {
		gate := &layer.Cst[i]
		var v E
		if gate.Coef.CoefType == circuit.PublicInput {
			v = publicInput[gate.Coef.InputIdx]
		} else {
			v = gate.Coef.ActualLocalValue()
		}
		out[gate.OId] = field.Add(out[gate.OId], v)
	}
}

// foldVals collapses a vector into a single element as the polynomial
// sum vals[i] * alpha^i.
func foldVals[E any](field fields.Field[E], vals []E, alpha E) E {
	acc := field.Zero()
	pow := field.One()
	for i := range vals {
		acc = field.Add(acc, field.Mul(vals[i], pow))
		pow = field.Mul(pow, alpha)
	}
	return acc
}
