package circuit

import (
	"ExpanderExec/modules/fields"
)

func NewRandomLayer[E any](field fields.Field[E], inputLenLog, outputLenLog uint, publicInputStartIdx *uint) *Layer[E] {
	var layer = Layer[E]{}

	layer.InputLenLog = inputLenLog
	layer.OutputLenLog = outputLenLog

	var inputSize = uint(1) << inputLenLog
	var outputSize = uint(1) << outputLenLog
	for i := uint(0); i < outputSize; i++ {
		layer.Add = append(layer.Add,
			Gate[E]{
				IIds: []uint{i % inputSize},
				OId:  i,
				Coef: Coef[E]{CoefType: Constant, Value: field.One()},
			},
		)

		// The first mul gate of every layer draws its coefficient from
		// the transcript.
		mulCoef := Coef[E]{CoefType: Constant, Value: field.One()}
		if i == 0 {
			mulCoef = Coef[E]{CoefType: Random}
		}
		layer.Mul = append(layer.Mul,
			Gate[E]{
				IIds: []uint{i % inputSize, (i * 2) % inputSize},
				OId:  i,
				Coef: mulCoef,
			},
		)

		layer.Cst = append(layer.Cst,
			Gate[E]{
				IIds: make([]uint, 0),
				OId:  i,
				Coef: Coef[E]{CoefType: PublicInput, InputIdx: *publicInputStartIdx},
			},
		)
		(*publicInputStartIdx)++
	}

	return &layer
}

// NewRandomCircuit builds a small layered circuit for tests and
// benchmarks: each layer halves the io size and touches add, mul,
// random-coefficient and public-input cst gates.
func NewRandomCircuit[E any](field fields.Field[E], nLayers uint, nWitnesses uint, setPublicInput bool) *Circuit[E] {
	var c = Circuit[E]{Field: field}

	var nPublicInput uint = 0
	for i := uint(0); i < nLayers; i++ {
		c.Layers = append(c.Layers, *NewRandomLayer(
			field,
			nLayers-i+1,
			nLayers-i,
			&nPublicInput,
		))
	}
	c.NumPublicInputs = nPublicInput

	for i := uint(0); i < nWitnesses; i++ {
		c.PublicInput = append(c.PublicInput, make([]E, nPublicInput))
		if setPublicInput {
			for j := uint(0); j < nPublicInput; j++ {
				c.PublicInput[i][j] = field.Zero()
			}
		}
	}

	c.ExpectedNumOutputZeros = uint(1) << c.Layers[len(c.Layers)-1].OutputLenLog
	return &c
}
