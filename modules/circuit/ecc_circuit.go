package circuit

// The on-disk circuit is segment based: reusable sub-circuits placed at
// input/output offsets by their parents, plus the list of segment ids
// forming the layer stack. Loading flattens the segments into plain
// layers.

type Allocation struct {
	IOffset uint
	OOffset uint
}

type ChildSegInfo struct {
	Id         uint
	Allocation []Allocation
}

type Segment[E any] struct {
	IVarNum    uint
	OVarNum    uint
	ChildSegs  []ChildSegInfo
	GateMuls   []Gate[E]
	GateAdds   []Gate[E]
	GateConsts []Gate[E]
}

type ECCCircuit[E any] struct {
	NumPublicInputs        uint
	ExpectedNumOutputZeros uint

	Segments []Segment[E]
	LayerIds []uint
}

func (segment *Segment[E]) insertGates(muls, adds, csts *[]Gate[E], iOffset, oOffset uint) {
	for i := 0; i < len(segment.GateMuls); i++ {
		mulGate := segment.GateMuls[i]

		i0 := mulGate.IIds[0] + iOffset
		i1 := mulGate.IIds[1] + iOffset
		o := mulGate.OId + oOffset

		*muls = append(*muls,
			Gate[E]{
				IIds: []uint{i0, i1},
				OId:  o,
				Coef: mulGate.Coef,
			},
		)
	}

	for i := 0; i < len(segment.GateAdds); i++ {
		addGate := segment.GateAdds[i]
		i0 := addGate.IIds[0] + iOffset
		o := addGate.OId + oOffset

		*adds = append(*adds,
			Gate[E]{
				IIds: []uint{i0},
				OId:  o,
				Coef: addGate.Coef,
			},
		)
	}

	for i := 0; i < len(segment.GateConsts); i++ {
		cstGate := segment.GateConsts[i]
		*csts = append(*csts,
			Gate[E]{
				IIds: make([]uint, 0),
				OId:  cstGate.OId + oOffset,
				Coef: cstGate.Coef,
			},
		)
	}
}

// FlattenInto collects this segment's gates, then recurses into child
// segments at each of their allocations.
func (segment *Segment[E]) FlattenInto(
	allSegments []Segment[E],
	iOffset uint,
	oOffset uint,
	muls *[]Gate[E],
	adds *[]Gate[E],
	csts *[]Gate[E],
) {
	segment.insertGates(muls, adds, csts, iOffset, oOffset)
	for i := 0; i < len(segment.ChildSegs); i++ {
		childSegInfo := segment.ChildSegs[i]
		childSeg := &allSegments[childSegInfo.Id]
		for j := 0; j < len(childSegInfo.Allocation); j++ {
			alloc := childSegInfo.Allocation[j]
			childSeg.FlattenInto(
				allSegments,
				alloc.IOffset+iOffset,
				alloc.OOffset+oOffset,
				muls,
				adds,
				csts,
			)
		}
	}
}

// Flatten expands the segment table into the layered circuit the
// engines evaluate.
func (eccCircuit *ECCCircuit[E]) Flatten() *Circuit[E] {
	var retCircuit Circuit[E]
	retCircuit.NumPublicInputs = eccCircuit.NumPublicInputs
	retCircuit.ExpectedNumOutputZeros = eccCircuit.ExpectedNumOutputZeros

	allSegments := eccCircuit.Segments
	for i := 0; i < len(eccCircuit.LayerIds); i++ {
		layerId := eccCircuit.LayerIds[i]
		curSegment := &allSegments[layerId]

		var muls []Gate[E]
		var adds []Gate[E]
		var csts []Gate[E]
		curSegment.FlattenInto(
			allSegments,
			0,
			0,
			&muls,
			&adds,
			&csts,
		)

		retCircuit.Layers = append(retCircuit.Layers,
			Layer[E]{
				InputLenLog:  max(curSegment.IVarNum, 1),
				OutputLenLog: max(curSegment.OVarNum, 1),

				Cst: csts,
				Add: adds,
				Mul: muls,

				StructureInfo: StructureInfo{len(muls) == 0},
			},
		)
	}

	return &retCircuit
}
