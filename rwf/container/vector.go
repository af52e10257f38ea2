package container

import "github.com/mdxfeed/rwfgo/rwf"

// VectorAction is a Vector entry's action (spec.md §3).
type VectorAction uint8

const (
	VectorActionUpdate VectorAction = 1
	VectorActionSet    VectorAction = 2
	VectorActionClear  VectorAction = 3
	VectorActionInsert VectorAction = 4
	VectorActionDelete VectorAction = 5
)

// HasSortable marks a Vector as index-ordered (spec.md §3 "optional sort
// flag"); it shares the header flag byte with the other Vector bits,
// reusing Map's HasKeyFieldID bit position, which Vector never sets.
const HasSortable Flags = 0x20

// VectorHeader is Vector's fixed header.
type VectorHeader struct {
	Flags          Flags
	ContainerType  rwf.DataType
	TotalCountHint int
	SetDefs        *SetDefDB
}

func VectorInit(iter *rwf.EncodeIterator, h VectorHeader, summary []byte, maxEncodingSize int) rwf.Ret {
	if ret := iter.WriteByte(byte(h.Flags)); ret != rwf.RetSuccess {
		return ret
	}
	if ret := iter.WriteByte(byte(h.ContainerType)); ret != rwf.RetSuccess {
		return ret
	}
	if h.Flags.Has(HasTotalCountHint) {
		if ret := rwf.EncodeUInt(iter, uint64(h.TotalCountHint)); ret != rwf.RetSuccess {
			return ret
		}
	}
	if h.Flags.Has(HasSetDefs) {
		if ret := encodeSetDefs(iter, h.SetDefs, false, maxEncodingSize); ret != rwf.RetSuccess {
			return ret
		}
	}
	if h.Flags.Has(HasSummaryData) {
		if ret := iter.PushContainer(len(summary)); ret != rwf.RetSuccess {
			return ret
		}
		if ret := iter.WriteRaw(summary); ret != rwf.RetSuccess {
			iter.PopContainerComplete(false)
			return ret
		}
		if ret := iter.PopContainerComplete(true); ret != rwf.RetSuccess {
			return ret
		}
	}
	return iter.PushContainer(maxEncodingSize)
}

// VectorEntry writes one entry: action, index, optional permData, then —
// unless Clear/Delete — the pre-encoded value.
func VectorEntry(iter *rwf.EncodeIterator, action VectorAction, index uint64, permData []byte, flags Flags, value []byte, maxEncodingSize int) rwf.Ret {
	if ret := iter.WriteByte(byte(action)); ret != rwf.RetSuccess {
		return ret
	}
	if ret := rwf.EncodeUInt(iter, index); ret != rwf.RetSuccess {
		return ret
	}
	if flags.Has(HasPermData) {
		if ret := iter.PushContainer(len(permData)); ret != rwf.RetSuccess {
			return ret
		}
		if ret := iter.WriteRaw(permData); ret != rwf.RetSuccess {
			iter.PopContainerComplete(false)
			return ret
		}
		if ret := iter.PopContainerComplete(true); ret != rwf.RetSuccess {
			return ret
		}
	}
	if action == VectorActionClear || action == VectorActionDelete {
		return rwf.RetSuccess
	}
	return encodeWholeEntry(iter, nil, value, maxEncodingSize)
}

func VectorComplete(iter *rwf.EncodeIterator, success bool) rwf.Ret {
	return iter.PopContainerComplete(success)
}

func DecodeVector(iter *rwf.DecodeIterator) (VectorHeader, []byte, rwf.Ret) {
	var h VectorHeader
	var summary []byte
	fb, ret := iter.ReadByte()
	if ret != rwf.RetSuccess {
		return h, nil, ret
	}
	h.Flags = Flags(fb)
	ctb, ret := iter.ReadByte()
	if ret != rwf.RetSuccess {
		return h, nil, ret
	}
	h.ContainerType = rwf.DataType(ctb)
	if h.Flags.Has(HasTotalCountHint) {
		v, ret := rwf.DecodeUInt(iter)
		if ret != rwf.RetSuccess {
			return h, nil, ret
		}
		h.TotalCountHint = int(v)
	}
	if h.Flags.Has(HasSetDefs) {
		db, ret := decodeSetDefs(iter, false)
		if ret != rwf.RetSuccess {
			return h, nil, ret
		}
		h.SetDefs = db
	}
	if h.Flags.Has(HasSummaryData) {
		data, ret := decodeEntryData(iter)
		if ret != rwf.RetSuccess {
			return h, nil, ret
		}
		summary = data
	}
	if _, ret := iter.PushContainer(); ret != rwf.RetSuccess {
		return h, summary, ret
	}
	return h, summary, rwf.RetSuccess
}

type VectorEntryResult struct {
	Action   VectorAction
	Index    uint64
	PermData []byte
	Value    []byte
}

func DecodeVectorEntry(iter *rwf.DecodeIterator, flags Flags) (VectorEntryResult, rwf.Ret) {
	if iter.AtEnd() {
		iter.PopContainer()
		return VectorEntryResult{}, rwf.RetEndOfContainer
	}
	ab, ret := iter.ReadByte()
	if ret != rwf.RetSuccess {
		return VectorEntryResult{}, ret
	}
	var res VectorEntryResult
	res.Action = VectorAction(ab)
	idx, ret := rwf.DecodeUInt(iter)
	if ret != rwf.RetSuccess {
		return res, ret
	}
	res.Index = idx
	if flags.Has(HasPermData) {
		perm, ret := decodeEntryData(iter)
		if ret != rwf.RetSuccess {
			return res, ret
		}
		res.PermData = perm
	}
	if res.Action == VectorActionClear || res.Action == VectorActionDelete {
		return res, rwf.RetSuccess
	}
	val, ret := decodeEntryData(iter)
	if ret != rwf.RetSuccess {
		return res, ret
	}
	res.Value = val
	return res, rwf.RetSuccess
}
