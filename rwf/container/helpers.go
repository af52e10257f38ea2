// Package container implements RWF's uniform and keyed/indexed containers —
// Array, FieldList, ElementList, Map, Vector, Series, FilterList — spec
// component C3, plus the local (inline) half of set-definition handling
// that C3 requires (global dictionary exchange is rwf/setdb, component C4).
package container

import (
	"github.com/mdxfeed/rwfgo/rwf"
)

// beginEntry writes a fixed entry header then reserves a pending length
// prefix for the entry's data, the shared first half of every container's
// *EntryInit (spec.md §4.3). savedPos is the cursor position before the
// header was written, so a caller whose PushContainer fails here (no
// frame was pushed to roll back through PopContainerComplete) can still
// undo the header bytes via Rewind.
func beginEntry(iter *rwf.EncodeIterator, header []byte, maxEncodingSize int) (savedPos int, ret rwf.Ret) {
	savedPos = iter.GetEncodedLength()
	if ret := iter.WriteRaw(header); ret != rwf.RetSuccess {
		return savedPos, ret
	}
	if ret := iter.PushContainer(maxEncodingSize); ret != rwf.RetSuccess {
		iter.Rewind(savedPos)
		return savedPos, ret
	}
	return savedPos, rwf.RetSuccess
}

// completeEntry finishes an entry started with beginEntry: success
// back-patches the length; failure rewinds all the way to savedPos (past
// the header bytes too), satisfying "a failed entry encode inside a
// larger container does not corrupt siblings; the parent still completes
// cleanly" (spec.md §4.3).
func completeEntry(iter *rwf.EncodeIterator, savedPos int, success bool) rwf.Ret {
	ret := iter.PopContainerComplete(success)
	if !success {
		iter.Rewind(savedPos)
	}
	return ret
}

// encodeWholeEntry is the pre-encoded-pass-through path: header, then a
// verbatim memcpy of data, with no separate EntryInit/EntryComplete calls
// observable to the caller (spec.md §4.3 "pre-encoded pass-through").
func encodeWholeEntry(iter *rwf.EncodeIterator, header []byte, data []byte, maxEncodingSize int) rwf.Ret {
	savedPos, ret := beginEntry(iter, header, maxEncodingSize)
	if ret != rwf.RetSuccess {
		return ret
	}
	if ret := iter.WriteRaw(data); ret != rwf.RetSuccess {
		completeEntry(iter, savedPos, false)
		return ret
	}
	return completeEntry(iter, savedPos, true)
}

// decodeEntryData reads the entry's length-delimited data region after its
// fixed header has already been parsed by the caller.
func decodeEntryData(iter *rwf.DecodeIterator) ([]byte, rwf.Ret) {
	n, ret := iter.PushContainer()
	if ret != rwf.RetSuccess {
		return nil, ret
	}
	data, ret := iter.ReadBytes(n)
	if ret != rwf.RetSuccess {
		return nil, ret
	}
	if ret := iter.PopContainer(); ret != rwf.RetSuccess {
		return nil, ret
	}
	return data, rwf.RetSuccess
}

// setDataCursor walks a length-framed, pre-encoded set-data blob
// positionally against a SetDef, yielding (fieldId-or-name, dataType,
// rawValue) triples. If no matching def is available the blob is still
// skippable as opaque bytes because it is itself length-prefixed on the
// wire (spec.md §4.3: "If set data is present but no set-def DB is
// available, set entries are skipped").
type setDataCursor struct {
	def *SetDef
	it  *rwf.DecodeIterator
	idx int
}

func newSetDataCursor(blob []byte, def *SetDef) *setDataCursor {
	if def == nil || len(blob) == 0 {
		return &setDataCursor{}
	}
	it := &rwf.DecodeIterator{}
	it.SetBuffer(rwf.NewBuffer(blob))
	return &setDataCursor{def: def, it: it}
}

func (c *setDataCursor) next() (SetDefEntry, any, rwf.Ret, bool) {
	if c.def == nil || c.idx >= len(c.def.Entries) {
		return SetDefEntry{}, nil, rwf.RetSuccess, false
	}
	entry := c.def.Entries[c.idx]
	c.idx++
	v, ret := rwf.DecodePrimitiveType(c.it, entry.DataType)
	if ret != rwf.RetSuccess && ret != rwf.RetBlankData {
		return entry, nil, ret, true
	}
	return entry, v, rwf.RetSuccess, true
}
