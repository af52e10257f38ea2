package container

import "github.com/mdxfeed/rwfgo/rwf"

// ElementListHeader is ElementList's fixed header: entries are keyed by
// UTF-8 name rather than field id (spec.md §3).
type ElementListHeader struct {
	Flags          Flags
	ElementListNum int16
	SetID          uint16
	SetData        []byte
}

// ElementEntry is one ElementList entry, named rather than field-id-keyed.
type ElementEntry struct {
	Name     string
	DataType rwf.DataType
	Data     []byte
	Value    any
}

func ElementListInit(iter *rwf.EncodeIterator, h ElementListHeader, maxEncodingSize int) rwf.Ret {
	if ret := iter.WriteByte(byte(h.Flags)); ret != rwf.RetSuccess {
		return ret
	}
	if h.Flags.Has(HasElementListInfo) {
		if ret := rwf.EncodeInt(iter, int64(h.ElementListNum)); ret != rwf.RetSuccess {
			return ret
		}
	}
	if h.Flags.Has(HasSetID) {
		if ret := rwf.EncodeUInt(iter, uint64(h.SetID)); ret != rwf.RetSuccess {
			return ret
		}
	}
	if h.Flags.Has(HasSetData) {
		if ret := iter.PushContainer(len(h.SetData)); ret != rwf.RetSuccess {
			return ret
		}
		if ret := iter.WriteRaw(h.SetData); ret != rwf.RetSuccess {
			iter.PopContainerComplete(false)
			return ret
		}
		if ret := iter.PopContainerComplete(true); ret != rwf.RetSuccess {
			return ret
		}
	}
	return iter.PushContainer(maxEncodingSize)
}

// ElementListEntry writes one standard entry: a length-prefixed name,
// the dataType byte, then a pre-encoded pass-through of the value.
func ElementListEntry(iter *rwf.EncodeIterator, e ElementEntry, maxEncodingSize int) rwf.Ret {
	nameBytes := []byte(e.Name)
	header := make([]byte, 0, len(nameBytes)+2)
	header = append(header, byte(len(nameBytes)))
	header = append(header, nameBytes...)
	header = append(header, byte(e.DataType))
	return encodeWholeEntry(iter, header, e.Data, maxEncodingSize)
}

func ElementListComplete(iter *rwf.EncodeIterator, success bool) rwf.Ret {
	return iter.PopContainerComplete(success)
}

func DecodeElementList(iter *rwf.DecodeIterator) (ElementListHeader, rwf.Ret) {
	var h ElementListHeader
	fb, ret := iter.ReadByte()
	if ret != rwf.RetSuccess {
		return h, ret
	}
	h.Flags = Flags(fb)
	if h.Flags.Has(HasElementListInfo) {
		v, ret := rwf.DecodeInt(iter)
		if ret != rwf.RetSuccess {
			return h, ret
		}
		h.ElementListNum = int16(v)
	}
	if h.Flags.Has(HasSetID) {
		v, ret := rwf.DecodeUInt(iter)
		if ret != rwf.RetSuccess {
			return h, ret
		}
		h.SetID = uint16(v)
	}
	if h.Flags.Has(HasSetData) {
		data, ret := decodeEntryData(iter)
		if ret != rwf.RetSuccess {
			return h, ret
		}
		h.SetData = data
	}
	if _, ret := iter.PushContainer(); ret != rwf.RetSuccess {
		return h, ret
	}
	return h, rwf.RetSuccess
}

// ElementListDecoder mirrors FieldListDecoder: set-data entries first
// (named via the SetDef), then standard named entries.
type ElementListDecoder struct {
	iter   *rwf.DecodeIterator
	cursor *setDataCursor
}

func NewElementListDecoder(iter *rwf.DecodeIterator, h ElementListHeader, def *SetDef) *ElementListDecoder {
	return &ElementListDecoder{iter: iter, cursor: newSetDataCursor(h.SetData, def)}
}

func (d *ElementListDecoder) Next() (ElementEntry, rwf.Ret) {
	if entry, v, ret, ok := d.cursor.next(); ok {
		if ret != rwf.RetSuccess {
			return ElementEntry{}, ret
		}
		return ElementEntry{Name: entry.Name, DataType: entry.DataType, Value: v}, rwf.RetSuccess
	}
	if d.iter.AtEnd() {
		d.iter.PopContainer()
		return ElementEntry{}, rwf.RetEndOfContainer
	}
	nlen, ret := d.iter.ReadByte()
	if ret != rwf.RetSuccess {
		return ElementEntry{}, ret
	}
	nameB, ret := d.iter.ReadBytes(int(nlen))
	if ret != rwf.RetSuccess {
		return ElementEntry{}, ret
	}
	dtb, ret := d.iter.ReadByte()
	if ret != rwf.RetSuccess {
		return ElementEntry{}, ret
	}
	data, ret := decodeEntryData(d.iter)
	if ret != rwf.RetSuccess {
		return ElementEntry{}, ret
	}
	return ElementEntry{Name: string(nameB), DataType: rwf.DataType(dtb), Data: data}, rwf.RetSuccess
}
