package container

import "github.com/mdxfeed/rwfgo/rwf"

// MapAction is a Map entry's add/update/delete marker (spec.md §3).
type MapAction uint8

const (
	MapActionUpdate MapAction = 1
	MapActionAdd    MapAction = 2
	MapActionDelete MapAction = 3
)

// MapHeader is Map's fixed header: a uniform key primitive type, the
// container type entries carry, and the optional sections
// HasSetDefs/HasSummaryData/HasTotalCountHint/HasKeyFieldID enable.
type MapHeader struct {
	Flags          Flags
	KeyType        rwf.DataType
	ContainerType  rwf.DataType
	KeyFieldID     int16
	TotalCountHint int
	SetDefs        *SetDefDB // present when Flags.Has(HasSetDefs)
	isElementKeyed bool      // local set-defs are field-id-keyed for Map
}

const HasSetDefs Flags = 0x80

// MapInit writes the fixed header, the optional local set-def section,
// and the optional summary-data section, then opens the entries frame.
// summary, if non-nil, is a pre-encoded payload of ContainerType.
func MapInit(iter *rwf.EncodeIterator, h MapHeader, summary []byte, maxEncodingSize int) rwf.Ret {
	if ret := iter.WriteByte(byte(h.Flags)); ret != rwf.RetSuccess {
		return ret
	}
	header := []byte{byte(h.KeyType), byte(h.ContainerType)}
	if ret := iter.WriteRaw(header); ret != rwf.RetSuccess {
		return ret
	}
	if h.Flags.Has(HasKeyFieldID) {
		if ret := rwf.EncodeInt(iter, int64(h.KeyFieldID)); ret != rwf.RetSuccess {
			return ret
		}
	}
	if h.Flags.Has(HasTotalCountHint) {
		if ret := rwf.EncodeUInt(iter, uint64(h.TotalCountHint)); ret != rwf.RetSuccess {
			return ret
		}
	}
	if h.Flags.Has(HasSetDefs) {
		if ret := encodeSetDefs(iter, h.SetDefs, h.isElementKeyed, maxEncodingSize); ret != rwf.RetSuccess {
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

// MapEntryHeader precedes each entry's pre-encoded key and (for
// Add/Update) pre-encoded value.
type MapEntryHeader struct {
	Action   MapAction
	PermData []byte
}

// MapEntry writes one entry: action byte, optional permData, the
// pre-encoded key (self-delimited by the primitive codec), then — unless
// Delete — the pre-encoded value.
func MapEntry(iter *rwf.EncodeIterator, h MapEntryHeader, key []byte, value []byte, flags Flags, maxEncodingSize int) rwf.Ret {
	if ret := iter.WriteByte(byte(h.Action)); ret != rwf.RetSuccess {
		return ret
	}
	if flags.Has(HasPermData) {
		if ret := iter.PushContainer(len(h.PermData)); ret != rwf.RetSuccess {
			return ret
		}
		if ret := iter.WriteRaw(h.PermData); ret != rwf.RetSuccess {
			iter.PopContainerComplete(false)
			return ret
		}
		if ret := iter.PopContainerComplete(true); ret != rwf.RetSuccess {
			return ret
		}
	}
	if ret := iter.WriteRaw(key); ret != rwf.RetSuccess {
		return ret
	}
	if h.Action == MapActionDelete {
		return rwf.RetSuccess
	}
	return encodeWholeEntry(iter, nil, value, maxEncodingSize)
}

func MapComplete(iter *rwf.EncodeIterator, success bool) rwf.Ret {
	return iter.PopContainerComplete(success)
}

// DecodeMap parses the fixed header, the optional local set-def section,
// and the optional summary section (returned undecoded), then opens the
// entries frame.
func DecodeMap(iter *rwf.DecodeIterator) (MapHeader, []byte, rwf.Ret) {
	var h MapHeader
	var summary []byte
	fb, ret := iter.ReadByte()
	if ret != rwf.RetSuccess {
		return h, nil, ret
	}
	h.Flags = Flags(fb)
	b, ret := iter.ReadBytes(2)
	if ret != rwf.RetSuccess {
		return h, nil, ret
	}
	h.KeyType, h.ContainerType = rwf.DataType(b[0]), rwf.DataType(b[1])
	if h.Flags.Has(HasKeyFieldID) {
		v, ret := rwf.DecodeInt(iter)
		if ret != rwf.RetSuccess {
			return h, nil, ret
		}
		h.KeyFieldID = int16(v)
	}
	if h.Flags.Has(HasTotalCountHint) {
		v, ret := rwf.DecodeUInt(iter)
		if ret != rwf.RetSuccess {
			return h, nil, ret
		}
		h.TotalCountHint = int(v)
	}
	if h.Flags.Has(HasSetDefs) {
		db, ret := decodeSetDefs(iter, h.isElementKeyed)
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

// MapEntryResult is one decoded entry: Key is the key primitive's raw
// self-delimited bytes (caller decodes via DecodePrimitiveType(h.KeyType)),
// Value is nil for Delete actions.
type MapEntryResult struct {
	Action   MapAction
	PermData []byte
	Key      []byte
	Value    []byte
}

func DecodeMapEntry(iter *rwf.DecodeIterator, keyType rwf.DataType, flags Flags) (MapEntryResult, rwf.Ret) {
	if iter.AtEnd() {
		iter.PopContainer()
		return MapEntryResult{}, rwf.RetEndOfContainer
	}
	ab, ret := iter.ReadByte()
	if ret != rwf.RetSuccess {
		return MapEntryResult{}, ret
	}
	var res MapEntryResult
	res.Action = MapAction(ab)
	if flags.Has(HasPermData) {
		perm, ret := decodeEntryData(iter)
		if ret != rwf.RetSuccess {
			return res, ret
		}
		res.PermData = perm
	}
	keyBytes, ret := readSelfDelimited(iter, keyType)
	if ret != rwf.RetSuccess {
		return res, ret
	}
	res.Key = keyBytes
	if res.Action == MapActionDelete {
		return res, rwf.RetSuccess
	}
	val, ret := decodeEntryData(iter)
	if ret != rwf.RetSuccess {
		return res, ret
	}
	res.Value = val
	return res, rwf.RetSuccess
}
