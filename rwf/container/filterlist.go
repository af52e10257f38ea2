package container

import "github.com/mdxfeed/rwfgo/rwf"

// FilterListAction is a FilterList entry's action (spec.md §3).
type FilterListAction uint8

const (
	FilterListActionUpdate FilterListAction = 1
	FilterListActionSet    FilterListAction = 2
	FilterListActionClear  FilterListAction = 3
)

// FilterEntryHasContainerType marks that an entry overrides the list's
// default container type with its own (spec.md §3 "per-entry override").
const FilterEntryHasContainerType Flags = 0x01
const filterEntryHasPermData Flags = 0x02

// FilterListHeader is FilterList's fixed header: a default container
// type plus an optional total-count hint. Filter ids run 1..32.
type FilterListHeader struct {
	Flags          Flags
	ContainerType  rwf.DataType
	TotalCountHint int
}

func FilterListInit(iter *rwf.EncodeIterator, h FilterListHeader, maxEncodingSize int) rwf.Ret {
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
	return iter.PushContainer(maxEncodingSize)
}

// FilterEntry writes one entry: an entry-flags byte, filterId (1..32),
// optional container-type override, optional permData, then — unless
// Clear — the pre-encoded value.
func FilterEntry(iter *rwf.EncodeIterator, action FilterListAction, filterID uint8, containerType rwf.DataType, hasContainerTypeOverride bool, permData []byte, value []byte, maxEncodingSize int) rwf.Ret {
	var entryFlags Flags
	if hasContainerTypeOverride {
		entryFlags |= FilterEntryHasContainerType
	}
	if permData != nil {
		entryFlags |= filterEntryHasPermData
	}
	b := byte(entryFlags)<<2 | byte(action)
	if ret := iter.WriteByte(b); ret != rwf.RetSuccess {
		return ret
	}
	if ret := iter.WriteByte(filterID); ret != rwf.RetSuccess {
		return ret
	}
	if hasContainerTypeOverride {
		if ret := iter.WriteByte(byte(containerType)); ret != rwf.RetSuccess {
			return ret
		}
	}
	if permData != nil {
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
	if action == FilterListActionClear {
		return rwf.RetSuccess
	}
	return encodeWholeEntry(iter, nil, value, maxEncodingSize)
}

func FilterListComplete(iter *rwf.EncodeIterator, success bool) rwf.Ret {
	return iter.PopContainerComplete(success)
}

func DecodeFilterList(iter *rwf.DecodeIterator) (FilterListHeader, rwf.Ret) {
	var h FilterListHeader
	fb, ret := iter.ReadByte()
	if ret != rwf.RetSuccess {
		return h, ret
	}
	h.Flags = Flags(fb)
	ctb, ret := iter.ReadByte()
	if ret != rwf.RetSuccess {
		return h, ret
	}
	h.ContainerType = rwf.DataType(ctb)
	if h.Flags.Has(HasTotalCountHint) {
		v, ret := rwf.DecodeUInt(iter)
		if ret != rwf.RetSuccess {
			return h, ret
		}
		h.TotalCountHint = int(v)
	}
	if _, ret := iter.PushContainer(); ret != rwf.RetSuccess {
		return h, ret
	}
	return h, rwf.RetSuccess
}

type FilterEntryResult struct {
	Action        FilterListAction
	FilterID      uint8
	ContainerType rwf.DataType
	HasOverride   bool
	PermData      []byte
	Value         []byte
}

func DecodeFilterEntry(iter *rwf.DecodeIterator, defaultContainerType rwf.DataType) (FilterEntryResult, rwf.Ret) {
	if iter.AtEnd() {
		iter.PopContainer()
		return FilterEntryResult{}, rwf.RetEndOfContainer
	}
	b, ret := iter.ReadByte()
	if ret != rwf.RetSuccess {
		return FilterEntryResult{}, ret
	}
	entryFlags := Flags(b >> 2)
	action := FilterListAction(b & 0x03)
	var res FilterEntryResult
	res.Action = action
	res.ContainerType = defaultContainerType
	filterID, ret := iter.ReadByte()
	if ret != rwf.RetSuccess {
		return res, ret
	}
	res.FilterID = filterID
	if entryFlags.Has(FilterEntryHasContainerType) {
		ctb, ret := iter.ReadByte()
		if ret != rwf.RetSuccess {
			return res, ret
		}
		res.ContainerType = rwf.DataType(ctb)
		res.HasOverride = true
	}
	if entryFlags.Has(filterEntryHasPermData) {
		perm, ret := decodeEntryData(iter)
		if ret != rwf.RetSuccess {
			return res, ret
		}
		res.PermData = perm
	}
	if action == FilterListActionClear {
		return res, rwf.RetSuccess
	}
	val, ret := decodeEntryData(iter)
	if ret != rwf.RetSuccess {
		return res, ret
	}
	res.Value = val
	return res, rwf.RetSuccess
}
