package msg

import (
	"github.com/mdxfeed/rwfgo/rwf"
	"github.com/mdxfeed/rwfgo/rwf/container"
)

// Well-known ElementList entry names the batch/view detector recognizes
// (original_source/Ema/Src/Access/Impl/ReqMsgEncoder.cpp checkBatchView).
const (
	elemNameViewData = ":ViewData"
	elemNameItemList = ":ItemList"
)

// CheckBatchView peeks a Request's payload — only meaningful when
// containerType is ElementList — for ":ViewData" (sets HAS_VIEW) and
// ":ItemList" (collects a deduplicated item vector and sets HAS_BATCH).
// If the incoming item list held duplicates, the ElementList is
// re-encoded in place with the deduped items; all other entries are
// preserved verbatim (spec.md §4.6).
func CheckBatchView(m *Msg) rwf.Ret {
	if m.Header.ContainerType != rwf.DataTypeElementList {
		return rwf.RetSuccess
	}
	iter := &rwf.DecodeIterator{}
	iter.SetBuffer(rwf.NewBuffer(m.EncDataBody))
	iter.SetVersion(rwf.MajorVersion, rwf.MinorVersion)
	h, ret := container.DecodeElementList(iter)
	if ret != rwf.RetSuccess {
		return ret
	}

	dec := container.NewElementListDecoder(iter, h, nil)
	var items []string
	seen := map[string]bool{}
	var dupFound bool
	var entries []container.ElementEntry
	for {
		e, ret := dec.Next()
		if ret == rwf.RetEndOfContainer {
			break
		}
		if ret != rwf.RetSuccess {
			return ret
		}
		entries = append(entries, e)
		switch e.Name {
		case elemNameViewData:
			m.RequestFlags |= ReqHasView
		case elemNameItemList:
			if e.DataType != rwf.DataTypeArray {
				continue
			}
			strs, ret := decodeAsciiArray(e.Data)
			if ret != rwf.RetSuccess {
				return ret
			}
			for _, s := range strs {
				if seen[s] {
					dupFound = true
					continue
				}
				seen[s] = true
				items = append(items, s)
			}
			if len(items) > 0 {
				m.RequestFlags |= ReqHasBatch
			}
		}
	}

	if dupFound {
		reencoded, ret := reEncodeElementListDedupedItemList(entries, items)
		if ret != rwf.RetSuccess {
			return ret
		}
		m.EncDataBody = reencoded
	}
	return rwf.RetSuccess
}

func decodeAsciiArray(data []byte) ([]string, rwf.Ret) {
	it := &rwf.DecodeIterator{}
	it.SetBuffer(rwf.NewBuffer(data))
	ah, ret := container.DecodeArray(it)
	if ret != rwf.RetSuccess {
		return nil, ret
	}
	if ah.PrimitiveType != rwf.DataTypeAsciiString {
		return nil, rwf.RetSuccess
	}
	var out []string
	for {
		b, ret := container.DecodeArrayEntry(it, ah)
		if ret == rwf.RetEndOfContainer {
			break
		}
		if ret != rwf.RetSuccess {
			return nil, ret
		}
		s, ret := rwf.DecodeBuffer(elemIterFromBytes(b))
		if ret != rwf.RetSuccess && ret != rwf.RetBlankData {
			return nil, ret
		}
		out = append(out, string(s))
	}
	return out, rwf.RetSuccess
}

func elemIterFromBytes(b []byte) *rwf.DecodeIterator {
	it := &rwf.DecodeIterator{}
	it.SetBuffer(rwf.NewBuffer(b))
	return it
}

// reEncodeElementListDedupedItemList rebuilds the whole ElementList,
// substituting a fresh ":ItemList" array of the deduped items and
// passing every other entry through verbatim (spec.md §4.6 "must
// preserve all non-recognized entries verbatim").
func reEncodeElementListDedupedItemList(entries []container.ElementEntry, items []string) ([]byte, rwf.Ret) {
	size := 256
	for _, it := range items {
		size += len(it) + 8
	}
	for _, e := range entries {
		size += len(e.Data) + len(e.Name) + 8
	}
	arrBuf := make([]byte, size)
	arr := &rwf.EncodeIterator{}
	arr.SetBuffer(rwf.NewBuffer(arrBuf))
	if ret := container.ArrayInit(arr, container.ArrayHeader{PrimitiveType: rwf.DataTypeAsciiString}, size); ret != rwf.RetSuccess {
		return nil, ret
	}
	for _, it := range items {
		entryBuf := make([]byte, len(it)+4)
		eit := &rwf.EncodeIterator{}
		eit.SetBuffer(rwf.NewBuffer(entryBuf))
		if ret := rwf.EncodeBuffer(eit, []byte(it)); ret != rwf.RetSuccess {
			return nil, ret
		}
		if ret := container.ArrayEntry(arr, eit.Bytes()); ret != rwf.RetSuccess {
			return nil, ret
		}
	}
	if ret := container.ArrayComplete(arr, true); ret != rwf.RetSuccess {
		return nil, ret
	}
	dedupedItemList := container.ElementEntry{Name: elemNameItemList, DataType: rwf.DataTypeArray, Data: arr.Bytes()}

	buf := make([]byte, size)
	out := &rwf.EncodeIterator{}
	out.SetBuffer(rwf.NewBuffer(buf))
	if ret := container.ElementListInit(out, container.ElementListHeader{}, size); ret != rwf.RetSuccess {
		return nil, ret
	}
	// Substitute the deduped ":ItemList" at its original position among
	// the other entries rather than moving it to the end
	// (ReqMsgEncoder.cpp's reEncodeItemList preserves entry order).
	substituted := false
	for _, e := range entries {
		if e.Name == elemNameItemList {
			if substituted {
				continue
			}
			e = dedupedItemList
			substituted = true
		}
		if ret := container.ElementListEntry(out, e, size); ret != rwf.RetSuccess {
			return nil, ret
		}
	}
	if !substituted {
		if ret := container.ElementListEntry(out, dedupedItemList, size); ret != rwf.RetSuccess {
			return nil, ret
		}
	}
	if ret := container.ElementListComplete(out, true); ret != rwf.RetSuccess {
		return nil, ret
	}
	return out.Bytes(), rwf.RetSuccess
}
