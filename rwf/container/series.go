package container

import "github.com/mdxfeed/rwfgo/rwf"

// SeriesHeader is Series's fixed header: rows carry no explicit index or
// action, just an implicit position (spec.md §3).
type SeriesHeader struct {
	Flags          Flags
	ContainerType  rwf.DataType
	TotalCountHint int
	SetDefs        *SetDefDB
}

func SeriesInit(iter *rwf.EncodeIterator, h SeriesHeader, summary []byte, maxEncodingSize int) rwf.Ret {
	if ret := iter.WriteByte(byte(h.Flags)); ret != rwf.RetSuccess {
		return ret
	}
	if ret := iter.WriteByte(byte(h.ContainerType)); ret != rwf.RetSuccess {
		return ret
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
	if h.Flags.Has(HasTotalCountHint) {
		if ret := rwf.EncodeUInt(iter, uint64(h.TotalCountHint)); ret != rwf.RetSuccess {
			return ret
		}
	}
	return iter.PushContainer(maxEncodingSize)
}

// SeriesEntry writes one pre-encoded row.
func SeriesEntry(iter *rwf.EncodeIterator, value []byte, maxEncodingSize int) rwf.Ret {
	return encodeWholeEntry(iter, nil, value, maxEncodingSize)
}

func SeriesComplete(iter *rwf.EncodeIterator, success bool) rwf.Ret {
	return iter.PopContainerComplete(success)
}

func DecodeSeries(iter *rwf.DecodeIterator) (SeriesHeader, []byte, rwf.Ret) {
	var h SeriesHeader
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
	if h.Flags.Has(HasTotalCountHint) {
		v, ret := rwf.DecodeUInt(iter)
		if ret != rwf.RetSuccess {
			return h, nil, ret
		}
		h.TotalCountHint = int(v)
	}
	if _, ret := iter.PushContainer(); ret != rwf.RetSuccess {
		return h, summary, ret
	}
	return h, summary, rwf.RetSuccess
}

func DecodeSeriesEntry(iter *rwf.DecodeIterator) ([]byte, rwf.Ret) {
	if iter.AtEnd() {
		iter.PopContainer()
		return nil, rwf.RetEndOfContainer
	}
	return decodeEntryData(iter)
}
