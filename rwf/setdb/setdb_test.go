package setdb

import (
	"testing"

	"github.com/mdxfeed/rwfgo/rwf"
	"github.com/mdxfeed/rwfgo/rwf/container"
)

func newEncIter(size int) *rwf.EncodeIterator {
	it := &rwf.EncodeIterator{}
	it.SetBuffer(rwf.NewBuffer(make([]byte, size)))
	it.SetVersion(rwf.MajorVersion, rwf.MinorVersion)
	return it
}

func newDecIter(data []byte) *rwf.DecodeIterator {
	it := &rwf.DecodeIterator{}
	it.SetBuffer(rwf.NewBuffer(data))
	it.SetVersion(rwf.MajorVersion, rwf.MinorVersion)
	return it
}

func TestFieldSetDefDBEncodeDecodeRoundTrip(t *testing.T) {
	src := NewFieldSetDefDB()
	if ret := src.Allocate("RDF-1.2.3"); ret != rwf.RetSuccess {
		t.Fatalf("allocate: %v", ret)
	}
	defs := []*container.SetDef{
		{SetID: 0, Entries: []container.SetDefEntry{
			{FieldID: 22, DataType: rwf.DataTypeReal},
			{FieldID: 25, DataType: rwf.DataTypeReal},
		}},
		{SetID: 1, Entries: []container.SetDefEntry{
			{FieldID: 6, DataType: rwf.DataTypeUInt},
		}},
	}
	for _, d := range defs {
		if ret := src.Add(d); ret != rwf.RetSuccess {
			t.Fatalf("add setId %d: %v", d.SetID, ret)
		}
	}

	iter := newEncIter(8 * 1024)
	cursor := &DictEncodeCursor{}
	if ret := src.EncodeDictionary(iter, 1, VerbosityNormal, cursor, 4096); ret != rwf.RetSuccess {
		t.Fatalf("encode: %v", ret)
	}

	dstField := NewFieldSetDefDB()
	dstElem := NewElementSetDefDB()
	var errText string
	dec := newDecIter(iter.Bytes())
	if ret := DecodeDictionary(dec, dstField, dstElem, &errText); ret != rwf.RetSuccess {
		t.Fatalf("decode: %v (%s)", ret, errText)
	}

	for _, want := range defs {
		got, ok := dstField.Lookup(want.SetID)
		if !ok {
			t.Fatalf("setId %d missing after decode", want.SetID)
		}
		if len(got.Entries) != len(want.Entries) {
			t.Fatalf("setId %d: got %d entries, want %d", want.SetID, len(got.Entries), len(want.Entries))
		}
		for i, e := range want.Entries {
			if got.Entries[i].FieldID != e.FieldID || got.Entries[i].DataType != e.DataType {
				t.Fatalf("setId %d entry %d = %+v, want %+v", want.SetID, i, got.Entries[i], e)
			}
		}
	}
	if dstField.MaxSetID() != 1 {
		t.Fatalf("MaxSetID = %d, want 1", dstField.MaxSetID())
	}
}

func TestElementSetDefDBEncodeDecodeRoundTrip(t *testing.T) {
	src := NewElementSetDefDB()
	if ret := src.Allocate("RDF-1.2.3"); ret != rwf.RetSuccess {
		t.Fatalf("allocate: %v", ret)
	}
	def := &container.SetDef{SetID: 0, Entries: []container.SetDefEntry{
		{Name: "BID", DataType: rwf.DataTypeReal},
		{Name: "ASK", DataType: rwf.DataTypeReal},
	}}
	if ret := src.Add(def); ret != rwf.RetSuccess {
		t.Fatalf("add: %v", ret)
	}

	iter := newEncIter(4096)
	cursor := &DictEncodeCursor{}
	if ret := src.EncodeDictionary(iter, 2, VerbosityNormal, cursor, 2048); ret != rwf.RetSuccess {
		t.Fatalf("encode: %v", ret)
	}

	dstField := NewFieldSetDefDB()
	dstElem := NewElementSetDefDB()
	var errText string
	dec := newDecIter(iter.Bytes())
	if ret := DecodeDictionary(dec, dstField, dstElem, &errText); ret != rwf.RetSuccess {
		t.Fatalf("decode: %v (%s)", ret, errText)
	}
	got, ok := dstElem.Lookup(0)
	if !ok {
		t.Fatalf("setId 0 missing after decode")
	}
	if len(got.Entries) != 2 || got.Entries[0].Name != "BID" || got.Entries[1].Name != "ASK" {
		t.Fatalf("entries = %+v", got.Entries)
	}
}

// TestDecodeDictEntryRoundTripsNumEntriesFirst round-trips one entry
// through encodeDictEntry and decodeDictEntry. The encoder always emits
// NUMENTRIES before FIDS/TYPES, so only that order is covered; the
// decoded entries must match the originals field for field.
func TestDecodeDictEntryRoundTripsNumEntriesFirst(t *testing.T) {
	def := &container.SetDef{SetID: 5, Entries: []container.SetDefEntry{
		{FieldID: 1, DataType: rwf.DataTypeInt},
		{FieldID: 2, DataType: rwf.DataTypeInt},
		{FieldID: 3, DataType: rwf.DataTypeInt},
	}}
	entryBytes, ret := encodeDictEntry(def, typeField, 2048)
	if ret != rwf.RetSuccess {
		t.Fatalf("encodeDictEntry: %v", ret)
	}
	got, ret := decodeDictEntry(entryBytes, uint64(def.SetID), typeField)
	if ret != rwf.RetSuccess {
		t.Fatalf("decodeDictEntry: %v", ret)
	}
	if len(got.Entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(got.Entries))
	}
	for i, e := range def.Entries {
		if got.Entries[i].FieldID != e.FieldID || got.Entries[i].DataType != e.DataType {
			t.Fatalf("entry %d = %+v, want %+v", i, got.Entries[i], e)
		}
	}
}

func TestDecodeDictionaryRejectsDuplicateSetID(t *testing.T) {
	src := NewFieldSetDefDB()
	src.Allocate("v1")
	src.Add(&container.SetDef{SetID: 0, Entries: []container.SetDefEntry{{FieldID: 1, DataType: rwf.DataTypeInt}}})

	iter := newEncIter(4096)
	cursor := &DictEncodeCursor{}
	if ret := src.EncodeDictionary(iter, 1, VerbosityNormal, cursor, 2048); ret != rwf.RetSuccess {
		t.Fatalf("encode: %v", ret)
	}
	wire := iter.Bytes()

	dstField := NewFieldSetDefDB()
	dstElem := NewElementSetDefDB()
	var errText string
	// Decode the same wire payload twice into the same destination DB:
	// the second pass must hit the already-populated setId 0 and fail.
	if ret := DecodeDictionary(newDecIter(wire), dstField, dstElem, &errText); ret != rwf.RetSuccess {
		t.Fatalf("first decode: %v (%s)", ret, errText)
	}
	ret := DecodeDictionary(newDecIter(wire), dstField, dstElem, &errText)
	if ret != rwf.RetDictDuplicateEnumValue {
		t.Fatalf("expected RetDictDuplicateEnumValue, got %v (%s)", ret, errText)
	}
}

func TestEncodeDictionaryMultiPartResumesViaCursor(t *testing.T) {
	src := NewFieldSetDefDB()
	src.Allocate("v1")
	const total = 20
	for i := 0; i < total; i++ {
		src.Add(&container.SetDef{SetID: uint16(i), Entries: []container.SetDefEntry{
			{FieldID: int16(100 + i), DataType: rwf.DataTypeInt},
		}})
	}

	// A buffer sized for roughly half the sets forces RetDictPartEncoded
	// partway through; the cursor records how far encoding got so a
	// follow-up call can resume instead of restarting from setId 0.
	small := newEncIter(500)
	cursor := &DictEncodeCursor{}
	ret := src.EncodeDictionary(small, 1, VerbosityNormal, cursor, 500)
	if ret != rwf.RetDictPartEncoded {
		t.Fatalf("expected RetDictPartEncoded on an undersized buffer, got %v", ret)
	}
	if cursor.nextSetID <= 0 || cursor.nextSetID >= total {
		t.Fatalf("expected cursor to stop strictly between 0 and %d sets, got %d", total, cursor.nextSetID)
	}

	rest := newEncIter(16384)
	if ret := src.EncodeDictionary(rest, 1, VerbosityNormal, cursor, 16384); ret != rwf.RetSuccess {
		t.Fatalf("resume encode: %v", ret)
	}

	dstField := NewFieldSetDefDB()
	dstElem := NewElementSetDefDB()
	var errText string
	if ret := DecodeDictionary(newDecIter(rest.Bytes()), dstField, dstElem, &errText); ret != rwf.RetSuccess {
		t.Fatalf("decode resumed part: %v (%s)", ret, errText)
	}
	if _, ok := dstField.Lookup(uint16(total - 1)); !ok {
		t.Fatalf("expected last setId to be present in the resumed part")
	}
}

func TestVerbosityInfoEncodesSummaryOnly(t *testing.T) {
	src := NewFieldSetDefDB()
	src.Allocate("v1")
	src.Add(&container.SetDef{SetID: 0, Entries: []container.SetDefEntry{{FieldID: 1, DataType: rwf.DataTypeInt}}})

	iter := newEncIter(2048)
	cursor := &DictEncodeCursor{}
	if ret := src.EncodeDictionary(iter, 1, VerbosityInfo, cursor, 2048); ret != rwf.RetSuccess {
		t.Fatalf("encode: %v", ret)
	}

	dstField := NewFieldSetDefDB()
	dstElem := NewElementSetDefDB()
	var errText string
	if ret := DecodeDictionary(newDecIter(iter.Bytes()), dstField, dstElem, &errText); ret != rwf.RetSuccess {
		t.Fatalf("decode: %v (%s)", ret, errText)
	}
	if _, ok := dstField.Lookup(0); ok {
		t.Fatalf("VerbosityInfo should not carry set entries")
	}
}

func TestAddRejectsNilAndDuplicateSetID(t *testing.T) {
	db := NewFieldSetDefDB()
	db.Allocate("v1")
	def := &container.SetDef{SetID: 0, Entries: []container.SetDefEntry{{FieldID: 1, DataType: rwf.DataTypeInt}}}
	if ret := db.Add(def); ret != rwf.RetSuccess {
		t.Fatalf("first add: %v", ret)
	}
	if ret := db.Add(def); ret == rwf.RetSuccess {
		t.Fatalf("expected duplicate add to fail")
	}
	if ret := db.Add(nil); ret != rwf.RetInvalidArgument {
		t.Fatalf("expected RetInvalidArgument for nil def, got %v", ret)
	}
}
