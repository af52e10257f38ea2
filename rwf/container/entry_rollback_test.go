package container_test

import (
	"github.com/mdxfeed/rwfgo/rwf"
	"github.com/mdxfeed/rwfgo/rwf/container"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func newEncIter(buf []byte) *rwf.EncodeIterator {
	it := &rwf.EncodeIterator{}
	it.SetBuffer(rwf.NewBuffer(buf))
	it.SetVersion(rwf.MajorVersion, rwf.MinorVersion)
	return it
}

func newDecIter(data []byte) *rwf.DecodeIterator {
	it := &rwf.DecodeIterator{}
	it.SetBuffer(rwf.NewBuffer(data))
	it.SetVersion(rwf.MajorVersion, rwf.MinorVersion)
	return it
}

func encField(it *rwf.EncodeIterator, v int64) []byte {
	b := make([]byte, 16)
	e := newEncIter(b)
	rwf.EncodeInt(e, v)
	return e.Bytes()
}

var _ = Describe("FieldList entry rollback", func() {
	It("does not corrupt sibling entries when one entry fails mid-encode", func() {
		it := newEncIter(make([]byte, 64))
		Expect(container.FieldListInit(it, container.FieldListHeader{}, 64)).To(Equal(rwf.RetSuccess))
		Expect(container.FieldListEntry(it, container.FieldEntry{FieldID: 1, DataType: rwf.DataTypeInt, Data: encField(it, 10)}, 64)).To(Equal(rwf.RetSuccess))

		// A header too large to fit: its data region overruns the
		// remaining buffer, so the entry fails but must not leave
		// partial bytes behind for the next entry to trip over.
		tooBig := make([]byte, 1000)
		failRet := container.FieldListEntry(it, container.FieldEntry{FieldID: 2, DataType: rwf.DataTypeBuffer, Data: tooBig}, 64)
		Expect(failRet).NotTo(Equal(rwf.RetSuccess))

		Expect(container.FieldListEntry(it, container.FieldEntry{FieldID: 3, DataType: rwf.DataTypeInt, Data: encField(it, 30)}, 64)).To(Equal(rwf.RetSuccess))
		Expect(container.FieldListComplete(it, true)).To(Equal(rwf.RetSuccess))

		dec := newDecIter(it.Bytes())
		h, ret := container.DecodeFieldList(dec)
		Expect(ret).To(Equal(rwf.RetSuccess))
		d := container.NewFieldListDecoder(dec, h, nil)

		e1, ret := d.Next()
		Expect(ret).To(Equal(rwf.RetSuccess))
		Expect(e1.FieldID).To(Equal(int16(1)))

		e2, ret := d.Next()
		Expect(ret).To(Equal(rwf.RetSuccess))
		Expect(e2.FieldID).To(Equal(int16(3)))

		_, ret = d.Next()
		Expect(ret).To(Equal(rwf.RetEndOfContainer))
	})

	It("rewinds the parent container to its pre-entry position on a failed entry", func() {
		it := newEncIter(make([]byte, 24))
		Expect(container.FieldListInit(it, container.FieldListHeader{}, 24)).To(Equal(rwf.RetSuccess))
		before := it.Bytes()
		beforeLen := len(before)

		failRet := container.FieldListEntry(it, container.FieldEntry{FieldID: 9, DataType: rwf.DataTypeBuffer, Data: make([]byte, 1000)}, 24)
		Expect(failRet).NotTo(Equal(rwf.RetSuccess))

		Expect(len(it.Bytes())).To(Equal(beforeLen), "a failed entry must not leave partial bytes written")
	})
})

var _ = Describe("pre-encoded pass-through", func() {
	It("writes entry data verbatim without a separate EntryInit/EntryComplete call", func() {
		it := newEncIter(make([]byte, 64))
		payload := encField(it, 42)
		Expect(container.FieldListInit(it, container.FieldListHeader{}, 64)).To(Equal(rwf.RetSuccess))
		Expect(container.FieldListEntry(it, container.FieldEntry{FieldID: 7, DataType: rwf.DataTypeInt, Data: payload}, 64)).To(Equal(rwf.RetSuccess))
		Expect(container.FieldListComplete(it, true)).To(Equal(rwf.RetSuccess))

		dec := newDecIter(it.Bytes())
		h, ret := container.DecodeFieldList(dec)
		Expect(ret).To(Equal(rwf.RetSuccess))
		d := container.NewFieldListDecoder(dec, h, nil)
		e, ret := d.Next()
		Expect(ret).To(Equal(rwf.RetSuccess))
		Expect(e.Data).To(Equal(payload), "the entry's wire bytes must match the pre-encoded value exactly")
	})
})
