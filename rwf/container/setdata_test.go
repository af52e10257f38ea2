package container_test

import (
	"github.com/mdxfeed/rwfgo/rwf"
	"github.com/mdxfeed/rwfgo/rwf/container"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("set-data transparent iteration", func() {
	It("yields set-data entries before standard entries through the same Next() call", func() {
		def := &container.SetDef{SetID: 0, Entries: []container.SetDefEntry{
			{FieldID: 1, DataType: rwf.DataTypeInt},
			{FieldID: 2, DataType: rwf.DataTypeInt},
		}}

		blobIter := newEncIter(make([]byte, 32))
		Expect(rwf.EncodeInt(blobIter, 100)).To(Equal(rwf.RetSuccess))
		Expect(rwf.EncodeInt(blobIter, 200)).To(Equal(rwf.RetSuccess))
		blob := append([]byte(nil), blobIter.Bytes()...)

		it := newEncIter(make([]byte, 128))
		h := container.FieldListHeader{Flags: container.HasSetData, SetData: blob}
		Expect(container.FieldListInit(it, h, 128)).To(Equal(rwf.RetSuccess))
		standard := encField(it, 300)
		Expect(container.FieldListEntry(it, container.FieldEntry{FieldID: 3, DataType: rwf.DataTypeInt, Data: standard}, 128)).To(Equal(rwf.RetSuccess))
		Expect(container.FieldListComplete(it, true)).To(Equal(rwf.RetSuccess))

		dec := newDecIter(it.Bytes())
		decHeader, ret := container.DecodeFieldList(dec)
		Expect(ret).To(Equal(rwf.RetSuccess))
		Expect(decHeader.SetData).To(Equal(blob))

		d := container.NewFieldListDecoder(dec, decHeader, def)

		e1, ret := d.Next()
		Expect(ret).To(Equal(rwf.RetSuccess))
		Expect(e1.FieldID).To(Equal(int16(1)))
		Expect(e1.Value).To(Equal(int64(100)))

		e2, ret := d.Next()
		Expect(ret).To(Equal(rwf.RetSuccess))
		Expect(e2.FieldID).To(Equal(int16(2)))
		Expect(e2.Value).To(Equal(int64(200)))

		e3, ret := d.Next()
		Expect(ret).To(Equal(rwf.RetSuccess))
		Expect(e3.FieldID).To(Equal(int16(3)))
		Expect(e3.Data).To(Equal(standard))

		_, ret = d.Next()
		Expect(ret).To(Equal(rwf.RetEndOfContainer))
	})

	It("skips the set-data section as opaque bytes when no matching SetDef is supplied", func() {
		blobIter := newEncIter(make([]byte, 32))
		Expect(rwf.EncodeInt(blobIter, 42)).To(Equal(rwf.RetSuccess))
		blob := append([]byte(nil), blobIter.Bytes()...)

		it := newEncIter(make([]byte, 64))
		h := container.FieldListHeader{Flags: container.HasSetData, SetData: blob}
		Expect(container.FieldListInit(it, h, 64)).To(Equal(rwf.RetSuccess))
		standard := encField(it, 7)
		Expect(container.FieldListEntry(it, container.FieldEntry{FieldID: 9, DataType: rwf.DataTypeInt, Data: standard}, 64)).To(Equal(rwf.RetSuccess))
		Expect(container.FieldListComplete(it, true)).To(Equal(rwf.RetSuccess))

		dec := newDecIter(it.Bytes())
		decHeader, ret := container.DecodeFieldList(dec)
		Expect(ret).To(Equal(rwf.RetSuccess))

		// No SetDef: the decoder must fall straight through to the
		// standard entry, never attempting to interpret the set-data
		// bytes it has no definition for.
		d := container.NewFieldListDecoder(dec, decHeader, nil)
		e, ret := d.Next()
		Expect(ret).To(Equal(rwf.RetSuccess))
		Expect(e.FieldID).To(Equal(int16(9)))
		Expect(e.Data).To(Equal(standard))

		_, ret = d.Next()
		Expect(ret).To(Equal(rwf.RetEndOfContainer))
	})
})
