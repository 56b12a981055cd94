package lsa

import "encoding/binary"

//=========================================== MVCC id


/*
	MVCCID is the oldest-active transaction id watermark a page server
	needs to keep garbage collection / vacuum from reclaiming pages a
	still-running transaction on the transaction server might read.
*/

type MVCCID uint64

const MvccByteSize = 8

const AllVisible MVCCID = ^MVCCID(0) - 1

func (id MVCCID) Encode() []byte {
	buf := make([]byte, MvccByteSize)
	binary.LittleEndian.PutUint64(buf, uint64(id))

	return buf
}

func DecodeMvcc(buf []byte) MVCCID {
	if len(buf) < MvccByteSize { return AllVisible }
	return MVCCID(binary.LittleEndian.Uint64(buf))
}
