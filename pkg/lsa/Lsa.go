package lsa

import "encoding/binary"
import "fmt"

//=========================================== Log Sequence Address


/*
	LSA identifies a position in the transaction log as a (page, offset) pair.
	Ordering is lexicographic on (PageID, Offset) -- this is the total order
	the quorum-consensus computation and the flush gate rely on.
*/

type LSA struct {
	PageID int64
	Offset int32
}

const ByteSize = 12

var Null = LSA{ PageID: -1, Offset: -1 }

func (l LSA) IsNull() bool {
	return l == Null
}

/*
	Compare returns -1, 0, 1 the way bytes.Compare does, ordering by PageID
	first and Offset second. Null sorts strictly below every non-null LSA.
*/

func (l LSA) Compare(other LSA) int {
	if l.PageID != other.PageID {
		if l.PageID < other.PageID { return -1 }
		return 1
	}

	if l.Offset != other.Offset {
		if l.Offset < other.Offset { return -1 }
		return 1
	}

	return 0
}

func (l LSA) Less(other LSA) bool { return l.Compare(other) < 0 }
func (l LSA) LessOrEqual(other LSA) bool { return l.Compare(other) <= 0 }

func (l LSA) String() string {
	if l.IsNull() { return "NULL_LSA" }
	return fmt.Sprintf("%d|%d", l.PageID, l.Offset)
}

/*
	Encode/Decode
		12 byte big endian wire representation: int64 PageID, int32 Offset.
		Big endian so the encoded bytes sort the same way bytes.Compare and
		Compare do for any non-negative LSA -- the durable store's cursor
		range in pkg/priorsender relies on this to replay in LSA order.
*/

func (l LSA) Encode() []byte {
	buf := make([]byte, ByteSize)
	binary.BigEndian.PutUint64(buf[0:8], uint64(l.PageID))
	binary.BigEndian.PutUint32(buf[8:12], uint32(l.Offset))

	return buf
}

func Decode(buf []byte) (LSA, error) {
	if len(buf) != ByteSize { return Null, fmt.Errorf("lsa: bad buffer length, need %d bytes, got %d", ByteSize, len(buf)) }

	return LSA{
		PageID: int64(binary.BigEndian.Uint64(buf[0:8])),
		Offset: int32(binary.BigEndian.Uint32(buf[8:12])),
	}, nil
}

/*
	Max returns the greater of two LSAs, used by the prior sender to track
	the highest LSA appended so far.
*/

func Max(a, b LSA) LSA {
	if a.Less(b) { return b }
	return a
}

/*
	Min returns the lesser of two LSAs.
*/

func Min(a, b LSA) LSA {
	if a.Less(b) { return a }
	return b
}
