package lsa

import "testing"

func TestCompareOrdersByPageThenOffset(t *testing.T) {
	a := LSA{ PageID: 1, Offset: 5 }
	b := LSA{ PageID: 1, Offset: 9 }
	c := LSA{ PageID: 2, Offset: 0 }

	if !a.Less(b) { t.Errorf("expected %v < %v", a, b) }
	if !b.Less(c) { t.Errorf("expected %v < %v", b, c) }
	if !Null.Less(a) { t.Errorf("expected NULL_LSA < %v", a) }
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	original := LSA{ PageID: 42, Offset: 1024 }

	decoded, decodeErr := Decode(original.Encode())
	if decodeErr != nil { t.Fatalf("unexpected decode error: %v", decodeErr) }

	if decoded != original {
		t.Errorf("round trip mismatch: got %v, want %v", decoded, original)
	}
}

func TestEncodeSortsBytewiseWithCompare(t *testing.T) {
	a := LSA{ PageID: 1, Offset: 9 }
	b := LSA{ PageID: 2, Offset: 0 }

	if !(string(a.Encode()) < string(b.Encode())) {
		t.Errorf("expected %v's encoding to sort below %v's", a, b)
	}
}

func TestDecodeShortBufferErrors(t *testing.T) {
	_, decodeErr := Decode([]byte{ 1, 2, 3 })
	if decodeErr == nil { t.Errorf("expected error decoding short buffer") }
}

func TestNthSmallest(t *testing.T) {
	values := []LSA{
		{ PageID: 5, Offset: 0 },
		{ PageID: 1, Offset: 0 },
		{ PageID: 3, Offset: 0 },
	}

	got := NthSmallest(values, 1)
	want := LSA{ PageID: 3, Offset: 0 }

	if got != want { t.Errorf("NthSmallest(1) = %v, want %v", got, want) }

	if NthSmallest(values, 0) != (LSA{ PageID: 1, Offset: 0 }) {
		t.Errorf("NthSmallest(0) should be the minimum")
	}
}
