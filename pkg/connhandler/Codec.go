package connhandler

import "tsquorum/pkg/lsa"

func decodeLsaPayload(payload []byte) (lsa.LSA, error) {
	return lsa.Decode(payload)
}
