// Package codec provides serialization between caller values and the bytes
// duocache persists. Values and policies use independent codecs, so a JSON
// policy can ride alongside a protobuf value.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
