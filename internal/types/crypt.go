package types

// CryptMethod is the file-wide codec applied to leaf data blocks only.
// Intermediate blocks, B-tree pages, and allocation pages are never
// obfuscated regardless of this setting.
type CryptMethod uint8

const (
	CryptNone CryptMethod = iota
	CryptPermute
	CryptCyclic
)

// AmapStatus is the validity state of the allocation bitmap, stored in
// Root.
type AmapStatus uint8

const (
	AmapInvalid AmapStatus = iota
	AmapValid
	AmapPartiallyValid
)

// Valid reports whether a file in this state may be allocated from
// without first rebuilding the allocation map.
func (s AmapStatus) Valid() bool {
	return s == AmapValid || s == AmapPartiallyValid
}
