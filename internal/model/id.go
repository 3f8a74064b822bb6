package model

import "github.com/google/uuid"

type ID string

func (id ID) String() string {
	return string(id)
}

var itemNamespace = uuid.MustParse("aba51bc3-6422-4b94-b0e3-fa7ae1a2ba42")

// MakeItemID generates a deterministic item ID from a seed. The same seed
// always produces the same ID, so repeated reconciliation passes address
// the same virtual items instead of spawning duplicates.
func MakeItemID(seed string) ID {
	return ID(uuid.NewSHA1(itemNamespace, []byte(seed)).String())
}
