package typesystem

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	"github.com/funvibe/symres/internal/config"
	"github.com/funvibe/symres/internal/symbols"
)

// CanonicalName derives the internal name of generic parameterized with args:
// the generic's unqualified name and a BLAKE2b-256 digest of the generic's
// fully qualified name followed by each argument's, in order.
func CanonicalName(generic *symbols.Symbol, args []*symbols.Symbol) string {
	_, name := symbols.SplitQualifiedName(generic.Name)
	return config.CanonicalPrefix + name + "_" + CanonicalDigest(generic, args)
}

// CanonicalDigest is the hex digest part of CanonicalName.
func CanonicalDigest(generic *symbols.Symbol, args []*symbols.Symbol) string {
	buf := []byte(generic.FullyQualifiedName())
	for _, a := range args {
		// NUL never appears in a qualified name, so ("ab","c") and ("a","bc") differ.
		buf = append(buf, 0)
		buf = append(buf, a.FullyQualifiedName()...)
	}
	sum := blake2b.Sum256(buf)
	return hex.EncodeToString(sum[:])
}
