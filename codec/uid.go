package codec

import (
	"math/big"

	"github.com/google/uuid"
)

// DeriveUID returns a stable OID under the 2.25 UUID arc for name. The UUID is
// name-based (SHA-1 in the OID namespace), so the same name always maps to
// the same UID.
func DeriveUID(name string) string {
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(name))
	return "2.25." + new(big.Int).SetBytes(id[:]).String()
}
