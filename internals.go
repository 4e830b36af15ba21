package filegram

import (
	"crypto/rand"
	"io"

	"github.com/filegram/filegram/util"
)

// -----------------------------------------------------------------------------

func randomReader(rg io.Reader) io.Reader {
	if rg == nil {
		return rand.Reader
	}
	return rg
}

func generateNonce(rg io.Reader, size int) ([]byte, error) {
	nonce := make([]byte, size)
	_, err := io.ReadFull(rg, nonce)
	if err != nil {
		return nil, util.NewExtendedError(nil, err, "unable to generate nonce")
	}
	return nonce, nil
}
