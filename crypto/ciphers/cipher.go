package ciphers

import (
	"errors"
	"io"
	"sort"
	"sync"

	"github.com/filegram/filegram/crypto/ciphers/aes_gcm"
	"github.com/filegram/filegram/crypto/ciphers/chacha20_poly1305"
	"github.com/filegram/filegram/models"
)

// -----------------------------------------------------------------------------

const (
	// DefaultEngine is used when no engine is named, including key artifacts written before the
	// engine field existed.
	DefaultEngine = "chacha20-poly1305"

	// KeySize and NonceSize are the sizes every registered engine must use.
	KeySize   = 32
	NonceSize = 12
)

// -----------------------------------------------------------------------------

type GenerateKeyFunc func(io.Reader) ([]byte, error)
type NewFromKeyFunc func([]byte) (models.AEAD, error)

type engineFunc struct {
	GenerateKey GenerateKeyFunc
	NewFromKey  NewFromKeyFunc
}

// -----------------------------------------------------------------------------

var (
	enginesMtx  = sync.RWMutex{}
	enginesList = map[string]engineFunc{
		"chacha20-poly1305": {
			GenerateKey: chacha20_poly1305.GenerateKey,
			NewFromKey:  chacha20_poly1305.NewFromKey,
		},
		"aes-gcm": {
			GenerateKey: aes_gcm.GenerateKey,
			NewFromKey:  aes_gcm.NewFromKey,
		},
	}
)

var (
	ErrEngineNotSupported = errors.New("engine not supported")
	ErrInvalidEngineSizes = errors.New("engine must use a 256-bit key and a 96-bit nonce")
)

// -----------------------------------------------------------------------------

// SupportedEngines returns a sorted list of supported encryption engines.
func SupportedEngines() []string {
	enginesMtx.RLock()
	defer enginesMtx.RUnlock()

	list := make([]string, 0, len(enginesList))
	for name := range enginesList {
		list = append(list, name)
	}
	sort.Strings(list)
	return list
}

// IsEngineSupported returns true if the given encryption engine is supported. An empty name refers
// to the default engine.
func IsEngineSupported(engine string) bool {
	_, ok := lookup(engine)
	return ok
}

// RegisterEngine registers a custom encryption engine. The engine is probed once with a zero key
// to verify it uses the key and nonce sizes the key artifact format expects.
func RegisterEngine(engine string, generateKey GenerateKeyFunc, newFromKey NewFromKeyFunc) error {
	if len(engine) == 0 {
		return errors.New("engine name cannot be empty")
	}
	if generateKey == nil || newFromKey == nil {
		return errors.New("generateKey and newFromKey cannot be nil")
	}

	probe, err := newFromKey(make([]byte, KeySize))
	if err != nil {
		return ErrInvalidEngineSizes
	}
	if probe.KeyLen() != KeySize || probe.NonceLen() != NonceSize {
		return ErrInvalidEngineSizes
	}

	enginesMtx.Lock()
	defer enginesMtx.Unlock()

	// Check if the engine is already registered
	if _, ok := enginesList[engine]; ok {
		return errors.New("engine already exists")
	}

	// Add the engine to the list.
	enginesList[engine] = engineFunc{
		GenerateKey: generateKey,
		NewFromKey:  newFromKey,
	}

	// Done
	return nil
}

// GenerateKey generates a new key for the given encryption engine.
func GenerateKey(engine string, r io.Reader) ([]byte, error) {
	e, ok := lookup(engine)
	if !ok {
		return nil, ErrEngineNotSupported
	}
	return e.GenerateKey(r)
}

// NewFromKey creates a new AEAD object from the given key and encryption engine.
func NewFromKey(engine string, key []byte) (models.AEAD, error) {
	e, ok := lookup(engine)
	if !ok {
		return nil, ErrEngineNotSupported
	}
	return e.NewFromKey(key)
}

// Normalize returns the canonical name of an engine, mapping the empty name to DefaultEngine.
func Normalize(engine string) string {
	if len(engine) == 0 {
		return DefaultEngine
	}
	return engine
}

func lookup(engine string) (engineFunc, bool) {
	enginesMtx.RLock()
	defer enginesMtx.RUnlock()

	e, ok := enginesList[Normalize(engine)]
	return e, ok
}
