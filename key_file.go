package filegram

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/filegram/filegram/crypto/ciphers"
	"github.com/filegram/filegram/util"
)

// -----------------------------------------------------------------------------

// KeyFormat selects how a key artifact is written to a key file.
type KeyFormat int

const (
	// KeyFormatJSON writes {"key":[...],"nonce":[...]} with byte arrays as integer lists.
	KeyFormatJSON KeyFormat = iota
	// KeyFormatBinary writes the versioned binary form returned by KeyArtifact.Serialize.
	KeyFormatBinary
)

// Key files are tiny; anything bigger is not one.
const maxKeyFileSize = 64 * 1024

// -----------------------------------------------------------------------------

type jsonKeyArtifact struct {
	Engine string    `json:"engine,omitempty"`
	Key    byteArray `json:"key"`
	Nonce  byteArray `json:"nonce"`
}

// byteArray marshals as a JSON list of integers and unmarshals from either such a list or a base64
// string.
type byteArray []byte

// -----------------------------------------------------------------------------

// ParseKeyFormat converts "json" or "binary" to a KeyFormat.
func ParseKeyFormat(s string) (KeyFormat, error) {
	switch strings.ToLower(s) {
	case "", "json":
		return KeyFormatJSON, nil
	case "binary", "bin":
		return KeyFormatBinary, nil
	}
	return 0, util.NewExtendedError(ErrUnknownKeyFormat, nil, s)
}

func (f KeyFormat) String() string {
	switch f {
	case KeyFormatJSON:
		return "json"
	case KeyFormatBinary:
		return "binary"
	}
	return "KeyFormat(" + strconv.Itoa(int(f)) + ")"
}

// WriteKeyArtifact writes the artifact to w in the given format.
func WriteKeyArtifact(w io.Writer, a *KeyArtifact, format KeyFormat) error {
	var buf []byte
	var err error

	switch format {
	case KeyFormatJSON:
		buf, err = json.Marshal(a)
		if err != nil {
			return err
		}
	case KeyFormatBinary:
		buf = a.Serialize()
	default:
		return ErrUnknownKeyFormat
	}
	defer util.SafeZeroMem(buf)

	_, err = w.Write(buf)
	return err
}

// ReadKeyArtifact reads a key artifact written in any KeyFormat. JSON is recognized by its
// leading '{'.
func ReadKeyArtifact(r io.Reader) (*KeyArtifact, error) {
	buf, err := io.ReadAll(io.LimitReader(r, maxKeyFileSize+1))
	if err != nil {
		return nil, err
	}
	defer util.SafeZeroMem(buf)

	if len(buf) > maxKeyFileSize {
		return nil, util.NewExtendedError(ErrInvalidKeyArtifact, nil, "key file too large")
	}

	trimmed := bytes.TrimLeft(buf, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		a := &KeyArtifact{}
		err = json.Unmarshal(trimmed, a)
		if err != nil {
			return nil, util.NewExtendedError(ErrInvalidKeyArtifact, err, "malformed json key file")
		}
		err = a.Validate()
		if err != nil {
			a.Zeroize()
			return nil, err
		}
		return a, nil
	}

	return DeserializeKeyArtifact(buf)
}

// MarshalJSON implements json.Marshaler. The default engine is omitted so files stay readable by
// tools that only know the key and nonce fields.
func (a *KeyArtifact) MarshalJSON() ([]byte, error) {
	ja := jsonKeyArtifact{
		Key:   a.Key,
		Nonce: a.Nonce,
	}
	if engine := ciphers.Normalize(a.Engine); engine != ciphers.DefaultEngine {
		ja.Engine = engine
	}
	return json.Marshal(ja)
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *KeyArtifact) UnmarshalJSON(data []byte) error {
	ja := jsonKeyArtifact{}
	err := json.Unmarshal(data, &ja)
	if err != nil {
		return err
	}
	if ja.Key == nil || ja.Nonce == nil {
		return util.NewExtendedError(ErrInvalidKeyArtifact, nil, "key and nonce fields are required")
	}

	a.Engine = ja.Engine
	a.Key = ja.Key
	a.Nonce = ja.Nonce
	return nil
}

// -----------------------------------------------------------------------------

func (b byteArray) MarshalJSON() ([]byte, error) {
	sb := strings.Builder{}
	sb.Grow(len(b)*4 + 2)
	_ = sb.WriteByte('[')
	for idx, v := range b {
		if idx > 0 {
			_ = sb.WriteByte(',')
		}
		_, _ = sb.WriteString(strconv.Itoa(int(v)))
	}
	_ = sb.WriteByte(']')
	return []byte(sb.String()), nil
}

func (b *byteArray) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		err := json.Unmarshal(data, &s)
		if err != nil {
			return err
		}
		decoded, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return err
		}
		*b = decoded
		return nil
	}

	var values []int
	err := json.Unmarshal(data, &values)
	if err != nil {
		return err
	}
	if values == nil {
		*b = nil
		return nil
	}
	out := make([]byte, len(values))
	for idx, v := range values {
		if v < 0 || v > 255 {
			return fmt.Errorf("byte value %d out of range", v)
		}
		out[idx] = byte(v)
	}
	*b = out
	return nil
}
