package util

// -----------------------------------------------------------------------------

// SafeZeroMem zeros each of the given buffers.
func SafeZeroMem(v ...[]byte) {
	for _, buf := range v {
		bufLen := len(buf)
		if bufLen == 0 {
			continue
		}
		buf[0] = 0
		for ofs := 1; ofs < bufLen; ofs *= 2 {
			copy(buf[ofs:], buf[:ofs])
		}
	}
}

// CloneBytes returns a copy of v, or nil if v is nil.
func CloneBytes(v []byte) []byte {
	if v == nil {
		return nil
	}
	c := make([]byte, len(v))
	copy(c, v)
	return c
}
