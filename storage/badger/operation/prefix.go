package operation

import (
	"encoding/binary"
	"fmt"
)

const (
	codeChallenge      = 10
	codeProcessedIndex = 20
)

func makePrefix(code byte, keys ...interface{}) []byte {
	prefix := []byte{code}
	for _, key := range keys {
		prefix = append(prefix, b(key)...)
	}
	return prefix
}

func b(v interface{}) []byte {
	switch i := v.(type) {
	case uint64:
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, i)
		return buf
	case string:
		return []byte(i)
	case [32]byte:
		return i[:]
	case []byte:
		return i
	default:
		panic(fmt.Sprintf("unsupported type to convert (%T)", v))
	}
}
