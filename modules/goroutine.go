package modules

import (
	"bytes"
	"runtime"
	"strconv"
)

// goroutineID identifies the calling goroutine, from the header of its stack
// trace ("goroutine 18 [running]:").  Returns 0 if the header can't be read.
func goroutineID() uint64 {
	var buf [64]byte
	b := buf[:runtime.Stack(buf[:], false)]

	b = bytes.TrimPrefix(b, []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i > 0 {
		id, err := strconv.ParseUint(string(b[:i]), 10, 64)
		if err == nil {
			return id
		}
	}
	return 0
}
