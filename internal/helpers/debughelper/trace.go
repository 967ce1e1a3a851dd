package debughelper

import "runtime"

// Stack returns the stack of the calling goroutine.
func Stack() string {
	buf := make([]byte, 4<<10)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}
