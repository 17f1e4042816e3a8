package native

import (
	"go.uber.org/zap"

	"github.com/libyal-go/fsntfs/errors"
)

// errorMessageBufSize bounds the buffer handed to ErrorSprint. The library
// truncates longer diagnostics, which is acceptable for an error message.
const errorMessageBufSize = 1024

// Translate drains a native error reference into a structured error. The
// message fetch is a fallible enrichment step: if ErrorSprint fails, the
// returned error carries only the category code. The error reference is freed
// in all paths.
func Translate(d Dispatch, op errors.Op, errRef Ref) *errors.Error {
	code := CodeGeneric
	msg := ""

	if errRef != 0 {
		code = d.ErrorCode(errRef)
		buf := make([]byte, errorMessageBufSize)
		if n := d.ErrorSprint(errRef, buf); n > 0 {
			msg = string(buf[:n])
		}
		d.ErrorFree(&errRef)
	}

	Logger().Debug("native call failed",
		zap.String("op", string(op)),
		zap.Int("code", code),
		zap.String("message", msg))

	switch code {
	case CodeNotFound:
		return errors.New(op, errors.KindNotFound).Code(code).Message(msg).Build()
	case CodeNoMemory:
		return errors.OutOfMemory(op, code, msg)
	default:
		return errors.Native(op, code, msg)
	}
}

// GetString runs the library's two-call string convention: fetch the UTF-8
// size (which includes the terminating NUL), then copy into a buffer of that
// size. sizeFn and copyFn wrap the matching pair of entry points for one
// resource kind.
func GetString(d Dispatch, op errors.Op,
	sizeFn func(size *uint64, errOut *Ref) int,
	copyFn func(buf []byte, errOut *Ref) int) (string, error) {

	var size uint64
	var errRef Ref
	if sizeFn(&size, &errRef) != StatusOK {
		return "", Translate(d, op, errRef)
	}
	if size == 0 {
		return "", nil
	}

	buf := make([]byte, size)
	errRef = 0
	if copyFn(buf, &errRef) != StatusOK {
		return "", Translate(d, op, errRef)
	}

	// Strip the trailing NUL the size accounts for.
	if n := len(buf); n > 0 && buf[n-1] == 0 {
		buf = buf[:n-1]
	}
	return string(buf), nil
}
