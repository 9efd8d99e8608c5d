package resp

import (
	"strconv"

	"github.com/emberdb/ember/pkg/invariant"
)

// ResponseKind enumerates the seven RESP wire kinds a Response can take.
type ResponseKind int

const (
	KindSimpleString ResponseKind = iota
	KindBulkString
	KindInteger
	KindArray
	KindError
	KindNull
	KindNullArray
)

// Response is a tagged variant matching the RESP wire kinds. Only the field matching Kind is
// meaningful.
type Response struct {
	Kind    ResponseKind
	Str     string     // SimpleString, Error
	Bulk    []byte     // BulkString
	Integer int64      // Integer
	Items   []Response // Array
}

func SimpleString(s string) Response  { return Response{Kind: KindSimpleString, Str: s} }
func BulkString(b []byte) Response    { return Response{Kind: KindBulkString, Bulk: b} }
func Integer(n int64) Response        { return Response{Kind: KindInteger, Integer: n} }
func Error(msg string) Response       { return Response{Kind: KindError, Str: msg} }
func Array(items []Response) Response { return Response{Kind: KindArray, Items: items} }
func Null() Response                  { return Response{Kind: KindNull} }
func NullArray() Response             { return Response{Kind: KindNullArray} }
func ErrorFromErr(err error) Response { return Error(err.Error()) }

// Encode is total, infallible, and does no I/O: it always returns a complete response buffer which
// callers write to the socket in one shot.
func Encode(r Response) []byte {
	buf := make([]byte, 0, 32)
	return appendEncoded(buf, r)
}

func appendEncoded(buf []byte, r Response) []byte {
	switch r.Kind {
	case KindSimpleString:
		buf = append(buf, '+')
		buf = append(buf, r.Str...)
		return append(buf, '\r', '\n')
	case KindBulkString:
		buf = append(buf, '$')
		buf = strconv.AppendInt(buf, int64(len(r.Bulk)), 10)
		buf = append(buf, '\r', '\n')
		buf = append(buf, r.Bulk...)
		return append(buf, '\r', '\n')
	case KindInteger:
		buf = append(buf, ':')
		buf = strconv.AppendInt(buf, r.Integer, 10)
		return append(buf, '\r', '\n')
	case KindError:
		buf = append(buf, '-')
		buf = append(buf, r.Str...)
		return append(buf, '\r', '\n')
	case KindNull:
		return append(buf, '$', '-', '1', '\r', '\n')
	case KindNullArray:
		return append(buf, '*', '-', '1', '\r', '\n')
	case KindArray:
		buf = append(buf, '*')
		buf = strconv.AppendInt(buf, int64(len(r.Items)), 10)
		buf = append(buf, '\r', '\n')
		for _, item := range r.Items {
			buf = appendEncoded(buf, item)
		}
		return buf
	default:
		invariant.Raise("resp", "unknown_response_kind", "Got a response with an unknown kind.", "kind", r.Kind)
		return append(buf, '-', 'E', 'R', 'R', '\r', '\n')
	}
}
