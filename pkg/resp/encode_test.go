package resp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeSimpleString(t *testing.T) {
	assert.Equal(t, "+OK\r\n", string(Encode(SimpleString("OK"))))
}

func TestEncodeBulkString(t *testing.T) {
	assert.Equal(t, "$3\r\nabc\r\n", string(Encode(BulkString([]byte("abc")))))
}

func TestEncodeInteger(t *testing.T) {
	assert.Equal(t, ":42\r\n", string(Encode(Integer(42))))
	assert.Equal(t, ":-7\r\n", string(Encode(Integer(-7))))
}

func TestEncodeError(t *testing.T) {
	assert.Equal(t, "-ERR boom\r\n", string(Encode(Error("ERR boom"))))
}

func TestEncodeNull(t *testing.T) {
	assert.Equal(t, "$-1\r\n", string(Encode(Null())))
}

func TestEncodeNullArray(t *testing.T) {
	assert.Equal(t, "*-1\r\n", string(Encode(NullArray())))
}

func TestEncodeArray(t *testing.T) {
	got := Encode(Array([]Response{BulkString([]byte("a")), BulkString([]byte("b"))}))
	assert.Equal(t, "*2\r\n$1\r\na\r\n$1\r\nb\r\n", string(got))
}

func TestEncodeBulkStringRoundTripsArbitraryBytes(t *testing.T) {
	payload := []byte{0, 1, 2, 255, '\r', '\n'}
	encoded := Encode(BulkString(payload))
	ts := NewTokenStream(bytes.NewReader(encoded))
	tok, err := ts.Next()
	assert.NoError(t, err)
	assert.Equal(t, payload, tok.Bulk)
}
