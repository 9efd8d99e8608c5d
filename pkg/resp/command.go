package resp

import (
	"strconv"
	"strings"

	"github.com/emberdb/ember/pkg/store"
)

// CommandKind names one of the commands in ember's supported subset.
type CommandKind string

const (
	CmdGet      CommandKind = "GET"
	CmdSet      CommandKind = "SET"
	CmdSetNX    CommandKind = "SETNX"
	CmdGetSet   CommandKind = "GETSET"
	CmdGetDel   CommandKind = "GETDEL"
	CmdMGet     CommandKind = "MGET"
	CmdMSet     CommandKind = "MSET"
	CmdDel      CommandKind = "DEL"
	CmdExists   CommandKind = "EXISTS"
	CmdExpire   CommandKind = "EXPIRE"
	CmdTTL      CommandKind = "TTL"
	CmdIncr     CommandKind = "INCR"
	CmdDecr     CommandKind = "DECR"
	CmdIncrBy   CommandKind = "INCRBY"
	CmdDecrBy   CommandKind = "DECRBY"
	CmdLPush    CommandKind = "LPUSH"
	CmdRPush    CommandKind = "RPUSH"
	CmdLPop     CommandKind = "LPOP"
	CmdRPop     CommandKind = "RPOP"
	CmdFlushAll CommandKind = "FLUSHALL"
)

// Command is a fully parsed, typed request. Which fields are populated depends on Kind; see the arity
// table this type is built from for the per-command argument shapes.
type Command struct {
	Kind CommandKind

	Key  []byte   // GET, SET, SETNX, GETSET, GETDEL, EXPIRE, TTL, INCR, DECR, INCRBY, DECRBY, LPUSH/RPUSH, LPOP/RPOP
	Keys [][]byte // DEL, EXISTS, MGET, MSET (key half of the pairs)

	Value  []byte   // SET, SETNX, GETSET
	Values [][]byte // MSET (value half of the pairs), LPUSH, RPUSH

	Delta      int64 // INCRBY, DECRBY (already negated for DECRBY)
	TTLSeconds int64 // EXPIRE

	Count    int  // LPOP, RPOP
	HasCount bool // whether an explicit count argument was given
}

// CommandStream assembles Command values from a TokenStream. Framing failures from the underlying
// TokenStream are returned verbatim and are terminal. Arity mismatches and unknown command names
// surface as *CommandError, which per the error-handling design does not end the connection.
type CommandStream struct {
	tokens *TokenStream
}

// NewCommandStream builds a CommandStream over an already-constructed TokenStream.
func NewCommandStream(tokens *TokenStream) *CommandStream {
	return &CommandStream{tokens: tokens}
}

// Next reads one full command off the wire. A non-CommandError, non-nil error (FrameError or io.EOF)
// means the stream is done and the connection should close.
func (cs *CommandStream) Next() (Command, error) {
	head, err := cs.tokens.Next()
	if err != nil {
		return Command{}, err
	}
	if head.Kind != TokenArray {
		return Command{}, &FrameError{Kind: UnexpectedToken, Expected: "array", Found: "bulk string"}
	}

	args := make([][]byte, 0, head.Array)
	for i := 0; i < head.Array; i++ {
		tok, err := cs.tokens.Next()
		if err != nil {
			return Command{}, err
		}
		if tok.Kind != TokenBulkString {
			return Command{}, &FrameError{Kind: UnexpectedToken, Expected: "bulk string", Found: "array"}
		}
		args = append(args, tok.Bulk)
	}
	if len(args) == 0 {
		return Command{}, &FrameError{Kind: UnexpectedToken, Expected: "command name", Found: "empty array"}
	}

	name := strings.ToUpper(string(args[0]))
	rest := args[1:]
	return buildCommand(CommandKind(name), rest)
}

func buildCommand(kind CommandKind, args [][]byte) (Command, error) {
	switch kind {
	case CmdGet, CmdGetDel, CmdTTL, CmdIncr, CmdDecr:
		if len(args) != 1 {
			return Command{}, wrongArity(string(kind))
		}
		return Command{Kind: kind, Key: args[0]}, nil

	case CmdSet, CmdSetNX, CmdGetSet:
		if len(args) != 2 {
			return Command{}, wrongArity(string(kind))
		}
		return Command{Kind: kind, Key: args[0], Value: args[1]}, nil

	case CmdIncrBy, CmdDecrBy:
		if len(args) != 2 {
			return Command{}, wrongArity(string(kind))
		}
		delta, err := strconv.ParseInt(string(args[1]), 10, 64)
		if err != nil {
			return Command{}, store.ErrNotInteger
		}
		if kind == CmdDecrBy {
			delta = -delta
		}
		return Command{Kind: kind, Key: args[0], Delta: delta}, nil

	case CmdExpire:
		if len(args) != 2 {
			return Command{}, wrongArity(string(kind))
		}
		seconds, err := strconv.ParseInt(string(args[1]), 10, 64)
		if err != nil {
			return Command{}, store.ErrNotInteger
		}
		return Command{Kind: kind, Key: args[0], TTLSeconds: seconds}, nil

	case CmdDel, CmdExists, CmdMGet:
		if len(args) < 1 {
			return Command{}, wrongArity(string(kind))
		}
		return Command{Kind: kind, Keys: args}, nil

	case CmdMSet:
		if len(args) < 2 || len(args)%2 != 0 {
			return Command{}, wrongArity(string(kind))
		}
		keys := make([][]byte, 0, len(args)/2)
		values := make([][]byte, 0, len(args)/2)
		for i := 0; i < len(args); i += 2 {
			keys = append(keys, args[i])
			values = append(values, args[i+1])
		}
		return Command{Kind: kind, Keys: keys, Values: values}, nil

	case CmdLPush, CmdRPush:
		if len(args) < 2 {
			return Command{}, wrongArity(string(kind))
		}
		return Command{Kind: kind, Key: args[0], Values: args[1:]}, nil

	case CmdLPop, CmdRPop:
		if len(args) != 1 && len(args) != 2 {
			return Command{}, wrongArity(string(kind))
		}
		cmd := Command{Kind: kind, Key: args[0], Count: 1}
		if len(args) == 2 {
			count, err := strconv.Atoi(string(args[1]))
			if err != nil {
				return Command{}, store.ErrNotInteger
			}
			cmd.Count = count
			cmd.HasCount = true
		}
		return cmd, nil

	case CmdFlushAll:
		if len(args) != 0 {
			return Command{}, wrongArity(string(kind))
		}
		return Command{Kind: kind}, nil

	default:
		return Command{}, unknownCommand(string(kind))
	}
}
