package compiler

import (
	"crypto/sha256"
	"encoding/hex"

	glc "git.lolli.tech/lollipopkit/go_lru_cacher"
	"github.com/katsu-lua/lua54/binchunk"
	"github.com/katsu-lua/lua54/compiler/codegen"
	"github.com/katsu-lua/lua54/compiler/parser"
)

// protoCacher holds recently compiled prototypes keyed by a hash of their
// source text, so re-running the same chunk (e.g. from the REPL history or
// a hot require()'d module) skips lexing/parsing/codegen entirely.
var protoCacher = glc.NewCacher(32)

func Compile(chunk, chunkName string) *binchunk.Prototype {
	key := sourceKey(chunk, chunkName)
	if cached, ok := protoCacher.Get(key); ok {
		if proto, ok := cached.(*binchunk.Prototype); ok {
			return proto
		}
	}

	ast := parser.Parse(chunk, chunkName)
	proto := codegen.GenProto(ast)
	setSource(proto, chunkName)

	protoCacher.Set(key, proto)
	return proto
}

func sourceKey(chunk, chunkName string) string {
	h := sha256.Sum256([]byte(chunkName + "\x00" + chunk))
	return hex.EncodeToString(h[:])
}

func setSource(proto *binchunk.Prototype, chunkName string) {
	proto.Source = chunkName
	for _, f := range proto.Protos {
		setSource(f, chunkName)
	}
}
