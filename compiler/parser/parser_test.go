package parser

import (
	"testing"

	. "github.com/katsu-lua/lua54/compiler/ast"
	"github.com/katsu-lua/lua54/compiler/lexer"
)

func TestParseTableConstructor(t *testing.T) {
	l := lexer.NewLexer("{1, 2}", "")
	exp := ParseExp(l)
	tb, ok := exp.(*TableConstructorExp)
	if !ok || len(tb.ValExps) != 2 {
		t.Fatalf("expect table with 2 array values")
	}
	if tb.KeyExps[0] != nil || tb.KeyExps[1] != nil {
		t.Fatalf("expect array entries to have nil keys")
	}

	l = lexer.NewLexer("{a = 1, [2] = 'x'}", "")
	exp = ParseExp(l)
	tb, ok = exp.(*TableConstructorExp)
	if !ok || len(tb.KeyExps) != 2 {
		t.Fatalf("expect table with 2 keyed fields")
	}
	if k, ok := tb.KeyExps[0].(*StringExp); !ok || k.Str != "a" {
		t.Fatalf("expect first key 'a', got %#v", tb.KeyExps[0])
	}
}

func TestParseConcatIsRightAssociative(t *testing.T) {
	l := lexer.NewLexer("a .. b .. c", "")
	exp := ParseExp(l)
	top, ok := exp.(*BinopExp)
	if !ok || top.Op != lexer.TOKEN_SEP_DOTS2 {
		t.Fatalf("expect top-level concat")
	}
	if _, ok := top.Right.(*BinopExp); !ok {
		t.Fatalf("expect concat to be right associative")
	}
	if _, ok := top.Left.(*NameExp); !ok {
		t.Fatalf("expect left operand to be the leftmost name")
	}
}

func TestParseLocalWithAttribs(t *testing.T) {
	l := lexer.NewLexer("local x <const> = 1", "")
	block := ParseBlock(l)
	if len(block.Stats) != 1 {
		t.Fatalf("expect 1 statement, got %d", len(block.Stats))
	}
	decl, ok := block.Stats[0].(*LocalVarDeclStat)
	if !ok {
		t.Fatalf("expect local var decl stat")
	}
	if decl.NameList[0] != "x" || decl.Attribs[0] != "const" {
		t.Fatalf("expect x to carry the const attribute, got %#v", decl)
	}

	l = lexer.NewLexer("local f <close> = io.open('x')", "")
	block = ParseBlock(l)
	decl, ok = block.Stats[0].(*LocalVarDeclStat)
	if !ok || decl.Attribs[0] != "close" {
		t.Fatalf("expect f to carry the close attribute, got %#v", decl)
	}
}

func TestParseIfStat(t *testing.T) {
	l := lexer.NewLexer("if x then y = 1 elseif z then y = 2 else y = 3 end", "")
	block := ParseBlock(l)
	ifStat, ok := block.Stats[0].(*IfStat)
	if !ok {
		t.Fatalf("expect if statement")
	}
	if len(ifStat.Exps) != 3 || len(ifStat.Blocks) != 3 {
		t.Fatalf("expect if/elseif/else to produce 3 branches, got %d/%d",
			len(ifStat.Exps), len(ifStat.Blocks))
	}
}

func TestParseFuncCallStat(t *testing.T) {
	l := lexer.NewLexer("print('hi')", "")
	block := ParseBlock(l)
	if _, ok := block.Stats[0].(*FuncCallExp); !ok {
		t.Fatalf("expect bare call to parse as a function call statement")
	}
}
