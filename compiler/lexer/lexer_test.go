package lexer

import (
	"reflect"
	"testing"
)

func tokenKinds(src string) []int {
	l := NewLexer(src, "")
	var kinds []int
	for {
		_, k, _ := l.NextToken()
		kinds = append(kinds, k)
		if k == TOKEN_EOF {
			break
		}
	}
	return kinds
}

func TestOperatorsAndSeparators(t *testing.T) {
	kinds := tokenKinds("local x <const> = 1 ~= 2")
	expect := []int{
		TOKEN_KW_LOCAL, TOKEN_IDENTIFIER, TOKEN_OP_LT, TOKEN_IDENTIFIER, TOKEN_OP_GT,
		TOKEN_OP_ASSIGN, TOKEN_NUMBER, TOKEN_OP_NE, TOKEN_NUMBER, TOKEN_EOF,
	}
	if !reflect.DeepEqual(kinds, expect) {
		t.Fatalf("got %v", kinds)
	}
}

func TestLabelAndGoto(t *testing.T) {
	kinds := tokenKinds("::top:: goto top")
	expect := []int{TOKEN_SEP_LABEL, TOKEN_IDENTIFIER, TOKEN_SEP_LABEL, TOKEN_KW_GOTO, TOKEN_IDENTIFIER, TOKEN_EOF}
	if !reflect.DeepEqual(kinds, expect) {
		t.Fatalf("got %v", kinds)
	}
}

func TestConcatVsVararg(t *testing.T) {
	kinds := tokenKinds(`a .. b ...`)
	expect := []int{TOKEN_IDENTIFIER, TOKEN_SEP_DOTS2, TOKEN_IDENTIFIER, TOKEN_VARARG, TOKEN_EOF}
	if !reflect.DeepEqual(kinds, expect) {
		t.Fatalf("got %v", kinds)
	}
}

func TestLongString(t *testing.T) {
	l := NewLexer("[==[\nhello]]\n]==]", "")
	_, kind, str := l.NextToken()
	if kind != TOKEN_STRING || str != "hello]]\n" {
		t.Fatalf("got kind=%d str=%q", kind, str)
	}
}

func TestLongComment(t *testing.T) {
	kinds := tokenKinds("--[[ comment\nspanning lines ]] return")
	expect := []int{TOKEN_KW_RETURN, TOKEN_EOF}
	if !reflect.DeepEqual(kinds, expect) {
		t.Fatalf("got %v", kinds)
	}
}

func TestShebangStripped(t *testing.T) {
	kinds := tokenKinds("#!/usr/bin/env lua\nreturn 1")
	expect := []int{TOKEN_KW_RETURN, TOKEN_NUMBER, TOKEN_EOF}
	if !reflect.DeepEqual(kinds, expect) {
		t.Fatalf("got %v", kinds)
	}
}
