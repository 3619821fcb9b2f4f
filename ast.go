package main

import (
	"encoding/json"
	"io/ioutil"

	"github.com/katsu-lua/lua54/compiler/parser"
	"github.com/katsu-lua/lua54/term"
)

func WriteAst(path string) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		term.Error(err.Error())
	}

	block := parser.Parse(string(data), path)

	j, err := json.MarshalIndent(block, "", "  ")
	if err != nil {
		term.Error(err.Error())
	}

	err = ioutil.WriteFile(path+".ast.json", j, 0644)
	if err != nil {
		term.Error(err.Error())
	}
}
