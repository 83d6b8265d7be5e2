package main

import (
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
	"github.com/tensorworks-llc/p2gan/internal/testsupport"
)

func TestConvertScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/convert",
		Setup: func(env *testscript.Env) error {
			return testsupport.SetupScriptEnv(t, env)
		},
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			"envset":  testsupport.CmdEnvSet,
			"gantask": testsupport.CmdGanTask,
		},
	})
}
