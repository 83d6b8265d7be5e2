package testsupport

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/tensorworks-llc/p2gan/gan"
)

var (
	buildOnce sync.Once
	p2ganPath string
	buildErr  error
)

// BuildP2gan builds the p2gan binary once and returns its path.
func BuildP2gan(t testing.TB) string {
	t.Helper()

	buildOnce.Do(func() {
		moduleRoot, err := findModuleRoot()
		if err != nil {
			buildErr = err
			return
		}

		binDir, err := os.MkdirTemp("", "p2gan-bin-")
		if err != nil {
			buildErr = err
			return
		}

		p2ganPath = filepath.Join(binDir, "p2gan")
		cmd := exec.Command("go", "build", "-o", p2ganPath, "./cmd/p2gan")
		cmd.Dir = moduleRoot
		output, err := cmd.CombinedOutput()
		if err != nil {
			buildErr = fmt.Errorf("build p2gan: %w: %s", err, strings.TrimSpace(string(output)))
		}
	})

	if buildErr != nil {
		t.Fatalf("%v", buildErr)
	}

	return p2ganPath
}

// SetupScriptEnv configures common environment variables for testscript.
func SetupScriptEnv(t testing.TB, env *testscript.Env) error {
	t.Helper()

	env.Setenv("P2GAN", BuildP2gan(t))

	homeDir := filepath.Join(env.WorkDir, "home")
	if err := EnsureHomeDirs(homeDir); err != nil {
		return err
	}
	env.Setenv("HOME", homeDir)
	env.Setenv("NO_COLOR", "1")
	return nil
}

// CmdEnvSet stores the trimmed contents of a file in an env var.
func CmdEnvSet(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("envset does not support negation")
	}
	if len(args) != 2 {
		ts.Fatalf("usage: envset VAR FILE")
	}

	value := strings.TrimSpace(ts.ReadFile(args[1]))
	ts.Setenv(args[0], value)
}

// CmdGanTask finds a task by name in a .gan file and checks its written
// start date and, optionally, its ID.
func CmdGanTask(ts *testscript.TestScript, neg bool, args []string) {
	if len(args) != 3 && len(args) != 4 {
		ts.Fatalf("usage: gantask FILE NAME START [ID]")
	}

	f, err := os.Open(ts.MkAbs(args[0]))
	ts.Check(err)
	defer f.Close()

	project, err := gan.Decode(f)
	if err != nil {
		ts.Fatalf("decode %s: %v", args[0], err)
	}
	task, ok := project.FindByName(args[1])
	if !ok {
		ts.Fatalf("task %q not found in %s", args[1], args[0])
	}

	matches := task.Start.Format("2006-01-02") == args[2]
	if len(args) == 4 {
		id, err := strconv.Atoi(args[3])
		ts.Check(err)
		matches = matches && task.ID == id
	}
	if matches == neg {
		ts.Fatalf("task %q: start %s id %d, want start %s (neg=%v)", args[1], task.Start.Format("2006-01-02"), task.ID, args[2], neg)
	}
}

func findModuleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find module root (go.mod)")
		}
		dir = parent
	}
}
