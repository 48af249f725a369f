package main

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/gobf/internal/logio"
)

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

type commandResult struct {
	stdout   string
	stderr   string
	exitCode int
}

func runCommand(t *testing.T, stdin string, args ...string) commandResult {
	var stdout, stderr strings.Builder
	var log logio.Logger
	log.SetOutput(&stderr)
	cmd := newCommand(&log, strings.NewReader(stdin), &stdout, &stderr)
	cmd.SetArgs(args)
	log.ErrorIf(cmd.ExecuteContext(testContext(t)))
	res := commandResult{stdout.String(), stderr.String(), log.ExitCode()}
	if res.stderr != "" {
		t.Logf("stderr:\n%s", res.stderr)
	}
	return res
}

func writeFile(name, content string) error {
	return os.WriteFile(name, []byte(content), 0o644)
}

const helloWorld = `
++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]
>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++.
`

func Test_command(t *testing.T) {
	for _, tc := range []struct {
		name   string
		prog   string
		stdin  string
		files  map[string]string
		args   []string
		stdout string
		stderr []string
		exit   int
	}{
		{
			name:   "hello world",
			prog:   helloWorld,
			stdout: "Hello World!\n",
		},
		{
			name:   "input string",
			prog:   ",[.,]",
			args:   []string{"--input-string", "echo", "--eof", "zero"},
			stdout: "echo",
		},
		{
			name:   "input files and stdin",
			prog:   ",.,.,.,.",
			stdin:  "cd",
			files:  map[string]string{"in.txt": "b"},
			args:   []string{"--input-string", "a", "-i", "in.txt", "-i", "-"},
			stdout: "abcd",
		},
		{
			name:   "input exhausted",
			prog:   ",.,.",
			args:   []string{"--input-string", "x"},
			stderr: []string{"ERROR: prog.bf:1:3: step @2 ',': input exhausted"},
			exit:   1,
		},
		{
			name:   "eof keep",
			prog:   "+++,.",
			args:   []string{"--eof", "keep"},
			stdout: "\x03",
		},
		{
			name:   "unmatched bracket",
			prog:   "+\n+[\n>",
			stderr: []string{"ERROR: prog.bf:2:2: unmatched '[' @3"},
			exit:   1,
		},
		{
			name:   "unmatched closing bracket",
			prog:   "]",
			stderr: []string{"ERROR: prog.bf:1:1: unmatched ']' @0"},
			exit:   1,
		},
		{
			name: "underflow dump",
			prog: "+>++<<",
			args: []string{"--dump"},
			stderr: []string{
				"# Machine Dump\n  state: failed\n",
				"  cells @0: [1] 2 0 0 0 0 0 0 0\n",
				"ERROR: prog.bf:1:6: step @5 '<': data pointer underflow: '<' @dp:0",
			},
			exit: 1,
		},
		{
			name: "yaml dump",
			prog: "+>++<<",
			args: []string{"--dump", "--dump-format", "yaml"},
			stderr: []string{
				"state: failed\n",
				"  values: [1, 2, 0, 0, 0, 0, 0, 0, 0]\n",
			},
			exit: 1,
		},
		{
			name:   "mem limit",
			prog:   ">>>",
			args:   []string{"--mem-limit", "3"},
			stderr: []string{"ERROR: prog.bf:1:3: step @2 '>': data pointer overflow: '>' @dp:2 limit:3"},
			exit:   1,
		},
		{
			name:   "max steps",
			prog:   "+[]",
			args:   []string{"--max-steps", "100"},
			stderr: []string{"step limit exceeded"},
			exit:   1,
		},
		{
			name:   "timeout",
			prog:   "+[]",
			args:   []string{"--timeout", "10ms"},
			stderr: []string{"context deadline exceeded"},
			exit:   1,
		},
		{
			name:   "invalid output",
			prog:   "-.",
			stderr: []string{"invalid output encoding"},
			exit:   1,
		},
		{
			name:   "raw output",
			prog:   "-.",
			args:   []string{"--raw"},
			stdout: "\xff",
		},
		{
			name:   "stream output",
			prog:   "-.>>+.<<<",
			args:   []string{"--stream"},
			stdout: "\xff\x01",
			stderr: []string{"ERROR: prog.bf:1:9: step @8 '<': data pointer underflow"},
			exit:   1,
		},
		{
			name:   "trace",
			prog:   "+.",
			args:   []string{"--trace"},
			stdout: "\x01",
			stderr: []string{
				"TRACE: 0 @0 '+' dp:0 cell:0\n",
				"TRACE: 1 @1 '.' dp:0 cell:1\n",
				`OUTPUT: "\x01"` + "\n",
				"TRACE: halt after 2 steps\n",
			},
		},
		{
			name:   "config file",
			prog:   "+[]",
			files:  map[string]string{"gobf.toml": "max_steps = 10\n"},
			args:   []string{"--config", "gobf.toml"},
			stderr: []string{"step limit exceeded"},
			exit:   1,
		},
		{
			name:   "flags override config",
			prog:   ",.",
			files:  map[string]string{"gobf.yaml": "eof: fail\nmax_steps: 1\n"},
			args:   []string{"--config", "gobf.yaml", "--eof", "zero", "--max-steps", "0"},
			stdout: "\x00",
		},
		{
			name:   "bad config",
			prog:   "+",
			files:  map[string]string{"gobf.toml": "bogus = 1\n"},
			args:   []string{"--config", "gobf.toml"},
			stderr: []string{"unknown config keys: bogus"},
			exit:   1,
		},
		{
			name:   "comments only",
			prog:   "this program does nothing",
			stdout: "",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			chdir(t, dir)
			require.NoError(t, writeFile("prog.bf", tc.prog))
			for name, content := range tc.files {
				require.NoError(t, writeFile(name, content))
			}

			res := runCommand(t, tc.stdin, append(tc.args, "prog.bf")...)
			assert.Equal(t, tc.stdout, res.stdout, "expected stdout")
			for _, expect := range tc.stderr {
				assert.Contains(t, res.stderr, expect, "expected stderr")
			}
			if len(tc.stderr) == 0 {
				assert.Equal(t, "", res.stderr, "expected no stderr")
			}
			assert.Equal(t, tc.exit, res.exitCode, "expected exit code")
		})
	}
}

func Test_command_usage(t *testing.T) {
	res := runCommand(t, "")
	assert.Equal(t, 1, res.exitCode, "expected exit code")
	assert.Contains(t, res.stderr, "ERROR: accepts 1 arg(s), received 0", "expected usage error")
	assert.Contains(t, res.stdout, "Usage:\n  gobf [flags] PROGRAM", "expected usage")
}

func Test_command_badFlag(t *testing.T) {
	res := runCommand(t, "", "--eof", "never", "prog.bf")
	assert.Equal(t, 1, res.exitCode, "expected exit code")
	assert.Contains(t, res.stderr, `invalid argument "never" for "--eof" flag: invalid EOF policy "never"`)
	assert.Contains(t, res.stdout, "--eof policy", "expected usage")
}

func Test_command_missingProgram(t *testing.T) {
	chdir(t, t.TempDir())
	res := runCommand(t, "", "nope.bf")
	assert.Equal(t, 1, res.exitCode, "expected exit code")
	assert.Contains(t, res.stderr, "ERROR: open nope.bf: no such file or directory")
	assert.Equal(t, "", res.stdout, "expected no usage after argument validation")
}

// chdir is equivalent to testing.T.Chdir (Go 1.24+): it changes the working
// directory for the duration of the test, restoring it during cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	oldwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(oldwd); err != nil {
			t.Fatalf("restoring working directory: %v", err)
		}
	})
}
