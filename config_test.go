package main

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/gobf/internal/tape"
)

func writeTemp(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "must write %v", name)
	return path
}

func Test_loadConfig(t *testing.T) {
	full := config{
		MemLimit:   30000,
		PageSize:   1024,
		MaxSteps:   1000000,
		EOF:        tape.EOFZero,
		RawOutput:  true,
		Timeout:    duration{1500 * time.Millisecond},
		Trace:      true,
		Dump:       true,
		DumpFormat: dumpYAML,
	}

	for _, tc := range []struct {
		name    string
		file    string
		content string
		expect  config
		err     string
	}{
		{
			name:   "no file",
			expect: config{PageSize: 256, DumpFormat: dumpText},
		},
		{
			name: "toml",
			file: "gobf.toml",
			content: `
mem_limit = 30000
page_size = 1024
max_steps = 1000000
eof = "zero"
raw_output = true
timeout = "1.5s"
trace = true
dump = true
dump_format = "yaml"
`,
			expect: full,
		},
		{
			name: "yaml",
			file: "gobf.yaml",
			content: `
mem_limit: 30000
page_size: 1024
max_steps: 1000000
eof: zero
raw_output: true
timeout: 1.5s
trace: true
dump: true
dump_format: yaml
`,
			expect: full,
		},
		{
			name:    "yml defaults",
			file:    "gobf.yml",
			content: "eof: keep\n",
			expect:  config{EOF: tape.EOFKeep, PageSize: 256, DumpFormat: dumpText},
		},
		{
			name:    "empty yaml",
			file:    "empty.yaml",
			content: "\n",
			expect:  config{PageSize: 256, DumpFormat: dumpText},
		},
		{
			name:    "toml unknown keys",
			file:    "bad.toml",
			content: "memory = 3\nstack = 4\n",
			err:     "unknown config keys: memory, stack",
		},
		{
			name:    "yaml unknown keys",
			file:    "bad.yaml",
			content: "memory: 3\n",
			err:     "field memory not found",
		},
		{
			name:    "toml bad eof",
			file:    "eof.toml",
			content: `eof = "never"`,
			err:     `invalid EOF policy "never"`,
		},
		{
			name:    "yaml bad timeout",
			file:    "timeout.yaml",
			content: "timeout: soon\n",
			err:     "invalid duration",
		},
		{
			name:    "bad dump format",
			file:    "dump.toml",
			content: `dump_format = "xml"`,
			err:     `invalid dump format "xml", want text or yaml`,
		},
		{
			name:    "negative timeout",
			file:    "neg.toml",
			content: `timeout = "-1s"`,
			err:     "invalid negative timeout -1s",
		},
		{
			name:    "unsupported format",
			file:    "gobf.json",
			content: "{}",
			err:     `unsupported config format ".json"`,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var path string
			if tc.file != "" {
				path = writeTemp(t, tc.file, tc.content)
			}
			cfg, err := loadConfig(path)
			if tc.err != "" {
				require.Error(t, err, "expected config error")
				assert.Contains(t, err.Error(), tc.err, "expected error message")
				return
			}
			require.NoError(t, err, "unexpected config error")
			assert.Equal(t, tc.expect, cfg, "expected config")
		})
	}
}

func Test_loadConfig_missing(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func Test_config_machineOptions(t *testing.T) {
	cfg := config{MemLimit: 2, PageSize: 256, Stream: true}
	m := tape.New([]byte("-.>>"), nil, cfg.machineOptions()...)
	_, err := m.Run(testContext(t))
	assert.ErrorIs(t, err, tape.ErrDataPointerOverflow, "expected memory limit")
	assert.Equal(t, []byte{0xff}, m.Output(), "expected raw output")
}
