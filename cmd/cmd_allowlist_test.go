package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const allowlistDocument = `{"pre": [
	"0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
	"0x70997970C51812dc3A010C7d01b50e20d17dc79C",
	"0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC",
	"0x90F79bf6EB2c4f870365E785982E1f101E93b906"
]}`

func writeAllowlist(t *testing.T) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "allowlist.json")
	require.NoError(t, os.WriteFile(file, []byte(allowlistDocument), 0o600))
	return file
}

// Commands run the global config and logger initializers, so these tests are not parallel.
func TestAllowlistCommand(t *testing.T) {
	file := writeAllowlist(t)

	testCases := []struct {
		name     string
		args     []string
		expected string
		wantErr  bool
	}{
		{
			name:     "root",
			args:     []string{"root", "--file", file},
			expected: "0xed2399eceb3708a5be191ab669d68fc18de03ad13f98ed2bac4579483d2d4dd7\n",
		},
		{
			name: "proof",
			args: []string{"proof", "--file", file, "--address", "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"},
			expected: "0x1ebaa930b8e9130423c183bf38b0564b0103180b7dad301013b18e59880541ae\n" +
				"0x2fedc732923ab373161628a2e6a943bccd91104e4a8c6619dec829ca4ebda426\n",
		},
		{
			name:    "proof_not_member",
			args:    []string{"proof", "--file", file, "--address", "0x0aaDEEf83545196CCB2ce70FaBF8be1Afa3C9B87"},
			wantErr: true,
		},
		{
			name:    "missing_file",
			args:    []string{"root", "--file", filepath.Join(t.TempDir(), "missing.json")},
			wantErr: true,
		},
		{
			name:    "address_required",
			args:    []string{"proof", "--file", file},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
					var out bytes.Buffer
			cmd := NewAllowlistCommand()
			cmd.SetOut(&out)
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(tc.args)

			err := cmd.Execute()
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, out.String())
		})
	}
}

func TestVersionCommand(t *testing.T) {

	var out bytes.Buffer
	cmd := NewVersionCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--module", "mint"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "v0.1.0\n", out.String())

	cmd = NewVersionCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--module", "runes"})
	assert.Error(t, cmd.Execute())
}
