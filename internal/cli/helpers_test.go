package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// orderInput places Scenario D's order: two headphones, a valid form,
// PayPal, submit, and wait for the simulated delay.
const orderInput = `add 1
add 1
view checkout
set name Ada Lovelace
set email ada@example.com
set address 1 Analytical Way
set city London
set zip 12345
set paymentMethod paypal
submit
wait
quit
`

// execute runs cmd with args and stdin, returning stdout and the error.
func execute(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// recordSession runs a shell session against a journal file.
func recordSession(t *testing.T, dbPath, session, input string) {
	t.Helper()
	cmd := NewShellCommand(&RootOptions{Format: "text"})
	_, err := execute(t, cmd, input,
		"--journal", dbPath,
		"--session", session,
		"--submit-delay", "0s",
	)
	require.NoError(t, err)
}

// decodeResponses decodes a stream of JSON CLI responses.
func decodeResponses(t *testing.T, out string) []CLIResponse {
	t.Helper()
	var resps []CLIResponse
	dec := json.NewDecoder(strings.NewReader(out))
	for dec.More() {
		var r CLIResponse
		require.NoError(t, dec.Decode(&r))
		resps = append(resps, r)
	}
	return resps
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const outdoorCatalog = `categories: ["Kitchen", "Outdoors"]

products: [{
	id:       "mug"
	name:     "Enamel Mug"
	price:    12.50
	category: "Kitchen"
}, {
	id:       "tent"
	name:     "Two-Person Tent"
	price:    189
	category: "Outdoors"
}]
`
