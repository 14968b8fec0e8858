package banks

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/bankschema"
)

func TestBanksCommand_Metadata(t *testing.T) {
	assert.Equal(t, "banks [name]", Cmd.Use)
	assert.Contains(t, Cmd.Short, "bank schemas")
	assert.NotNil(t, Cmd.RunE)
	assert.NoError(t, Cmd.Args(Cmd, []string{}))
	assert.Error(t, Cmd.Args(Cmd, []string{"bca", "bri"}))
}

func TestPrintSchemas(t *testing.T) {
	registry, err := bankschema.LoadDefault("BCA")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, PrintSchemas(&buf, registry))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, len(registry.Schemas())+1)
	assert.True(t, strings.HasPrefix(lines[0], "CODE"))
	assert.True(t, strings.HasPrefix(lines[1], "BCA"))
	assert.Contains(t, lines[1], "014")
	assert.Contains(t, lines[1], "kodeAkses")
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], bankschema.GenericCode))
}

func TestPrintResolved(t *testing.T) {
	registry, err := bankschema.LoadDefault("BCA")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, PrintResolved(&buf, registry, "bank rakyat indonesia"))
	out := buf.String()
	assert.Contains(t, out, "resolves to BRI (Bank Rakyat Indonesia)")
	assert.Contains(t, out, "brimoUser")
	assert.Contains(t, out, "Subtypes:    QRIS, TABUNGAN")

	buf.Reset()
	require.NoError(t, PrintResolved(&buf, registry, "koperasi xyz"))
	assert.Contains(t, buf.String(), "resolves to GENERIC")
}
