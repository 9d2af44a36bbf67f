package report

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"lobbywatch/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_Report(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, false)

	err := table.Report(context.Background(), domain.Report{
		Lobbies: domain.Snapshot{
			{Name: "§GServer A§!", Version: "0143", HasPassword: false, MaxPlayers: 8, CurrentPlayers: 3, ID: 1001},
		},
	})
	require.NoError(t, err)

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)

	assert.True(t, strings.HasPrefix(lines[0], "+-"))
	for _, col := range []string{"name", "version", "password", "players", "id"} {
		assert.Contains(t, lines[1], col)
	}
	for _, cell := range []string{"Server A", "0143", "false", "3/8", "1001"} {
		assert.Contains(t, lines[2], cell)
	}
	assert.NotContains(t, out, "§")
	assert.True(t, strings.HasPrefix(lines[3], "+-"))
}

func TestTable_EmptyReportPrintsHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTable(&buf, false).Report(context.Background(), domain.Report{}))

	assert.Contains(t, buf.String(), "players")
}

func TestTable_TrimsLongNames(t *testing.T) {
	var buf bytes.Buffer
	name := strings.Repeat("n", 70)
	require.NoError(t, NewTable(&buf, false).Report(context.Background(), domain.Report{
		Lobbies: domain.Snapshot{{Name: name, MaxPlayers: 64, ID: 1}},
	}))

	assert.Contains(t, buf.String(), strings.Repeat("n", 47)+"...")
	assert.NotContains(t, buf.String(), strings.Repeat("n", 48))
}
