package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsdash/airtable"
	"opsdash/gateway"
	"opsdash/gateway/gatewaytest"
)

func TestPruneTasks(t *testing.T) {
	backend := gatewaytest.NewMemoryStore()
	for i := 0; i < 23; i++ {
		backend.Seed(string(gateway.KindTask), airtable.Record{Fields: airtable.Fields{"Title": "old", "Status": "Done"}})
	}
	backend.Seed(string(gateway.KindTask),
		airtable.Record{Fields: airtable.Fields{"Title": "open"}},
		airtable.Record{Fields: airtable.Fields{"Title": "doing", "Status": "In Progress"}},
	)
	gw := gateway.New(backend)
	ctx := context.Background()

	var out bytes.Buffer
	n, err := pruneTasks(ctx, gw, "Done", true, &out)
	require.NoError(t, err)
	assert.Equal(t, 23, n)
	assert.Empty(t, backend.DestroyBatches, "dry run deletes nothing")

	n, err = pruneTasks(ctx, gw, "Done", false, &out)
	require.NoError(t, err)
	assert.Equal(t, 23, n)
	require.Len(t, backend.DestroyBatches, 3)
	assert.Len(t, backend.DestroyBatches[2], 3)
	assert.Len(t, backend.Records(string(gateway.KindTask)), 2)
	assert.Contains(t, out.String(), "23 tarefa(s) apagada(s)")

	_, err = pruneTasks(ctx, gw, "Archived", false, &out)
	assert.Error(t, err)
}

func TestRootCommandWiring(t *testing.T) {
	root := newRootCommand()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["tasks"])

	prune, _, err := root.Find([]string{"tasks", "prune"})
	require.NoError(t, err)
	assert.Equal(t, "Done", prune.Flags().Lookup("status").DefValue)
}
