package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/Conversa/internal/models"
)

// Needs a live Postgres with the pgvector extension; set DATABASE_URL_TEST
// to run it. The ordering contract lives in SQL, so it cannot be checked
// against a fake.
func TestListMessages_CreationOrder(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL_TEST")
	if dsn == "" {
		t.Skip("DATABASE_URL_TEST not set")
	}

	ctx := context.Background()
	client, err := NewDatabaseClient(ctx, dsn, 8)
	require.NoError(t, err)
	defer client.Close()

	conv, err := client.CreateConversation(ctx, "ordering")
	require.NoError(t, err)

	contents := []string{"first", "second", "third", "fourth"}
	for _, c := range contents {
		_, err := client.AppendMessage(ctx, conv.ID, models.RoleUser, c)
		require.NoError(t, err)
		// Distinct timestamps, so creation order and sort order coincide.
		time.Sleep(2 * time.Millisecond)
	}

	msgs, err := client.ListMessages(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, msgs, len(contents))

	for i, m := range msgs {
		require.Equal(t, contents[i], m.Content)
	}
	for i := 1; i < len(msgs); i++ {
		prev, cur := msgs[i-1], msgs[i]
		inOrder := prev.CreatedAt.Before(cur.CreatedAt) ||
			(prev.CreatedAt.Equal(cur.CreatedAt) && prev.ID < cur.ID)
		require.True(t, inOrder, "message %d sorted before its predecessor", i)
	}
}
