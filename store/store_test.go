package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/agentcat/sdk/catalog"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore creates a miniredis instance and returns a connected Store.
func setupTestStore(t *testing.T, opts ...Option) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	st, err := NewRedis(RedisOptions{
		URL:            fmt.Sprintf("redis://%s", mr.Addr()),
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   5 * time.Second,
	}, opts...)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = st.Close()
	})

	return st, mr
}

func profileRecord(t *testing.T, provider, model string) catalog.Record {
	t.Helper()
	rec, err := catalog.EncodeRecord(catalog.ProfileAttributes{Provider: provider, Model: model})
	require.NoError(t, err)
	return rec
}

func TestNewRedis(t *testing.T) {
	t.Run("successful connection", func(t *testing.T) {
		mr := miniredis.RunT(t)
		defer mr.Close()

		st, err := NewRedis(RedisOptions{URL: fmt.Sprintf("redis://%s", mr.Addr())})
		require.NoError(t, err)
		require.NotNil(t, st)
		defer st.Close()
	})

	t.Run("connection failure", func(t *testing.T) {
		_, err := NewRedis(RedisOptions{
			URL:            "redis://localhost:1",
			ConnectTimeout: 100 * time.Millisecond,
		})
		require.Error(t, err)
	})

	t.Run("invalid URL", func(t *testing.T) {
		_, err := NewRedis(RedisOptions{URL: "invalid://url"})
		require.Error(t, err)
	})
}

func TestCreateAndFetch(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		st, _ := setupTestStore(t)

		rec := profileRecord(t, "openai", "gpt-4")
		require.NoError(t, st.CreateEntity(ctx, catalog.KindProfile, "p1", "main profile", rec, true, false))

		got, err := st.FetchEntity(ctx, catalog.KindProfile, "p1")
		require.NoError(t, err)
		assert.Equal(t, "p1", got.Name)
		assert.Equal(t, "main profile", got.Description)
		assert.Equal(t, catalog.StatusEnabled, got.Status)
		assert.Equal(t, "gpt-4", got.Attributes["model"])
	})

	t.Run("duplicate rejected with kind code", func(t *testing.T) {
		st, _ := setupTestStore(t)

		rec := profileRecord(t, "openai", "gpt-4")
		require.NoError(t, st.CreateEntity(ctx, catalog.KindProfile, "p1", "", rec, true, false))

		err := st.CreateEntity(ctx, catalog.KindProfile, "p1", "", rec, true, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ERR-20054")
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("replace swaps attributes wholesale", func(t *testing.T) {
		st, _ := setupTestStore(t)

		first, err := catalog.EncodeRecord(catalog.ProfileAttributes{
			Provider: "openai", Model: "gpt-4", CredentialName: "cred-a",
		})
		require.NoError(t, err)
		require.NoError(t, st.CreateEntity(ctx, catalog.KindProfile, "p1", "", first, true, false))

		second := profileRecord(t, "anthropic", "claude")
		require.NoError(t, st.CreateEntity(ctx, catalog.KindProfile, "p1", "", second, true, true))

		got, err := st.FetchEntity(ctx, catalog.KindProfile, "p1")
		require.NoError(t, err)
		assert.Equal(t, "anthropic", got.Attributes["provider"])
		_, leaked := got.Attributes["credential_name"]
		assert.False(t, leaked, "replace must not merge old attributes")
	})

	t.Run("validation is authoritative on the store side", func(t *testing.T) {
		st, _ := setupTestStore(t)

		err := st.CreateEntity(ctx, catalog.KindProfile, "p1", "", catalog.Record{"provider": "openai"}, true, false)
		require.Error(t, err)
		assert.Equal(t, catalog.ErrCodeProfile, catalog.ErrorCode(err))
	})

	t.Run("create disabled", func(t *testing.T) {
		st, _ := setupTestStore(t)

		rec := profileRecord(t, "openai", "gpt-4")
		require.NoError(t, st.CreateEntity(ctx, catalog.KindProfile, "p1", "", rec, false, false))

		status, err := st.EntityStatus(ctx, catalog.KindProfile, "p1")
		require.NoError(t, err)
		assert.Equal(t, catalog.StatusDisabled, status)
	})

	t.Run("fetch missing", func(t *testing.T) {
		st, _ := setupTestStore(t)

		_, err := st.FetchEntity(ctx, catalog.KindProfile, "ghost")
		require.Error(t, err)
		assert.True(t, catalog.IsNotFound(err))
	})
}

func TestListEntities(t *testing.T) {
	ctx := context.Background()
	st, _ := setupTestStore(t)

	for _, name := range []string{"alpha", "beta", "alpine"} {
		require.NoError(t, st.CreateEntity(ctx, catalog.KindAgent, name, "",
			catalog.Record{"profile_name": "p", "role": "worker"}, true, false))
	}

	collect := func(rows catalog.Rows) []string {
		var names []string
		for rows.Next() {
			names = append(names, rows.Entity().Name)
		}
		require.NoError(t, rows.Err())
		require.NoError(t, rows.Close())
		return names
	}

	t.Run("all, sorted by name", func(t *testing.T) {
		rows, err := st.ListEntities(ctx, catalog.KindAgent, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha", "alpine", "beta"}, collect(rows))
	})

	t.Run("regexp filter", func(t *testing.T) {
		rows, err := st.ListEntities(ctx, catalog.KindAgent, "^alp")
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha", "alpine"}, collect(rows))
	})

	t.Run("no match is an empty result, not an error", func(t *testing.T) {
		rows, err := st.ListEntities(ctx, catalog.KindAgent, "zzz")
		require.NoError(t, err)
		assert.Empty(t, collect(rows))
	})

	t.Run("invalid pattern", func(t *testing.T) {
		_, err := st.ListEntities(ctx, catalog.KindAgent, "[unclosed")
		require.Error(t, err)
		assert.Equal(t, catalog.ErrCodeInvalidRegexp, catalog.ErrorCode(err))
	})

	t.Run("kinds are isolated", func(t *testing.T) {
		rows, err := st.ListEntities(ctx, catalog.KindProfile, "")
		require.NoError(t, err)
		assert.Empty(t, collect(rows))
	})
}

func TestSetEntityStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("repeated toggle is tolerated for most kinds", func(t *testing.T) {
		st, _ := setupTestStore(t)

		rec := profileRecord(t, "openai", "gpt-4")
		require.NoError(t, st.CreateEntity(ctx, catalog.KindProfile, "p1", "", rec, true, false))

		require.NoError(t, st.SetEntityStatus(ctx, catalog.KindProfile, "p1", false))
		require.NoError(t, st.SetEntityStatus(ctx, catalog.KindProfile, "p1", false))

		status, err := st.EntityStatus(ctx, catalog.KindProfile, "p1")
		require.NoError(t, err)
		assert.Equal(t, catalog.StatusDisabled, status)
	})

	t.Run("teams reject identical-state transitions", func(t *testing.T) {
		st, _ := setupTestStore(t)

		team := catalog.Record{
			"agents":  []any{map[string]any{"name": "a", "task": "t"}},
			"process": "sequential",
		}
		require.NoError(t, st.CreateEntity(ctx, catalog.KindTeam, "crew", "", team, true, false))

		err := st.SetEntityStatus(ctx, catalog.KindTeam, "crew", true)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ERR-20053")
		assert.Contains(t, err.Error(), "already ENABLED")

		require.NoError(t, st.SetEntityStatus(ctx, catalog.KindTeam, "crew", false))
		err = st.SetEntityStatus(ctx, catalog.KindTeam, "crew", false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already DISABLED")
	})

	t.Run("absent entity", func(t *testing.T) {
		st, _ := setupTestStore(t)

		err := st.SetEntityStatus(ctx, catalog.KindAgent, "ghost", true)
		assert.True(t, catalog.IsNotFound(err))
	})
}

func TestSetEntityAttribute(t *testing.T) {
	ctx := context.Background()
	st, _ := setupTestStore(t)

	rec := profileRecord(t, "openai", "gpt-4")
	require.NoError(t, st.CreateEntity(ctx, catalog.KindProfile, "p1", "", rec, true, false))

	t.Run("updates one field, keeps the rest", func(t *testing.T) {
		require.NoError(t, st.SetEntityAttribute(ctx, catalog.KindProfile, "p1", "model", "gpt-4o"))

		got, err := st.FetchEntity(ctx, catalog.KindProfile, "p1")
		require.NoError(t, err)
		assert.Equal(t, "gpt-4o", got.Attributes["model"])
		assert.Equal(t, "openai", got.Attributes["provider"])
	})

	t.Run("numbers are normalized to wire form", func(t *testing.T) {
		require.NoError(t, st.SetEntityAttribute(ctx, catalog.KindProfile, "p1", "max_tokens", 4096))

		got, err := st.FetchEntity(ctx, catalog.KindProfile, "p1")
		require.NoError(t, err)
		assert.Equal(t, float64(4096), got.Attributes["max_tokens"])
	})

	t.Run("rejected update leaves the record untouched", func(t *testing.T) {
		before, err := st.FetchEntity(ctx, catalog.KindProfile, "p1")
		require.NoError(t, err)

		require.Error(t, st.SetEntityAttribute(ctx, catalog.KindProfile, "p1", "nope", "x"))
		require.Error(t, st.SetEntityAttribute(ctx, catalog.KindProfile, "p1", "temperature", 9.0))

		after, err := st.FetchEntity(ctx, catalog.KindProfile, "p1")
		require.NoError(t, err)
		assert.Equal(t, before.Attributes, after.Attributes)
	})

	t.Run("absent entity", func(t *testing.T) {
		err := st.SetEntityAttribute(ctx, catalog.KindProfile, "ghost", "model", "gpt-4")
		assert.True(t, catalog.IsNotFound(err))
	})
}

func TestReplaceEntityAttributes(t *testing.T) {
	ctx := context.Background()

	t.Run("full replace keeps nothing of the old record", func(t *testing.T) {
		st, _ := setupTestStore(t)

		first, err := catalog.EncodeRecord(catalog.ProfileAttributes{
			Provider: "openai", Model: "gpt-4", CredentialName: "cred-a",
		})
		require.NoError(t, err)
		require.NoError(t, st.CreateEntity(ctx, catalog.KindProfile, "p1", "", first, true, false))

		require.NoError(t, st.ReplaceEntityAttributes(ctx, catalog.KindProfile, "p1",
			profileRecord(t, "anthropic", "claude")))

		got, err := st.FetchEntity(ctx, catalog.KindProfile, "p1")
		require.NoError(t, err)
		assert.Equal(t, "anthropic", got.Attributes["provider"])
		_, leaked := got.Attributes["credential_name"]
		assert.False(t, leaked, "replace must not merge old attributes")
	})

	t.Run("invalid record is rejected, stored record untouched", func(t *testing.T) {
		st, _ := setupTestStore(t)

		require.NoError(t, st.CreateEntity(ctx, catalog.KindProfile, "p1", "",
			profileRecord(t, "openai", "gpt-4"), true, false))

		err := st.ReplaceEntityAttributes(ctx, catalog.KindProfile, "p1",
			catalog.Record{"provider": "openai"})
		require.Error(t, err)
		assert.Equal(t, catalog.ErrCodeProfile, catalog.ErrorCode(err))

		got, err := st.FetchEntity(ctx, catalog.KindProfile, "p1")
		require.NoError(t, err)
		assert.Equal(t, "gpt-4", got.Attributes["model"])
	})

	t.Run("deleted entity", func(t *testing.T) {
		st, _ := setupTestStore(t)

		require.NoError(t, st.CreateEntity(ctx, catalog.KindProfile, "p1", "",
			profileRecord(t, "openai", "gpt-4"), true, false))
		require.NoError(t, st.DeleteEntity(ctx, catalog.KindProfile, "p1", true))

		err := st.ReplaceEntityAttributes(ctx, catalog.KindProfile, "p1",
			profileRecord(t, "openai", "gpt-4"))
		assert.True(t, catalog.IsNotFound(err))
	})
}

func TestDeleteEntity(t *testing.T) {
	ctx := context.Background()

	t.Run("enabled task cannot be deleted without force", func(t *testing.T) {
		st, _ := setupTestStore(t)

		require.NoError(t, st.CreateEntity(ctx, catalog.KindTask, "t1", "",
			catalog.Record{"instruction": "do the thing"}, true, false))

		err := st.DeleteEntity(ctx, catalog.KindTask, "t1", false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ERR-20051")
		assert.Contains(t, err.Error(), "must be disabled")

		require.NoError(t, st.SetEntityStatus(ctx, catalog.KindTask, "t1", false))
		require.NoError(t, st.DeleteEntity(ctx, catalog.KindTask, "t1", false))
	})

	t.Run("force bypasses the disabled rule", func(t *testing.T) {
		st, _ := setupTestStore(t)

		require.NoError(t, st.CreateEntity(ctx, catalog.KindTask, "t1", "",
			catalog.Record{"instruction": "do the thing"}, true, false))
		require.NoError(t, st.DeleteEntity(ctx, catalog.KindTask, "t1", true))
	})

	t.Run("force delete of an absent agent is a no-op", func(t *testing.T) {
		st, _ := setupTestStore(t)

		require.NoError(t, st.DeleteEntity(ctx, catalog.KindAgent, "ghost", true))
		require.NoError(t, st.DeleteEntity(ctx, catalog.KindAgent, "ghost", true))
	})

	t.Run("force delete of an absent team errors", func(t *testing.T) {
		st, _ := setupTestStore(t)

		team := catalog.Record{
			"agents":  []any{map[string]any{"name": "a", "task": "t"}},
			"process": "sequential",
		}
		require.NoError(t, st.CreateEntity(ctx, catalog.KindTeam, "crew", "", team, true, false))
		require.NoError(t, st.DeleteEntity(ctx, catalog.KindTeam, "crew", true))

		err := st.DeleteEntity(ctx, catalog.KindTeam, "crew", true)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ERR-20053")
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("non-force delete of an absent entity", func(t *testing.T) {
		st, _ := setupTestStore(t)

		err := st.DeleteEntity(ctx, catalog.KindProfile, "ghost", false)
		assert.True(t, catalog.IsNotFound(err))
	})
}

// seedTeamGraph creates a complete profile → agent → task → team graph.
func seedTeamGraph(t *testing.T, st *Store) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, st.CreateEntity(ctx, catalog.KindProfile, "p1", "",
		profileRecord(t, "openai", "gpt-4"), true, false))
	require.NoError(t, st.CreateEntity(ctx, catalog.KindTask, "triage", "",
		catalog.Record{"instruction": "triage tickets"}, true, false))
	require.NoError(t, st.CreateEntity(ctx, catalog.KindAgent, "helper", "",
		catalog.Record{"profile_name": "p1", "role": "support engineer"}, true, false))
	require.NoError(t, st.CreateEntity(ctx, catalog.KindTeam, "crew", "",
		catalog.Record{
			"agents":  []any{map[string]any{"name": "helper", "task": "triage"}},
			"process": "sequential",
		}, true, false))
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	runner := RunnerFunc(func(_ context.Context, team *catalog.RawEntity, prompt string, params map[string]any) (*catalog.RunResponse, error) {
		return &catalog.RunResponse{
			Type:    catalog.ResponseFinalAnswer,
			Message: fmt.Sprintf("%s: done", team.Name),
		}, nil
	})

	params := catalog.RunParams(catalog.NewConversationID(), nil)

	t.Run("happy path", func(t *testing.T) {
		st, _ := setupTestStore(t, WithRunner(runner))
		seedTeamGraph(t, st)

		resp, err := st.Run(ctx, "crew", "hello", params)
		require.NoError(t, err)
		assert.True(t, resp.IsFinal())
		assert.Equal(t, "crew: done", resp.Message)
	})

	t.Run("missing team", func(t *testing.T) {
		st, _ := setupTestStore(t, WithRunner(runner))

		_, err := st.Run(ctx, "ghost", "hello", params)
		assert.True(t, catalog.IsNotFound(err))
	})

	t.Run("disabled team", func(t *testing.T) {
		st, _ := setupTestStore(t, WithRunner(runner))
		seedTeamGraph(t, st)
		require.NoError(t, st.SetEntityStatus(ctx, catalog.KindTeam, "crew", false))

		_, err := st.Run(ctx, "crew", "hello", params)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disabled")
	})

	t.Run("conversation id is mandatory", func(t *testing.T) {
		st, _ := setupTestStore(t, WithRunner(runner))
		seedTeamGraph(t, st)

		_, err := st.Run(ctx, "crew", "hello", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "conversation_id")
	})

	t.Run("dangling references fail only at run time", func(t *testing.T) {
		st, _ := setupTestStore(t, WithRunner(runner))
		seedTeamGraph(t, st)
		require.NoError(t, st.DeleteEntity(ctx, catalog.KindAgent, "helper", true))

		_, err := st.Run(ctx, "crew", "hello", params)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `missing agent "helper"`)
		assert.Equal(t, catalog.ErrCodeTeam, catalog.ErrorCode(err))
	})

	t.Run("agent without its profile", func(t *testing.T) {
		st, _ := setupTestStore(t, WithRunner(runner))
		seedTeamGraph(t, st)
		require.NoError(t, st.DeleteEntity(ctx, catalog.KindProfile, "p1", true))

		_, err := st.Run(ctx, "crew", "hello", params)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `missing profile "p1"`)
	})

	t.Run("no runner configured", func(t *testing.T) {
		st, _ := setupTestStore(t)
		seedTeamGraph(t, st)

		_, err := st.Run(ctx, "crew", "hello", params)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no orchestrator")
	})
}

func TestCredentials(t *testing.T) {
	ctx := context.Background()

	t.Run("create and duplicate", func(t *testing.T) {
		st, _ := setupTestStore(t)

		cred := catalog.Credential{Name: "db", Username: "app", Password: "hunter2"}
		require.NoError(t, st.CreateCredential(ctx, cred, false))

		err := st.CreateCredential(ctx, cred, false)
		require.Error(t, err)
		assert.Equal(t, catalog.ErrCodeCredential, catalog.ErrorCode(err))

		require.NoError(t, st.CreateCredential(ctx, cred, true))
	})

	t.Run("secret material never reaches the store", func(t *testing.T) {
		st, mr := setupTestStore(t)

		cred := catalog.Credential{Name: "db", Username: "app", Password: "hunter2"}
		require.NoError(t, st.CreateCredential(ctx, cred, false))

		stored, err := mr.Get("agentcat:credential:db")
		require.NoError(t, err)
		assert.Contains(t, stored, "app")
		assert.NotContains(t, stored, "hunter2")
	})

	t.Run("name is required", func(t *testing.T) {
		st, _ := setupTestStore(t)

		err := st.CreateCredential(ctx, catalog.Credential{Username: "app"}, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ERR-20055")
	})

	t.Run("drop", func(t *testing.T) {
		st, _ := setupTestStore(t)

		require.NoError(t, st.CreateCredential(ctx, catalog.Credential{Name: "db", Username: "app"}, false))
		require.NoError(t, st.DropCredential(ctx, "db", false))

		err := st.DropCredential(ctx, "db", false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")

		require.NoError(t, st.DropCredential(ctx, "db", true))
	})
}

func TestNamespaceIsolation(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	open := func(ns string) *Store {
		st, err := NewRedis(RedisOptions{
			URL:       fmt.Sprintf("redis://%s", mr.Addr()),
			Namespace: ns,
		})
		require.NoError(t, err)
		t.Cleanup(func() { _ = st.Close() })
		return st
	}

	a, b := open("tenant-a"), open("tenant-b")
	require.NoError(t, a.CreateEntity(ctx, catalog.KindProfile, "p1", "",
		profileRecord(t, "openai", "gpt-4"), true, false))

	_, err := b.FetchEntity(ctx, catalog.KindProfile, "p1")
	assert.True(t, catalog.IsNotFound(err))
}
