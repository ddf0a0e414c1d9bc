package sdk_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/agentcat/sdk"
	"github.com/agentcat/sdk/catalog"
	"github.com/agentcat/sdk/store"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupCatalog opens a Catalog over a miniredis-backed store via a config
// file, the way production callers do.
func setupCatalog(t *testing.T, opts ...sdk.Option) *sdk.Catalog {
	t.Helper()

	mr := miniredis.RunT(t)
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := fmt.Sprintf("store:\n  driver: redis\n  redis:\n    url: redis://%s\n", mr.Addr())
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cat, err := sdk.Open(path, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cat.Close() })
	return cat
}

// seedCatalog builds the full entity graph one conversation needs.
func seedCatalog(t *testing.T, cat *sdk.Catalog) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, cat.Profiles().Create(ctx, &catalog.Profile{
		Name:        "openai-gpt",
		Description: "primary LLM profile",
		Attributes:  catalog.ProfileAttributes{Provider: "openai", Model: "gpt-4", Temperature: 0.2},
	}))
	require.NoError(t, cat.Tools().Create(ctx, catalog.NewSQLTool("query-db", "openai-gpt", "answers SQL questions")))
	require.NoError(t, cat.Tasks().Create(ctx, &catalog.Task{
		Name: "triage",
		Attributes: catalog.TaskAttributes{
			Instruction: "triage the incoming request",
			Tools:       []string{"query-db"},
		},
	}))
	require.NoError(t, cat.Agents().Create(ctx, &catalog.Agent{
		Name:       "helper",
		Attributes: catalog.AgentAttributes{ProfileName: "openai-gpt", Role: "support engineer"},
	}))
	require.NoError(t, cat.Teams().Create(ctx, &catalog.Team{
		Name: "crew",
		Attributes: catalog.TeamAttributes{
			Agents:  []catalog.TeamMember{{Name: "helper", Task: "triage"}},
			Process: catalog.ProcessSequential,
		},
	}))
}

func TestCatalogLifecycle(t *testing.T) {
	ctx := context.Background()
	cat := setupCatalog(t)
	seedCatalog(t, cat)

	t.Run("fetch round trips the graph", func(t *testing.T) {
		team, err := cat.Teams().Fetch(ctx, "crew")
		require.NoError(t, err)
		require.Len(t, team.Attributes.Agents, 1)
		assert.Equal(t, "helper", team.Attributes.Agents[0].Name)
		assert.Equal(t, catalog.StatusEnabled, team.Status)
	})

	t.Run("list with pattern", func(t *testing.T) {
		require.NoError(t, cat.Agents().Create(ctx, &catalog.Agent{
			Name:       "helper-2",
			Attributes: catalog.AgentAttributes{ProfileName: "openai-gpt", Role: "backup"},
		}))

		cur, err := cat.Agents().List(ctx, "^helper")
		require.NoError(t, err)
		all, err := cur.Collect()
		require.NoError(t, err)
		assert.Len(t, all, 2)

		_, err = cat.Agents().List(ctx, "[bad")
		require.Error(t, err)
		assert.Equal(t, catalog.ErrCodeInvalidRegexp, sdk.ErrorCode(err))
	})

	t.Run("attribute update is visible on the next fetch", func(t *testing.T) {
		require.NoError(t, cat.Profiles().SetAttribute(ctx, "openai-gpt", "model", "gpt-4o"))

		p, err := cat.Profiles().Fetch(ctx, "openai-gpt")
		require.NoError(t, err)
		assert.Equal(t, "gpt-4o", p.Attributes.Model)
	})

	t.Run("replace create keeps nothing of the old record", func(t *testing.T) {
		err := cat.Profiles().Create(ctx, &catalog.Profile{
			Name:       "openai-gpt",
			Attributes: catalog.ProfileAttributes{Provider: "anthropic", Model: "claude"},
		}, catalog.WithReplace())
		require.NoError(t, err)

		p, err := cat.Profiles().Fetch(ctx, "openai-gpt")
		require.NoError(t, err)
		assert.Equal(t, "anthropic", p.Attributes.Provider)
		assert.InDelta(t, 0.0, p.Attributes.Temperature, 1e-9)
	})
}

func TestCatalogErrorSemantics(t *testing.T) {
	ctx := context.Background()
	cat := setupCatalog(t)
	seedCatalog(t, cat)

	t.Run("agent force delete twice is quiet", func(t *testing.T) {
		require.NoError(t, cat.Agents().Delete(ctx, "helper", catalog.WithForce()))
		require.NoError(t, cat.Agents().Delete(ctx, "helper", catalog.WithForce()))
	})

	t.Run("team force delete twice errors", func(t *testing.T) {
		require.NoError(t, cat.Teams().Delete(ctx, "crew", catalog.WithForce()))

		err := cat.Teams().Delete(ctx, "crew", catalog.WithForce())
		require.Error(t, err)
		assert.Equal(t, catalog.ErrCodeTeam, sdk.ErrorCode(err))
	})

	t.Run("task delete needs disable first", func(t *testing.T) {
		err := cat.Tasks().Delete(ctx, "triage")
		require.Error(t, err)
		assert.Equal(t, catalog.ErrCodeTask, sdk.ErrorCode(err))

		require.NoError(t, cat.Tasks().Disable(ctx, "triage"))
		require.NoError(t, cat.Tasks().Delete(ctx, "triage"))
	})

	t.Run("not found is branchable", func(t *testing.T) {
		_, err := cat.Profiles().Fetch(ctx, "ghost")
		assert.True(t, sdk.IsNotFound(err))

		err = cat.Tools().Delete(ctx, "ghost")
		assert.True(t, sdk.IsNotFound(err))

		err = cat.Agents().SetAttributes(ctx, "helper",
			catalog.AgentAttributes{ProfileName: "openai-gpt", Role: "revived"})
		assert.True(t, sdk.IsNotFound(err), "attribute replace on a deleted agent must fail")
	})
}

func TestTeamConversation(t *testing.T) {
	ctx := context.Background()

	// Scripted orchestrator: first turn asks for input, second concludes.
	turns := 0
	runner := store.RunnerFunc(func(_ context.Context, team *catalog.RawEntity, prompt string, params map[string]any) (*catalog.RunResponse, error) {
		turns++
		if turns == 1 {
			return &catalog.RunResponse{
				Type:    catalog.ResponseNeedsHumanInput,
				Message: "which environment?",
			}, nil
		}
		return &catalog.RunResponse{
			Type:    catalog.ResponseFinalAnswer,
			Message: fmt.Sprintf("%s handled: %s", team.Name, prompt),
		}, nil
	})

	cat := setupCatalog(t, sdk.WithRunner(runner))
	seedCatalog(t, cat)

	conversation := catalog.NewConversationID()

	resp, err := cat.Teams().Run(ctx, "crew", "deploy the fix", catalog.RunParams(conversation, nil))
	require.NoError(t, err)
	assert.False(t, resp.IsFinal())
	assert.Equal(t, catalog.ResponseNeedsHumanInput, resp.Type)

	resp, err = cat.Teams().Run(ctx, "crew", "staging", catalog.RunParams(conversation, nil))
	require.NoError(t, err)
	assert.True(t, resp.IsFinal())
	assert.Contains(t, resp.Message, "crew handled: staging")

	t.Run("run without conversation id", func(t *testing.T) {
		_, err := cat.Teams().Run(ctx, "crew", "hi", nil)
		require.Error(t, err)
		assert.Equal(t, catalog.ErrCodeTeam, sdk.ErrorCode(err))
	})

	t.Run("disabled team refuses to run", func(t *testing.T) {
		require.NoError(t, cat.Teams().Disable(ctx, "crew"))

		_, err := cat.Teams().Run(ctx, "crew", "hi", catalog.RunParams(conversation, nil))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disabled")
	})
}

func TestCredentialsEndToEnd(t *testing.T) {
	ctx := context.Background()
	cat := setupCatalog(t)

	cred := catalog.Credential{Name: "search-cred", Username: "svc", Password: "secret"}
	require.NoError(t, cat.Credentials().Create(ctx, cred, false))

	err := cat.Credentials().Create(ctx, cred, false)
	require.Error(t, err)
	assert.Equal(t, catalog.ErrCodeCredential, sdk.ErrorCode(err))

	require.NoError(t, cat.Credentials().Create(ctx, cred, true))
	require.NoError(t, cat.Credentials().Drop(ctx, "search-cred", false))
	require.NoError(t, cat.Credentials().Drop(ctx, "search-cred", true))
}

func TestOpenRejectsBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  driver: carrier-pigeon\n"), 0o644))

	_, err := sdk.Open(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carrier-pigeon")
}
