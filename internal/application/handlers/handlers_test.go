package handlers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/entref/internal/domain/entities"
	"github.com/ersonp/entref/internal/domain/mocks"
	"github.com/ersonp/entref/internal/domain/services"
	"github.com/ersonp/entref/internal/infrastructure/config"
	"github.com/ersonp/entref/internal/testutil"
)

func definitions() map[string]entities.RawReference {
	return map[string]entities.RawReference{
		"&amp":  {Codepoints: []int{38}},
		"&amp;": {Codepoints: []int{38}},
		"&lt;":  {Codepoints: []int{60}},
		"&acE;": {Codepoints: []int{8766, 819}},
	}
}

func TestNewInitHandler(t *testing.T) {
	history := &mocks.BuildHistory{}

	handler := NewInitHandler(history)

	require.NotNil(t, handler)
	assert.Equal(t, history, handler.history)
}

func TestInitHandler_Handle_Success(t *testing.T) {
	tmpDir := t.TempDir()
	history := &mocks.BuildHistory{}

	handler := NewInitHandler(history)

	result, err := handler.Handle(t.Context(), tmpDir)

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Contains(t, result.ConfigPath, "config.yaml")
	assert.Equal(t, tmpDir, result.OutputDir)
	assert.Equal(t, 1, history.EnsureSchemaCallCount)

	// Verify config was created
	assert.True(t, config.Exists(tmpDir))
}

func TestInitHandler_Handle_WithoutHistory(t *testing.T) {
	tmpDir := t.TempDir()

	result, err := NewInitHandler(nil).Handle(t.Context(), tmpDir)

	require.NoError(t, err)
	assert.True(t, config.Exists(tmpDir))
	assert.NotEmpty(t, result.ConfigPath)
}

func TestInitHandler_Handle_AlreadyInitialized(t *testing.T) {
	tmpDir := t.TempDir()

	// Initialize first
	err := config.WriteDefault(tmpDir)
	require.NoError(t, err)

	history := &mocks.BuildHistory{}

	_, err = NewInitHandler(history).Handle(t.Context(), tmpDir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "already initialized")
	assert.Equal(t, 0, history.EnsureSchemaCallCount)
}

func TestInitHandler_Handle_SchemaError(t *testing.T) {
	tmpDir := t.TempDir()
	history := &mocks.BuildHistory{Err: errors.New("disk I/O error")}

	_, err := NewInitHandler(history).Handle(t.Context(), tmpDir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating history schema")
}

func TestBuildHandler_Handle(t *testing.T) {
	store := &mocks.TableStore{
		Location:  "out",
		Artifacts: []entities.Artifact{{Group: entities.GroupFull}, {Group: entities.GroupBase}},
	}
	history := &mocks.BuildHistory{}
	svc := services.NewBuildService(&mocks.DefinitionSource{Definitions: definitions()}, store, history, testutil.NewTestLogger(t))

	result, err := NewBuildHandler(svc).Handle(t.Context(), BuildOptions{})

	require.NoError(t, err)
	assert.Equal(t, 3, result.FullSize)
	assert.Equal(t, 1, result.BaseSize)
	assert.Len(t, result.Artifacts, 2)
	assert.False(t, result.DryRun)
	require.Len(t, history.Builds, 1)
	assert.Equal(t, history.Builds[0].ID, result.BuildID)
	assert.Equal(t, "out", history.Builds[0].OutputDir)
}

func TestBuildHandler_Handle_DryRun(t *testing.T) {
	store := &mocks.TableStore{}
	svc := services.NewBuildService(&mocks.DefinitionSource{Definitions: definitions()}, store, nil, testutil.NewTestLogger(t))

	result, err := NewBuildHandler(svc).Handle(t.Context(), BuildOptions{DryRun: true})

	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.Equal(t, 3, result.FullSize)
	assert.Empty(t, result.Artifacts)
	assert.Equal(t, 0, store.SaveCallCount)
}

func TestBuildHandler_Handle_Error(t *testing.T) {
	source := &mocks.DefinitionSource{Err: errors.New("timeout")}
	svc := services.NewBuildService(source, &mocks.TableStore{}, nil, testutil.NewTestLogger(t))

	result, err := NewBuildHandler(svc).Handle(t.Context(), BuildOptions{})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "fetching definitions: timeout")
}

func TestVerifyHandler_Handle(t *testing.T) {
	tables, err := services.Compile(definitions())
	require.NoError(t, err)

	svc := services.NewVerifyService(&mocks.TableStore{Tables: tables}, nil, testutil.NewTestLogger(t))

	report, err := NewVerifyHandler(svc).Handle(t.Context())

	require.NoError(t, err)
	assert.Equal(t, 1, report.BaseCount)
	assert.Equal(t, 3, report.FullCount)
}

func TestVerifyHandler_Handle_Corrupt(t *testing.T) {
	tables, err := services.Compile(definitions())
	require.NoError(t, err)
	tables.Full.Records[0].CodeIndex, tables.Full.Records[1].CodeIndex =
		tables.Full.Records[1].CodeIndex, tables.Full.Records[0].CodeIndex

	svc := services.NewVerifyService(&mocks.TableStore{Tables: tables}, nil, testutil.NewTestLogger(t))

	_, err = NewVerifyHandler(svc).Handle(t.Context())

	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrInvalidTable)
}

func TestVerifyHandler_Handle_MatchesBuild(t *testing.T) {
	tables, err := services.Compile(definitions())
	require.NoError(t, err)

	store := &mocks.TableStore{
		Tables:   tables,
		Location: "out",
		Digests:  map[entities.Group]string{entities.GroupFull: "ff", entities.GroupBase: "bb"},
	}
	history := &mocks.BuildHistory{Builds: []entities.Build{{ID: "b-1", OutputDir: "out", FullDigest: "ff", BaseDigest: "bb"}}}
	svc := services.NewVerifyService(store, history, testutil.NewTestLogger(t))

	report, err := NewVerifyHandler(svc).Handle(t.Context())

	require.NoError(t, err)
	assert.Equal(t, "b-1", report.BuildID)
}

func TestHistoryHandler_Handle(t *testing.T) {
	history := &mocks.BuildHistory{Builds: []entities.Build{{ID: "a"}, {ID: "b"}}}
	svc := services.NewBuildService(&mocks.DefinitionSource{}, &mocks.TableStore{}, history, testutil.NewTestLogger(t))

	result, err := NewHistoryHandler(svc).Handle(t.Context(), 1)

	require.NoError(t, err)
	require.Len(t, result.Builds, 1)
	assert.Equal(t, "b", result.Builds[0].ID)
	assert.Equal(t, 2, result.Total)
}

func TestHistoryHandler_HandleShow(t *testing.T) {
	history := &mocks.BuildHistory{Builds: []entities.Build{{ID: "9b1f0c2e", FullCount: 5}}}
	svc := services.NewBuildService(&mocks.DefinitionSource{}, &mocks.TableStore{}, history, testutil.NewTestLogger(t))

	build, err := NewHistoryHandler(svc).HandleShow(t.Context(), "9b1f")

	require.NoError(t, err)
	assert.Equal(t, "9b1f0c2e", build.ID)
	assert.Equal(t, 5, build.FullCount)

	_, err = NewHistoryHandler(svc).HandleShow(t.Context(), "zz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "build not found")
}
