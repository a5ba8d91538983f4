package generation

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkravtsov/contentgen/internal/apperr"
	"github.com/mkravtsov/contentgen/internal/models"
	"github.com/mkravtsov/contentgen/internal/prompt"
	"github.com/mkravtsov/contentgen/internal/subject"
)

type fakeVersions struct {
	versions map[uuid.UUID]*models.PromptVersion
}

func (f *fakeVersions) GetVersion(_ context.Context, id uuid.UUID) (*models.PromptVersion, error) {
	v, ok := f.versions[id]
	if !ok {
		return nil, apperr.NotFound("prompt version", id.String())
	}
	return v, nil
}

type memoryContentRepo struct {
	byID   map[uuid.UUID]*models.GeneratedContent
	byTask map[uuid.UUID]uuid.UUID
}

func newMemoryContentRepo() *memoryContentRepo {
	return &memoryContentRepo{
		byID:   make(map[uuid.UUID]*models.GeneratedContent),
		byTask: make(map[uuid.UUID]uuid.UUID),
	}
}

func (r *memoryContentRepo) Create(_ context.Context, gc *models.GeneratedContent) error {
	gc.ID = uuid.New()
	gc.CreatedAt = time.Now()
	cp := *gc
	r.byID[gc.ID] = &cp
	r.byTask[gc.TaskID] = gc.ID
	return nil
}

func (r *memoryContentRepo) UpsertByTask(_ context.Context, gc *models.GeneratedContent) error {
	if id, ok := r.byTask[gc.TaskID]; ok {
		existing := r.byID[id]
		existing.PromptVersionID = gc.PromptVersionID
		existing.GeneratedData = gc.GeneratedData
		existing.Status = gc.Status
		gc.ID = existing.ID
		gc.CreatedAt = existing.CreatedAt
		return nil
	}
	gc.ID = uuid.New()
	gc.CreatedAt = time.Now()
	cp := *gc
	r.byID[gc.ID] = &cp
	r.byTask[gc.TaskID] = gc.ID
	return nil
}

func (r *memoryContentRepo) Get(_ context.Context, id uuid.UUID) (*models.GeneratedContent, error) {
	gc, ok := r.byID[id]
	if !ok {
		return nil, apperr.NotFound("generated content", id.String())
	}
	cp := *gc
	return &cp, nil
}

func (r *memoryContentRepo) List(_ context.Context, f Filter) ([]models.GeneratedContent, error) {
	var out []models.GeneratedContent
	for _, gc := range r.byID {
		if f.Status != "" && gc.Status != f.Status {
			continue
		}
		out = append(out, *gc)
	}
	return out, nil
}

func (r *memoryContentRepo) CountByVersion(_ context.Context, versionID uuid.UUID) (int64, error) {
	var n int64
	for _, gc := range r.byID {
		if gc.PromptVersionID != nil && *gc.PromptVersionID == versionID {
			n++
		}
	}
	return n, nil
}

func (r *memoryContentRepo) UsageByVersion(_ context.Context, versionID uuid.UUID) (prompt.UsageRow, error) {
	var row prompt.UsageRow
	for _, gc := range r.byID {
		if gc.PromptVersionID == nil || *gc.PromptVersionID != versionID {
			continue
		}
		row.Generated++
		switch gc.Status {
		case models.StatusSuccess:
			row.Success++
		case models.StatusFailure:
			row.Failure++
		case models.StatusPending, models.StatusProcessing:
			row.Pending++
		case models.StatusReviewed:
			row.Reviewed++
		}
	}
	return row, nil
}

func (r *memoryContentRepo) Review(_ context.Context, id uuid.UUID, rating int, reviewedAt time.Time) error {
	gc, ok := r.byID[id]
	if !ok {
		return apperr.NotFound("generated content", id.String())
	}
	gc.Rating = &rating
	gc.ReviewedAt = &reviewedAt
	gc.Status = models.StatusReviewed
	return nil
}

type recordingInvalidator struct {
	calls []uuid.UUID
}

func (r *recordingInvalidator) Invalidate(_ context.Context, versionID uuid.UUID) {
	r.calls = append(r.calls, versionID)
}

type staticSubjectResolver struct {
	subjects map[int64]*subject.Subject
}

func (f *staticSubjectResolver) Resolve(_ context.Context, id int64) (*subject.Subject, error) {
	s, ok := f.subjects[id]
	if !ok {
		return nil, apperr.NotFound("product", "?")
	}
	return s, nil
}

func testRegistry() *subject.Registry {
	reg := subject.NewRegistry()
	reg.Register(subject.TypeProduct, &staticSubjectResolver{subjects: map[int64]*subject.Subject{
		42: {Type: subject.TypeProduct, ID: 42, Name: "Чайник", Category: "Кухня"},
	}})
	return reg
}

func newTestLinker(t *testing.T) (*Linker, *fakeVersions, *memoryContentRepo, *recordingInvalidator, uuid.UUID) {
	t.Helper()
	versionID := uuid.New()
	versions := &fakeVersions{versions: map[uuid.UUID]*models.PromptVersion{
		versionID: {ID: versionID, PromptID: uuid.New(), VersionNumber: 3, Content: "prompt body"},
	}}
	repo := newMemoryContentRepo()
	inv := &recordingInvalidator{}
	return NewLinker(versions, testRegistry(), repo, inv), versions, repo, inv, versionID
}

func completedTask(versionID uuid.UUID) *CompletedTask {
	return &CompletedTask{
		ID:     uuid.New(),
		Status: TaskStatusSuccess,
		Context: map[string]interface{}{
			"prompt_version_id": versionID.String(),
			"subject_type":      subject.TypeProduct,
			"subject_id":        float64(42),
		},
		Result: json.RawMessage(`{"title":"ok"}`),
	}
}

func TestLinkResultStoresRow(t *testing.T) {
	linker, _, repo, inv, versionID := newTestLinker(t)

	task := completedTask(versionID)
	gc, err := linker.LinkResult(context.Background(), task)
	require.NoError(t, err)
	require.NotNil(t, gc)

	assert.Equal(t, task.ID, gc.TaskID)
	require.NotNil(t, gc.PromptVersionID)
	assert.Equal(t, versionID, *gc.PromptVersionID)
	assert.Equal(t, subject.TypeProduct, gc.SubjectType)
	assert.Equal(t, int64(42), gc.SubjectID)
	assert.Equal(t, models.StatusSuccess, gc.Status)
	assert.JSONEq(t, `{"title":"ok"}`, string(gc.GeneratedData))

	stored, err := repo.Get(context.Background(), gc.ID)
	require.NoError(t, err)
	assert.Equal(t, gc.TaskID, stored.TaskID)
	assert.Equal(t, []uuid.UUID{versionID}, inv.calls)
}

func TestLinkResultIdempotentPerTask(t *testing.T) {
	linker, _, repo, _, versionID := newTestLinker(t)

	task := completedTask(versionID)
	first, err := linker.LinkResult(context.Background(), task)
	require.NoError(t, err)

	task.Result = json.RawMessage(`{"title":"retried"}`)
	second, err := linker.LinkResult(context.Background(), task)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.byID, 1)

	stored, err := repo.Get(context.Background(), first.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"retried"}`, string(stored.GeneratedData))
}

func TestLinkResultMissingVersionIDSkips(t *testing.T) {
	linker, _, repo, inv, versionID := newTestLinker(t)

	task := completedTask(versionID)
	delete(task.Context, "prompt_version_id")

	gc, err := linker.LinkResult(context.Background(), task)
	require.NoError(t, err)
	assert.Nil(t, gc)
	assert.Empty(t, repo.byID)
	assert.Empty(t, inv.calls)
}

func TestLinkResultMalformedVersionIDSkips(t *testing.T) {
	linker, _, repo, _, versionID := newTestLinker(t)

	task := completedTask(versionID)
	task.Context["prompt_version_id"] = "not-a-uuid"

	gc, err := linker.LinkResult(context.Background(), task)
	require.NoError(t, err)
	assert.Nil(t, gc)
	assert.Empty(t, repo.byID)
}

func TestLinkResultUnknownVersionSkips(t *testing.T) {
	linker, _, repo, _, _ := newTestLinker(t)

	task := completedTask(uuid.New())
	gc, err := linker.LinkResult(context.Background(), task)
	require.NoError(t, err)
	assert.Nil(t, gc)
	assert.Empty(t, repo.byID)
}

func TestLinkResultUnknownSubjectTypeSkips(t *testing.T) {
	linker, _, repo, _, versionID := newTestLinker(t)

	task := completedTask(versionID)
	task.Context["subject_type"] = "warehouse"

	gc, err := linker.LinkResult(context.Background(), task)
	require.NoError(t, err)
	assert.Nil(t, gc)
	assert.Empty(t, repo.byID)
}

func TestLinkResultMissingSubjectSkips(t *testing.T) {
	linker, _, repo, _, versionID := newTestLinker(t)

	task := completedTask(versionID)
	delete(task.Context, "subject_id")

	gc, err := linker.LinkResult(context.Background(), task)
	require.NoError(t, err)
	assert.Nil(t, gc)
	assert.Empty(t, repo.byID)
}

func TestLinkResultFailureStatus(t *testing.T) {
	linker, _, _, _, versionID := newTestLinker(t)

	task := completedTask(versionID)
	task.Status = TaskStatusFailure
	task.Result = json.RawMessage(`{"error":"provider timeout"}`)

	gc, err := linker.LinkResult(context.Background(), task)
	require.NoError(t, err)
	require.NotNil(t, gc)
	assert.Equal(t, models.StatusFailure, gc.Status)
}

func TestMapTaskStatus(t *testing.T) {
	assert.Equal(t, models.StatusSuccess, MapTaskStatus(TaskStatusSuccess))
	assert.Equal(t, models.StatusFailure, MapTaskStatus(TaskStatusFailure))
	assert.Equal(t, models.StatusProcessing, MapTaskStatus(TaskStatusPending))
	assert.Equal(t, models.StatusProcessing, MapTaskStatus(TaskStatusPreprocessing))
	assert.Equal(t, models.StatusProcessing, MapTaskStatus(TaskStatusPostprocessing))
	assert.Equal(t, models.StatusPending, MapTaskStatus("SOMETHING_ELSE"))
}
