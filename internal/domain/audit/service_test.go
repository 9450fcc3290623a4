package audit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	entries []Entry
	err     error
}

func (r *fakeRepo) Create(ctx context.Context, entry *Entry) error {
	if r.err != nil {
		return r.err
	}
	entry.ID = uint(len(r.entries) + 1)
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeRepo) List(ctx context.Context, filter ListFilter) ([]Entry, int64, error) {
	return r.entries, int64(len(r.entries)), nil
}

func TestRecordStoresDetails(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, nil)

	svc.Record(context.Background(), 1, ActionPharmacyRejected, EntityPharmacy, 7, map[string]any{"name": "Al Shifa"})

	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]
	require.NotNil(t, entry.ActorID)
	assert.EqualValues(t, 1, *entry.ActorID)
	require.NotNil(t, entry.EntityID)
	assert.EqualValues(t, 7, *entry.EntityID)

	var details map[string]any
	require.NoError(t, json.Unmarshal(entry.Details, &details))
	assert.Equal(t, "Al Shifa", details["name"])
}

func TestRecordWithoutIDsAndDetails(t *testing.T) {
	repo := &fakeRepo{}
	NewService(repo, nil).Record(context.Background(), 0, ActionRotationGenerated, EntitySchedule, 0, nil)

	require.Len(t, repo.entries, 1)
	assert.Nil(t, repo.entries[0].ActorID)
	assert.Nil(t, repo.entries[0].EntityID)
	assert.JSONEq(t, `{}`, string(repo.entries[0].Details))
}

func TestRecordSwallowsWriteErrors(t *testing.T) {
	repo := &fakeRepo{err: errors.New("db down")}
	assert.NotPanics(t, func() {
		NewService(repo, nil).Record(context.Background(), 1, ActionUserDeleted, EntityUser, 2, nil)
	})
}
