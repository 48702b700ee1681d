// internal/application/session/usecase_test.go
package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nftdom "bulkminter/internal/domain/nft"
	sessdom "bulkminter/internal/domain/session"
)

type fakeSessions struct {
	saved map[string]*sessdom.MintSession
	fail  bool
}

func (f *fakeSessions) Get(_ context.Context, id string) (*sessdom.MintSession, error) {
	s, ok := f.saved[id]
	if !ok {
		return nil, sessdom.ErrNotFound
	}
	return s, nil
}

func (f *fakeSessions) Save(_ context.Context, s *sessdom.MintSession) error {
	if f.fail {
		return errors.New("firestore down")
	}
	if f.saved == nil {
		f.saved = map[string]*sessdom.MintSession{}
	}
	f.saved[s.ID] = s
	return nil
}

func TestUsecase_Create(t *testing.T) {
	repo := &fakeSessions{}
	u := NewUsecase(repo)

	assets := []nftdom.AssetRef{
		{URI: "https://storage.googleapis.com/b/a.png", Type: "image/png", Name: "a.png"},
		{URI: "https://storage.googleapis.com/b/b.mp4", Type: "video/mp4", Name: "b.mp4"},
	}

	s, err := u.Create(context.Background(), "ownerWa11et1111111111111111111111111111111", assets)
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Len(t, s.Items, 2)
	assert.Equal(t, sessdom.PhaseDraft, s.Phase)

	// 保存済みであること
	got, err := u.Get(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
}

func TestUsecase_Create_InvalidInput(t *testing.T) {
	u := NewUsecase(&fakeSessions{})

	_, err := u.Create(context.Background(), "", []nftdom.AssetRef{{Name: "a.png"}})
	assert.ErrorIs(t, err, sessdom.ErrInvalidOwner)

	_, err = u.Create(context.Background(), "ownerWa11et1111111111111111111111111111111", nil)
	assert.ErrorIs(t, err, sessdom.ErrNoFiles)
}

func TestUsecase_Create_SaveFailure(t *testing.T) {
	u := NewUsecase(&fakeSessions{fail: true})

	_, err := u.Create(context.Background(), "ownerWa11et1111111111111111111111111111111",
		[]nftdom.AssetRef{{URI: "https://example.com/a.png", Name: "a.png"}})
	assert.Error(t, err)
}

func TestUsecase_Get_NotFound(t *testing.T) {
	u := NewUsecase(&fakeSessions{})
	_, err := u.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, sessdom.ErrNotFound)
}
