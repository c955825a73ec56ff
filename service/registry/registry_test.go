package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/ossim/model/process"
	"github.com/viant/ossim/service/dao"
)

func TestRegistry(t *testing.T) {
	ctx := context.Background()
	testCases := []struct {
		description string
		records     process.Records
		expectErr   error
		expectIDs   []int
	}{
		{
			description: "keeps registration order",
			records:     process.Records{process.New(3, 0, 1, 0), process.New(1, 0, 2, 0), process.New(2, 5, 1, 0)},
			expectIDs:   []int{3, 1, 2},
		},
		{
			description: "rejects duplicates",
			records:     process.Records{process.New(1, 0, 1, 0), process.New(1, 2, 1, 0)},
			expectErr:   process.ErrDuplicateID,
		},
		{
			description: "rejects negative burst",
			records:     process.Records{process.New(1, 0, -3, 0)},
			expectErr:   process.ErrInvalidRecord,
		},
		{
			description: "empty set",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			srv := New()
			err := srv.Load(ctx, tc.records)
			if tc.expectErr != nil {
				assert.ErrorIs(t, err, tc.expectErr)
				return
			}
			require.NoError(t, err)
			records, err := srv.Records(ctx)
			require.NoError(t, err)
			var ids []int
			for _, r := range records {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tc.expectIDs, ids)
			count, err := srv.Len(ctx)
			require.NoError(t, err)
			assert.Equal(t, len(tc.expectIDs), count)
		})
	}
}

func TestRegistry_CopiesAreIsolated(t *testing.T) {
	ctx := context.Background()
	srv := New()
	require.NoError(t, srv.Add(ctx, process.New(0, 0, 4, 1)))

	records, err := srv.Records(ctx)
	require.NoError(t, err)
	records[0].Burst = 99

	stored, err := srv.Get(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, stored.Burst)

	assert.ErrorIs(t, srv.Add(ctx, process.New(0, 1, 1, 1)), process.ErrDuplicateID)
	_, err = srv.Get(ctx, 7)
	assert.ErrorIs(t, err, dao.ErrNotFound)
}
