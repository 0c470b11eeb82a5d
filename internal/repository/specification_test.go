package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginateSkipMath(t *testing.T) {
	tests := []struct {
		name       string
		pageNumber int
		pageSize   int
		wantSkip   int
		wantTake   int
	}{
		{"first page yields zero skip", 1, 10, 0, 10},
		{"third page", 3, 25, 50, 25},
		{"page zero clamps to one", 0, 10, 0, 10},
		{"negative page clamps to one", -5, 10, 0, 10},
		{"negative size clamps to zero", 2, -1, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := NewSpecification().Paginate(tt.pageNumber, tt.pageSize)
			skip, take, enabled := spec.Paging()
			require.True(t, enabled)
			assert.Equal(t, tt.wantSkip, skip)
			assert.Equal(t, tt.wantTake, take)
		})
	}
}

func TestPagingDisabledByDefault(t *testing.T) {
	spec := NewSpecification().Where("author_id", OpEq, int64(7))
	_, _, enabled := spec.Paging()
	assert.False(t, enabled)
}

func TestSinglePrimaryOrderKey(t *testing.T) {
	spec := NewSpecification().
		OrderBy("title").
		OrderByDescending("created_at").
		ThenBy("id")

	order := spec.Order()
	require.Len(t, order, 2)
	assert.Equal(t, "created_at", order[0].Field)
	assert.True(t, order[0].Descending)
	assert.Equal(t, "id", order[1].Field)
	assert.False(t, order[1].Descending)
}

func TestAccessorsReturnCopies(t *testing.T) {
	spec := NewSpecification().
		Where("published", OpEq, true).
		Include("PostCategories.Category").
		OrderBy("published_at")

	conds := spec.Conditions()
	conds[0].Field = "mutated"
	incs := spec.Includes()
	incs[0] = "mutated"
	order := spec.Order()
	order[0].Field = "mutated"

	assert.Equal(t, "published", spec.Conditions()[0].Field)
	assert.Equal(t, "PostCategories.Category", spec.Includes()[0])
	assert.Equal(t, "published_at", spec.Order()[0].Field)
}

func TestEmptySpecificationMatchesAll(t *testing.T) {
	spec := NewSpecification()
	assert.Empty(t, spec.Conditions())
	assert.Empty(t, spec.Includes())
	assert.Empty(t, spec.Order())
	assert.False(t, spec.NoTracking())
}
