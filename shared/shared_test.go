package shared_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"niseko/shared"
	cacheMocks "niseko/shared/cache/mocks"
	"niseko/shared/constant"
	"niseko/shared/dto"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func boolPtr(b bool) *bool { return &b }

func TestConvertStringToBool(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *bool
	}{
		{name: "empty string returns nil", input: "", expected: nil},
		{name: "true", input: "true", expected: boolPtr(true)},
		{name: "false", input: "false", expected: boolPtr(false)},
		{name: "numeric one", input: "1", expected: boolPtr(true)},
		{name: "upper case", input: "FALSE", expected: boolPtr(false)},
		{name: "invalid", input: "maybe", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shared.ConvertStringToBool(tt.input))
		})
	}
}

func TestConvertStringToInt(t *testing.T) {
	assert.Equal(t, 2, shared.ConvertStringToInt("2", 1))
	assert.Equal(t, 3, shared.ConvertStringToInt(" 3 ", 1))
	assert.Equal(t, 1, shared.ConvertStringToInt("two adults", 1))
	assert.Equal(t, 0, shared.ConvertStringToInt("", 0))
}

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		limit    int
		expected int
	}{
		{name: "zero total returns 1", total: 0, limit: 10, expected: 1},
		{name: "zero limit returns 1", total: 100, limit: 0, expected: 1},
		{name: "negative limit returns 1", total: 100, limit: -5, expected: 1},
		{name: "exact division", total: 100, limit: 10, expected: 10},
		{name: "division with remainder", total: 101, limit: 10, expected: 11},
		{name: "limit greater than total", total: 5, limit: 10, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shared.CalculateTotalPage(tt.total, tt.limit))
		})
	}
}

func TestTransformFields(t *testing.T) {
	type update struct {
		Title   string `db:"title"`
		Status  string `db:"status"`
		Ignored string `db:"-"`
		NoTag   string
	}

	result := shared.TransformFields(update{Title: "Airport pickup", Ignored: "x", NoTag: "y"}, "staff-1")

	assert.Equal(t, "Airport pickup", result["title"])
	assert.NotContains(t, result, "status")
	assert.NotContains(t, result, "-")
	assert.Equal(t, "staff-1", result[constant.FieldModifiedBy])
	assert.IsType(t, time.Time{}, result[constant.FieldModifiedAt])
	assert.Len(t, result, 3)
}

func TestFilterByID(t *testing.T) {
	expected := dto.FilterGroup{
		Filters: []any{
			dto.Filter{Field: "guest_id", Value: "g-1", Operator: dto.FilterOperatorEq, Table: "guest_registrations"},
		},
	}

	assert.Equal(t, expected, shared.FilterByID("g-1", "guest_id", "guest_registrations"))
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "guest:session:g-1", shared.BuildCacheKey("guest:session", "g-1"))
	assert.Equal(t, "rooms", shared.BuildCacheKey("rooms"))
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 1, Limit: 10, SortBy: "created_at", SortDir: dto.SortDirDesc}
	filter := func(name string) dto.FilterGroup {
		return dto.FilterGroup{
			Operator: dto.FilterGroupOperatorAnd,
			Filters: []any{
				dto.Filter{Field: "name", Value: name, Operator: dto.FilterOperatorLike},
				dto.Filter{Field: "status", Value: "checked_in", Operator: dto.FilterOperatorEq},
			},
		}
	}

	first := shared.BuildCacheKeyWithQuery("guest:gets", params, filter("tanaka"))
	second := shared.BuildCacheKeyWithQuery("guest:gets", params, filter("tanaka"))
	other := shared.BuildCacheKeyWithQuery("guest:gets", params, filter("suzuki"))

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
	assert.Contains(t, first, "guest:gets:1:10:created_at:DESC:")

	params.Page = 2
	assert.NotEqual(t, first, shared.BuildCacheKeyWithQuery("guest:gets", params, filter("tanaka")))
}

func TestInvalidateCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	mockCache.EXPECT().Clear(gomock.Any(), "guest:gets*").Return(nil)
	mockCache.EXPECT().Clear(gomock.Any(), "guest:count*").Return(errors.New("redis down"))

	shared.InvalidateCaches(context.Background(), mockCache, "guest:gets")
	shared.InvalidateCaches(context.Background(), mockCache, "guest:count")
}

func TestIsUniqueViolation(t *testing.T) {
	unique := &pq.Error{Code: pq.ErrorCode(constant.PqErrorCodeUniqueViolation)}
	foreignKey := &pq.Error{Code: pq.ErrorCode(constant.PqErrorCodeFkViolation)}

	assert.True(t, shared.IsUniqueViolation(unique))
	assert.True(t, shared.IsUniqueViolation(fmt.Errorf("insert: %w", unique)))
	assert.False(t, shared.IsUniqueViolation(foreignKey))
	assert.False(t, shared.IsUniqueViolation(errors.New("boom")))
	assert.False(t, shared.IsUniqueViolation(nil))
}
