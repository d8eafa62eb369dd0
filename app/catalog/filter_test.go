package catalog

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weavelink/weavelink/models"
)

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected Filter
		wantErr  bool
	}{
		{
			name:     "No parameters",
			query:    "",
			expected: Filter{Category: models.CategoryAll},
		},
		{
			name:     "All is the same as no category",
			query:    "category=All&q=silk",
			expected: Filter{Query: "silk", Category: models.CategoryAll},
		},
		{
			name:     "Known category",
			query:    "category=Table+Runners",
			expected: Filter{Category: models.CategoryTableRunners},
		},
		{
			name:    "Unknown category",
			query:   "category=Carpets",
			wantErr: true,
		},
		{
			name:    "Category is case sensitive",
			query:   "category=sarees",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			f, err := ParseFilter(values)
			if tt.wantErr {
				assert.ErrorIs(t, err, models.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, f)
		})
	}
}

func TestFilterApply(t *testing.T) {
	products := sampleProducts()

	tests := []struct {
		name     string
		filter   Filter
		expected []string
	}{
		{
			name:     "Empty filter keeps everything",
			filter:   Filter{Category: models.CategoryAll},
			expected: []string{"p1", "p2", "p3", "p4"},
		},
		{
			name:     "Zero value keeps everything",
			filter:   Filter{},
			expected: []string{"p1", "p2", "p3", "p4"},
		},
		{
			name:     "Name match ignores case",
			filter:   Filter{Query: "SHAWL"},
			expected: []string{"p2", "p3"},
		},
		{
			name:     "Description match",
			filter:   Filter{Query: "block printed"},
			expected: []string{"p4"},
		},
		{
			name:     "Category only",
			filter:   Filter{Category: models.CategoryShawls},
			expected: []string{"p2", "p3"},
		},
		{
			name:     "Query and category must both hold",
			filter:   Filter{Query: "wool", Category: models.CategoryShawls},
			expected: []string{"p3"},
		},
		{
			name:     "Query matching another category is excluded",
			filter:   Filter{Query: "silk", Category: models.CategoryShawls},
			expected: []string{},
		},
		{
			name:     "No match",
			filter:   Filter{Query: "carpet"},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Apply(products)
			assert.Equal(t, tt.expected, ids(got))
		})
	}
}

func TestFilterApplyMatchesBruteForce(t *testing.T) {
	products := sampleProducts()
	queries := []string{"", "s", "SAREE", "wrap", "zari", "x"}
	cats := append(models.Categories(), models.CategoryAll)

	for _, q := range queries {
		for _, c := range cats {
			f := Filter{Query: q, Category: c}

			var want []string
			for _, p := range products {
				if c != models.CategoryAll && p.Category != c {
					continue
				}
				lq := strings.ToLower(q)
				if !strings.Contains(strings.ToLower(p.Name), lq) &&
					!strings.Contains(strings.ToLower(p.Description), lq) {
					continue
				}
				want = append(want, p.ID)
			}
			if want == nil {
				want = []string{}
			}

			got := f.Apply(products)
			assert.Equal(t, want, ids(got), "query=%q category=%q", q, c)
			// Applying twice changes nothing.
			assert.Equal(t, ids(got), ids(f.Apply(got)), "query=%q category=%q", q, c)
		}
	}
}

func TestFilterApplyDoesNotModifyInput(t *testing.T) {
	products := sampleProducts()
	before := ids(products)

	_ = Filter{Query: "shawl"}.Apply(products)

	assert.Equal(t, before, ids(products))
}

func TestFilterActive(t *testing.T) {
	assert.False(t, Filter{}.Active())
	assert.False(t, Filter{Category: models.CategoryAll}.Active())
	assert.True(t, Filter{Query: "silk"}.Active())
	assert.True(t, Filter{Category: models.CategorySarees}.Active())
}

func ids(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}
