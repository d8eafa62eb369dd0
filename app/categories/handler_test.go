package categories

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/weavelink/weavelink/models"
)

// --- Mock Repository ---

type MockCategoryRepo struct {
	Counts  map[models.Category]int64
	ListErr error
}

func (m *MockCategoryRepo) CountByCategory(ctx context.Context) (map[models.Category]int64, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Counts, nil
}

// --- Tests: GET /categories ---

func TestHandleGetAll(t *testing.T) {
	testCases := []struct {
		name               string
		url                string
		mockRepoSetup      func() *MockCategoryRepo
		expectedStatusCode int
		checkResponse      func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name: "Every category in display order",
			url:  "/categories",
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{
					Counts: map[models.Category]int64{
						models.CategorySarees: 3,
						models.CategoryShawls: 2,
					},
				}
			},
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp []CategoryResponse
				err := json.NewDecoder(rec.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Len(t, resp, 9)
				assert.Equal(t, CategoryResponse{Code: "sarees", Name: "Sarees", Products: 3}, resp[0])
				assert.Equal(t, CategoryResponse{Code: "shawls", Name: "Shawls", Products: 2}, resp[2])
				assert.Equal(t, CategoryResponse{Code: "table-runners", Name: "Table Runners", Products: 0}, resp[5])
				assert.Equal(t, "Other", resp[8].Name)
			},
		},
		{
			name: "Include the All selector",
			url:  "/categories?include_all=true",
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{
					Counts: map[models.Category]int64{
						models.CategorySarees: 3,
						models.CategoryOther:  1,
					},
				}
			},
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp []CategoryResponse
				err := json.NewDecoder(rec.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Len(t, resp, 10)
				assert.Equal(t, CategoryResponse{Code: "all", Name: "All", Products: 4}, resp[0])
				assert.Equal(t, "Sarees", resp[1].Name)
			},
		},
		{
			name: "Empty store",
			url:  "/categories",
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{Counts: map[models.Category]int64{}}
			},
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp []CategoryResponse
				err := json.NewDecoder(rec.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Len(t, resp, 9)
				for _, c := range resp {
					assert.Zero(t, c.Products)
				}
			},
		},
		{
			name: "Repository error",
			url:  "/categories",
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{ListErr: errors.New("db error")}
			},
			expectedStatusCode: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Contains(t, rec.Body.String(), "failed to fetch categories")
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			mockRepo := tc.mockRepoSetup()
			handler := NewCategoryHandler(mockRepo)
			req := httptest.NewRequest("GET", tc.url, nil)
			rec := httptest.NewRecorder()

			// Act
			handler.HandleGetAll(rec, req)

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)

			if tc.checkResponse != nil {
				tc.checkResponse(t, rec)
			}
		})
	}
}
