package dto

import (
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/alphabot-ai/remarks/internal/apperr"
	"github.com/alphabot-ai/remarks/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperr.KindValidation, appErr.Kind)
	return appErr.Fields
}

func TestNewCommentDetails(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	c := model.Comment{ID: 4, Text: "hi", AuthorName: "Alice", CreatedAt: created, UpdatedAt: created.Add(time.Minute)}

	d := NewCommentDetails(c)
	assert.Equal(t, CommentDetails{
		ID:             4,
		Comment:        "hi",
		Author:         "Alice",
		PostedAt:       "2024-03-01 10:30:00",
		LastModifiedAt: "2024-03-01 10:31:00",
	}, d)
}

func TestCommentInput(t *testing.T) {
	in := CommentInput{Comment: "  hello  "}
	require.NoError(t, in.Normalize())
	assert.Equal(t, "hello", in.Comment)

	in = CommentInput{Comment: " \n\t "}
	assert.Contains(t, fieldsOf(t, in.Normalize()), "comment")
}

func TestRegisterInput(t *testing.T) {
	in := RegisterInput{Name: " Alice ", Email: " Alice@Example.com ", Password: "password1"}
	require.NoError(t, in.Normalize())
	assert.Equal(t, "Alice", in.Name)
	assert.Equal(t, "alice@example.com", in.Email)

	in = RegisterInput{Name: "", Email: "not-an-email", Password: "short"}
	fields := fieldsOf(t, in.Normalize())
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")

	in = RegisterInput{Name: "Bob", Email: "Bob <bob@example.com>", Password: "password1"}
	assert.Contains(t, fieldsOf(t, in.Normalize()), "email")
}

func TestChangePasswordInput(t *testing.T) {
	in := ChangePasswordInput{CurrentPassword: "", NewPassword: "1234"}
	fields := fieldsOf(t, in.Normalize())
	assert.Contains(t, fields, "current_password")
	assert.Contains(t, fields, "new_password")
}

func TestDeleteAllInputAccepted(t *testing.T) {
	accepted := []string{`{"confirm":true}`, `{"confirm":1}`, `{"confirm":"yes"}`, `{"confirm":"on"}`, `{"confirm":"true"}`, `{"confirm":"1"}`}
	for _, body := range accepted {
		var in DeleteAllInput
		require.NoError(t, json.Unmarshal([]byte(body), &in))
		assert.True(t, in.Accepted(), body)
		assert.NoError(t, in.Validate())
	}

	rejected := []string{`{}`, `{"confirm":false}`, `{"confirm":0}`, `{"confirm":"no"}`, `{"confirm":null}`}
	for _, body := range rejected {
		var in DeleteAllInput
		require.NoError(t, json.Unmarshal([]byte(body), &in))
		assert.False(t, in.Accepted(), body)
		assert.True(t, apperr.Is(in.Validate(), apperr.KindValidation))
	}
}

func TestListQueryNormalize(t *testing.T) {
	q := ListQuery{}
	require.NoError(t, q.Normalize())
	assert.Equal(t, ListQuery{Page: 1, PerPage: 15}, q)

	q = ListQuery{Page: -1, PerPage: 51}
	fields := fieldsOf(t, q.Normalize())
	assert.Contains(t, fields, "page")
	assert.Contains(t, fields, "perPage")
}

func TestParseListQuery(t *testing.T) {
	q, err := ParseListQuery(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, ListQuery{Page: 1, PerPage: 15}, q)

	q, err = ParseListQuery(url.Values{"page": {"3"}, "perPage": {"5"}, "filter": {"bob"}})
	require.NoError(t, err)
	assert.Equal(t, ListQuery{Page: 3, PerPage: 5, Filter: "bob"}, q)

	for _, values := range []url.Values{
		{"page": {"0"}},
		{"page": {"abc"}},
		{"perPage": {"0"}},
		{"perPage": {"51"}},
	} {
		_, err := ParseListQuery(values)
		assert.True(t, apperr.Is(err, apperr.KindValidation), values.Encode())
	}
}

func TestNewPageMeta(t *testing.T) {
	tests := []struct {
		name                 string
		total, page, perPage int
		first, last          bool
	}{
		{"empty", 0, 1, 15, true, true},
		{"single page", 3, 1, 15, true, true},
		{"first of three", 31, 1, 15, true, false},
		{"middle", 31, 2, 15, false, false},
		{"last", 31, 3, 15, false, true},
		{"past the end", 31, 4, 15, false, false},
		{"exact multiple", 30, 2, 15, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPage[int](nil, tt.total, tt.page, tt.perPage)
			assert.NotNil(t, p.Data)
			assert.Equal(t, tt.first, p.Meta.IsFirstPage)
			assert.Equal(t, tt.last, p.Meta.IsLastPage)
			assert.Equal(t, tt.total, p.Meta.Total)
			assert.Equal(t, tt.page+1, p.Meta.NextPage)
			assert.Equal(t, tt.page-1, p.Meta.PreviousPage)
		})
	}
}
