package api

import (
	"encoding/json"
	"testing"

	"github.com/phrazzld/shelf-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullableDate(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantSet   bool
		wantDate  string
		wantError bool
	}{
		{name: "absent", body: `{}`},
		{name: "null", body: `{"birth_date": null}`, wantSet: true},
		{name: "empty string", body: `{"birth_date": ""}`, wantSet: true},
		{name: "valid", body: `{"birth_date": "2001-02-03"}`, wantSet: true, wantDate: "2001-02-03"},
		{name: "invalid", body: `{"birth_date": "2001-13-40"}`, wantSet: true, wantError: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var req UserPatchRequest
			require.NoError(t, json.Unmarshal([]byte(tc.body), &req))
			assert.Equal(t, tc.wantSet, req.BirthDate.Set)

			ve := &domain.ValidationError{}
			got := req.BirthDate.Parse("birth_date", ve)

			if tc.wantError {
				assert.Nil(t, got)
				assert.Equal(t, []string{MsgDateFormat}, ve.Fields["birth_date"])
				return
			}
			assert.False(t, ve.HasErrors())
			if tc.wantDate == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tc.wantDate, got.Format(domain.DateLayout))
		})
	}
}

func TestNullableDateRejectsNonString(t *testing.T) {
	var req UserPatchRequest
	assert.Error(t, json.Unmarshal([]byte(`{"birth_date": 20010203}`), &req))
}

func TestUserResponseOmitsSecrets(t *testing.T) {
	user, err := domain.NewUser("secret@example.com", "hunter2-hunter2")
	require.NoError(t, err)
	user.HashedPassword = "$2a$10$abcdefghijklmnopqrstuv"

	data, err := json.Marshal(userToResponse(user))
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.ElementsMatch(t,
		[]string{"id", "email", "first_name", "last_name", "birth_date", "image"},
		keys(fields))
	assert.NotContains(t, string(data), "hunter2")
	assert.NotContains(t, string(data), "$2a$")
}

func keys(m map[string]interface{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
