package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	ServiceID int64  `json:"serviceId" validate:"required,gt=0"`
	Date      string `json:"date" validate:"required"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"serviceId": 5, "date": "2026-06-10"}`, false},
		{"missing field", `{"serviceId": 5}`, true},
		{"non-positive id", `{"serviceId": 0, "date": "2026-06-10"}`, true},
		{"unknown field", `{"serviceId": 5, "date": "2026-06-10", "extra": 1}`, true},
		{"malformed", `{"serviceId":`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			var dst sampleRequest
			err := DecodeJSON(r, &dst)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(5), dst.ServiceID)
		})
	}
}

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondConflict(rec, "занято")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusConflict, body.Code)
	assert.Equal(t, "занято", body.Message)
}
