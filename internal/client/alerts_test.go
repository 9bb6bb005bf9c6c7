package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertsClient_GetTriggers(t *testing.T) {
	t.Parallel()
	t.Run("lists triggers", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/api/alerttrigger/S60442", func(writer http.ResponseWriter, request *http.Request) {
			assert.Empty(t, request.URL.Query().Get("lastChanged"))
			_, _ = writer.Write([]byte(`[
				{"key":"T1","name":"Comm loss","enableBool":true,"priority":1},
				{"key":"T2","name":"Low production","enableBool":false,"priority":3}
			]`))
		})

		apiClient := newTestClient(t, mux)

		triggers, err := apiClient.Alerts().GetTriggers(context.Background(), "S60442", "")
		require.NoError(t, err)
		require.Len(t, triggers, 2)
		assert.Equal(t, "Comm loss", triggers[0].Name)
		assert.True(t, triggers[0].Enabled)
		assert.Equal(t, 3, triggers[1].Priority)
	})

	t.Run("lastChanged filter", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/api/alerttrigger/S60442", func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "2026-01-01T00:00:00", request.URL.Query().Get("lastChanged"))
			_, _ = writer.Write([]byte(`[]`))
		})

		apiClient := newTestClient(t, mux)

		_, err := apiClient.Alerts().GetTriggers(context.Background(), "S60442", "2026-01-01T00:00:00")
		require.NoError(t, err)
	})

	t.Run("empty body maps to nil", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/api/alerttrigger/S60442", func(writer http.ResponseWriter, request *http.Request) {
			_, _ = writer.Write([]byte("null"))
		})

		apiClient := newTestClient(t, mux)

		triggers, err := apiClient.Alerts().GetTriggers(context.Background(), "S60442", "")
		require.NoError(t, err)
		assert.Nil(t, triggers)
	})
}

func TestAlertsClient_UpdateTriggers(t *testing.T) {
	t.Parallel()
	t.Run("writes the full trigger array", func(t *testing.T) {
		t.Parallel()

		var putBody atomic.Value

		mux := http.NewServeMux()
		mux.HandleFunc("/api/alerttrigger/S60442", func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, http.MethodPut, request.Method)

			var body []map[string]interface{}

			require.NoError(t, json.NewDecoder(request.Body).Decode(&body))
			putBody.Store(body)
			_, _ = writer.Write([]byte(`{"updated":2}`))
		})

		apiClient := newTestClient(t, mux)

		result := apiClient.Alerts().UpdateTriggers(context.Background(), "S60442", []map[string]interface{}{
			{"key": "T1", "enableBool": false},
			{"key": "T2", "enableBool": true},
		})

		require.True(t, result.Success)
		assert.Equal(t, 2.0, result.PutResponse["updated"])

		sent, ok := putBody.Load().([]map[string]interface{})
		require.True(t, ok)
		require.Len(t, sent, 2)
		assert.Equal(t, "T1", sent[0]["key"])
	})

	t.Run("failure collapses into the result", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/api/alerttrigger/S60442", func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusForbidden)
		})

		apiClient := newTestClient(t, mux)

		result := apiClient.Alerts().UpdateTriggers(context.Background(), "S60442", []map[string]interface{}{
			{"key": "T1"},
		})

		require.False(t, result.Success)
		assert.Contains(t, result.ErrorMessage, "PUT request failed")
	})
}

func TestAlertsClient_AddTrigger(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/alerttrigger/S60442", func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodPost, request.Method)
		_, _ = writer.Write([]byte(`{"key":"T9"}`))
	})

	apiClient := newTestClient(t, mux)

	created, err := apiClient.Alerts().AddTrigger(context.Background(), "S60442", map[string]interface{}{
		"name": "New rule",
	})
	require.NoError(t, err)
	assert.Equal(t, "T9", created["key"])
}

func TestAlertsClient_DeleteTriggers(t *testing.T) {
	t.Parallel()

	var deleted atomic.Bool

	mux := http.NewServeMux()
	mux.HandleFunc("/api/alerttrigger/H100", func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodDelete, request.Method)
		deleted.Store(true)
		_, _ = writer.Write([]byte("{}"))
	})

	apiClient := newTestClient(t, mux)

	require.NoError(t, apiClient.Alerts().DeleteTriggers(context.Background(), "H100"))
	assert.True(t, deleted.Load())
}

func TestAlertsClient_GetSummary(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/view/activealerts/activesummary/C8458", func(writer http.ResponseWriter, request *http.Request) {
		_, _ = writer.Write([]byte(`{
			"key": "C8458",
			"activeCount": 2,
			"alerts": [
				{"hardwareKey": "H100", "severity": 3, "message": "Comm loss"},
				{"hardwareKey": "H200", "severity": 1, "message": "Low production"}
			]
		}`))
	})

	apiClient := newTestClient(t, mux)

	summary, err := apiClient.Alerts().GetSummary(context.Background(), "C8458")
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, 2, summary.ActiveCount)
	assert.Equal(t, 3, summary.SeverityLevel())
	assert.Equal(t, []string{"H100", "H200"}, summary.HardwareWithAlerts())
}
