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

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestHardwareClient_List(t *testing.T) {
	t.Parallel()
	t.Run("production summary is the first source", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/api/view/sitehardwareproduction/S60442", func(writer http.ResponseWriter, request *http.Request) {
			_, _ = writer.Write([]byte(`{
				"hardware": [
					{"key": "H100", "name": "Inverter 1", "functionCode": 1, "hid": 100, "enableBool": true, "serialNumber": "SN-1"},
					{"key": "H200", "name": "Weather Station", "functionCode": 5, "enableBool": false}
				]
			}`))
		})

		apiClient := newTestClient(t, mux)

		devices, err := apiClient.Hardware().List(context.Background(), "60442")
		require.NoError(t, err)
		require.Len(t, devices, 2)

		assert.Equal(t, "H100", devices[0].Key)
		assert.Equal(t, "Inverter 1", devices[0].Name)
		assert.Equal(t, 1, devices[0].FunctionCode)
		assert.Equal(t, 100, devices[0].HID)
		assert.True(t, devices[0].Enabled)
		assert.Equal(t, "SN-1", devices[0].SerialNumber)

		// HID falls back to the numeric key when absent.
		assert.Equal(t, 200, devices[1].HID)
		assert.False(t, devices[1].Enabled)
	})

	t.Run("node search when the summary 404s", func(t *testing.T) {
		t.Parallel()

		var bulkCalled atomic.Bool

		mux := http.NewServeMux()
		mux.HandleFunc("/api/view/sitehardwareproduction/S60442", func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusNotFound)
		})
		mux.HandleFunc("/api/node", func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, http.MethodPost, request.Method)

			var payload map[string]interface{}

			require.NoError(t, json.NewDecoder(request.Body).Decode(&payload))
			assert.Equal(t, "S60442", payload["key"])
			assert.Equal(t, "query", payload["context"])

			_, _ = writer.Write([]byte(`{
				"nodes": [
					{"kind": "site", "key": "S60442", "name": "Hilltop Solar"},
					{"kind": "hardware", "key": "H300", "name": "Inverter A", "subKind": "inverter"},
					{"kind": "hardware", "key": "H301", "name": "Met Station", "subKind": "weatherStation"}
				]
			}`))
		})
		mux.HandleFunc("/api/edit/bulkhardware/S60442", func(writer http.ResponseWriter, request *http.Request) {
			bulkCalled.Store(true)
			_, _ = writer.Write([]byte(`{"list":[]}`))
		})

		apiClient := newTestClient(t, mux)

		devices, err := apiClient.Hardware().List(context.Background(), "S60442")
		require.NoError(t, err)
		require.Len(t, devices, 2)

		assert.Equal(t, "H300", devices[0].Key)
		assert.Equal(t, 1, devices[0].FunctionCode)
		assert.Equal(t, 300, devices[0].HID)
		assert.True(t, devices[0].Enabled)

		assert.Equal(t, 5, devices[1].FunctionCode)

		// The wrapped nodes array satisfies tier two; tier three stays idle.
		assert.False(t, bulkCalled.Load())
	})

	t.Run("bulk editor when summary and search fail", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/api/view/sitehardwareproduction/S60442", func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusNotFound)
		})
		mux.HandleFunc("/api/node", func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusForbidden)
		})
		mux.HandleFunc("/api/edit/bulkhardware/S60442", func(writer http.ResponseWriter, request *http.Request) {
			_, _ = writer.Write([]byte(`{
				"list": [
					{
						"functionCode": 1,
						"rows": [
							{"hid": 400, "name": "Inverter X", "enableBool": true, "serialNumber": "SN-400"},
							{"hid": 401, "name": "Inverter Y", "enableBool": false}
						]
					},
					{
						"functionCode": 5,
						"rows": [{"hid": 500, "name": "Weather"}]
					}
				]
			}`))
		})

		apiClient := newTestClient(t, mux)

		devices, err := apiClient.Hardware().List(context.Background(), "S60442")
		require.NoError(t, err)
		require.Len(t, devices, 3)

		assert.Equal(t, "H400", devices[0].Key)
		assert.Equal(t, 1, devices[0].FunctionCode)
		assert.Equal(t, "SN-400", devices[0].SerialNumber)
		assert.False(t, devices[1].Enabled)
		assert.Equal(t, "H500", devices[2].Key)
		assert.Equal(t, 5, devices[2].FunctionCode)
		// enableBool defaults to true when the row omits it.
		assert.True(t, devices[2].Enabled)
	})

	t.Run("all sources failing yields an empty list", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/", func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusNotFound)
		})

		apiClient := newTestClient(t, mux)

		devices, err := apiClient.Hardware().List(context.Background(), "S60442")
		require.NoError(t, err)
		assert.Empty(t, devices)
		assert.NotNil(t, devices)
	})
}

func TestHardwareClient_GetDetails(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/edit/hardware/H123456", func(writer http.ResponseWriter, request *http.Request) {
		_, _ = writer.Write([]byte(`{"name":"Inverter 1","driver":"SMA"}`))
	})

	apiClient := newTestClient(t, mux)

	details, err := apiClient.Hardware().GetDetails(context.Background(), "123456")
	require.NoError(t, err)
	assert.Equal(t, "SMA", details["driver"])
}

func TestHardwareClient_GetDiagnostics(t *testing.T) {
	t.Parallel()
	t.Run("typed response", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/api/view/hardwarestatus/H123456", func(writer http.ResponseWriter, request *http.Request) {
			_, _ = writer.Write([]byte(`{"key":"H123456","commStatus":"online","errorCount":2,"firmwareLevel":"3.1"}`))
		})

		apiClient := newTestClient(t, mux)

		diagnostics, err := apiClient.Hardware().GetDiagnostics(context.Background(), "H123456")
		require.NoError(t, err)
		require.NotNil(t, diagnostics)
		assert.Equal(t, "online", diagnostics.CommStatus)
		assert.Equal(t, 2, diagnostics.ErrorCount)
	})

	t.Run("empty body maps to nil", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/api/view/hardwarestatus/H123456", func(writer http.ResponseWriter, request *http.Request) {
			_, _ = writer.Write([]byte("null"))
		})

		apiClient := newTestClient(t, mux)

		diagnostics, err := apiClient.Hardware().GetDiagnostics(context.Background(), "H123456")
		require.NoError(t, err)
		assert.Nil(t, diagnostics)
	})
}

func TestHardwareClient_BulkUpdate(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/edit/bulkhardware/S60442", func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodPut, request.Method)
		_, _ = writer.Write([]byte(`{"updated":3}`))
	})

	apiClient := newTestClient(t, mux)

	response, err := apiClient.Hardware().BulkUpdate(context.Background(), "S60442", map[string]interface{}{
		"list": []interface{}{},
	})
	require.NoError(t, err)
	assert.Equal(t, 3.0, response["updated"])
}
