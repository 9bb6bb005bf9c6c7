package client

import (
	"context"
	"fmt"

	"github.com/sunwatt-io/powertrack/internal/http"
	"github.com/sunwatt-io/powertrack/pkg/powertrack"
)

// updateSpec describes one read-merge-write target.
type updateSpec struct {
	// description names the resource in failure messages, e.g. "site
	// configuration".
	description string

	getPath string
	putPath string

	// idField is attached to the merged payload before the write ("key" for
	// sites, "hardwareId" for hardware).
	idField string
	idValue interface{}

	referer string
}

// mergeUpdate performs a read-merge-write cycle. It never returns a Go error:
// every failure collapses into UpdateResult{Success: false, ErrorMessage}.
// Nothing is written when the read fails or returns no data.
func mergeUpdate(ctx context.Context, httpClient *http.Client, spec updateSpec, changes map[string]interface{}, returnFull bool) *powertrack.UpdateResult {
	current, err := fetchCurrent(ctx, httpClient, spec)
	if err != nil {
		return &powertrack.UpdateResult{
			Success:      false,
			ErrorMessage: fmt.Sprintf("failed to fetch current %s: %v", spec.description, err),
		}
	}

	if current == nil {
		return &powertrack.UpdateResult{
			Success:      false,
			ErrorMessage: "failed to fetch current " + spec.description,
		}
	}

	merged := powertrack.DeepMerge(current, changes)
	if spec.idField != "" {
		merged[spec.idField] = spec.idValue
	}

	result := &powertrack.UpdateResult{}
	if returnFull {
		result.OriginalData = current
		result.UpdatedData = merged
	}

	putResponse, err := writeMerged(ctx, httpClient, spec, merged)
	if err != nil || putResponse == nil {
		result.Success = false
		result.ErrorMessage = "PUT request failed"

		if err != nil {
			result.ErrorMessage = fmt.Sprintf("PUT request failed: %v", err)
		}

		return result
	}

	result.Success = true
	if returnFull {
		result.PutResponse = putResponse
	}

	return result
}

func fetchCurrent(ctx context.Context, httpClient *http.Client, spec updateSpec) (map[string]interface{}, error) {
	resp, err := httpClient.Get(ctx, spec.getPath, nil, http.WithReferer(spec.referer))
	if err != nil {
		return nil, err
	}

	return decodeObject(resp.Body, spec.description)
}

func writeMerged(ctx context.Context, httpClient *http.Client, spec updateSpec, merged map[string]interface{}) (map[string]interface{}, error) {
	resp, err := httpClient.Put(ctx, spec.putPath, powertrack.Plain(merged), http.WithReferer(spec.referer))
	if err != nil {
		return nil, err
	}

	return decodeObject(resp.Body, spec.description+" response")
}
