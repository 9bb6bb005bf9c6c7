package powertrack_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sunwatt-io/powertrack/pkg/powertrack"
)

func TestDeepMerge(t *testing.T) {
	t.Parallel()
	t.Run("top-level replacement", func(t *testing.T) {
		t.Parallel()

		original := map[string]interface{}{"name": "Old Name", "capacity": 500.0}
		update := map[string]interface{}{"name": "New Name"}

		merged := powertrack.DeepMerge(original, update)

		assert.Equal(t, "New Name", merged["name"])
		assert.Equal(t, 500.0, merged["capacity"])
	})

	t.Run("nested maps merge recursively", func(t *testing.T) {
		t.Parallel()

		original := map[string]interface{}{
			"address": map[string]interface{}{
				"city":  "Denver",
				"state": "CO",
			},
		}
		update := map[string]interface{}{
			"address": map[string]interface{}{
				"city": "Boulder",
			},
		}

		merged := powertrack.DeepMerge(original, update)

		address, ok := merged["address"].(map[string]interface{})
		assert.True(t, ok)
		assert.Equal(t, "Boulder", address["city"])
		assert.Equal(t, "CO", address["state"])
	})

	t.Run("map replaced by scalar", func(t *testing.T) {
		t.Parallel()

		original := map[string]interface{}{
			"modeling": map[string]interface{}{"enabled": true},
		}
		update := map[string]interface{}{"modeling": nil}

		merged := powertrack.DeepMerge(original, update)

		assert.Nil(t, merged["modeling"])
	})

	t.Run("new keys added", func(t *testing.T) {
		t.Parallel()

		original := map[string]interface{}{"name": "Site"}
		update := map[string]interface{}{"notes": "commissioned 2024"}

		merged := powertrack.DeepMerge(original, update)

		assert.Equal(t, "Site", merged["name"])
		assert.Equal(t, "commissioned 2024", merged["notes"])
	})

	t.Run("inputs are not mutated", func(t *testing.T) {
		t.Parallel()

		original := map[string]interface{}{
			"nested": map[string]interface{}{"a": 1},
		}
		update := map[string]interface{}{
			"nested": map[string]interface{}{"b": 2},
		}

		_ = powertrack.DeepMerge(original, update)

		originalNested, ok := original["nested"].(map[string]interface{})
		assert.True(t, ok)
		assert.NotContains(t, originalNested, "b")
	})
}

type fakePlainValuer struct {
	value interface{}
}

func (f fakePlainValuer) PlainValue() interface{} {
	return f.value
}

func TestPlain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    interface{}
		expected interface{}
	}{
		{"nil", nil, nil},
		{"bool", true, true},
		{"string", "hello", "hello"},
		{"float", 3.5, 3.5},
		{"string map", map[string]string{"a": "b"}, map[string]interface{}{"a": "b"}},
		{"string slice", []string{"x", "y"}, []interface{}{"x", "y"}},
		{
			"nested structures",
			map[string]interface{}{
				"list": []interface{}{map[string]string{"k": "v"}},
			},
			map[string]interface{}{
				"list": []interface{}{map[string]interface{}{"k": "v"}},
			},
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.expected, powertrack.Plain(testCase.input))
		})
	}
}

func TestPlain_PlainValuer(t *testing.T) {
	t.Parallel()

	valuer := fakePlainValuer{value: map[string]string{"key": "S60442"}}

	assert.Equal(t, map[string]interface{}{"key": "S60442"}, powertrack.Plain(valuer))
}

func TestSortedKeys(t *testing.T) {
	t.Parallel()

	values := map[string]interface{}{"zulu": 1, "alpha": 2, "mike": 3}

	assert.Equal(t, []string{"alpha", "mike", "zulu"}, powertrack.SortedKeys(values))
}

func TestFormatValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", powertrack.FormatValue(nil))
	assert.Equal(t, "hello", powertrack.FormatValue("hello"))
	assert.Equal(t, "true", powertrack.FormatValue(true))
	assert.Equal(t, "2.5", powertrack.FormatValue(2.5))
	assert.Equal(t, "500", powertrack.FormatValue(500.0))
}
