package suites

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/fixspec/packages/core/lifecycle"
	"github.com/abdul-hamid-achik/fixspec/packages/core/runner"
)

func run(t *testing.T, filter string) *runner.RunResult {
	t.Helper()
	result, err := runner.NewRunner(&runner.Config{NameFilter: filter}).Run(context.Background(), Root())
	require.NoError(t, err)
	for _, r := range result.Results {
		if r.State.Failing() {
			t.Errorf("%s: %s: %s", r.DisplayName(), r.State, r.Message)
		}
	}
	return result
}

func find(result *runner.RunResult, name, run string) *runner.TestResult {
	for _, r := range result.Results {
		if r.Name == name && r.Run == run {
			return r
		}
	}
	return nil
}

func TestRoot(t *testing.T) {
	result := run(t, "")

	assert.True(t, result.Success())
	assert.Equal(t, 41, result.Total())
	assert.Equal(t, 40, result.Passed)
	assert.Equal(t, 1, result.Skipped)

	skipped := find(result, `example\writing\testSkip`, "")
	require.NotNil(t, skipped)
	assert.Equal(t, lifecycle.Skipped, skipped.State)
	assert.Equal(t, "needs at least 4096 CPUs", skipped.Message)
}

func TestMultiple(t *testing.T) {
	result := run(t, "*test_two")

	for _, runs := range []string{"one/a1", "one/a2", "two/a1", "two/a2"} {
		r := find(result, `a\test_two`, runs)
		require.NotNil(t, r, runs)
		assert.Equal(t, lifecycle.Passed, r.State, runs)
	}
}

func TestDatabase(t *testing.T) {
	result := run(t, `example\records\*`)

	var names []string
	for _, r := range result.Results {
		names = append(names, r.DisplayName())
	}
	assert.Equal(t, []string{
		`example\records\TestDatabase::testDeleteRecord [memory]`,
		`example\records\TestDatabase::testInsertRecord [memory]`,
		`example\records\TestDatabase::testDeleteRecord [file]`,
		`example\records\TestDatabase::testInsertRecord [file]`,
	}, names)
}
