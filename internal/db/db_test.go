package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentmatch/talent-match/internal/types"
)

func TestToVector(t *testing.T) {
	assert.Nil(t, toVector(nil))
	assert.Nil(t, toVector([]float32{}))

	v := toVector([]float32{0.1, 0.2})
	require.NotNil(t, v)
	assert.Equal(t, []float32{0.1, 0.2}, v.Slice())
}

func TestMarshalNullable(t *testing.T) {
	var edu *types.Education
	data, err := marshalNullable(edu)
	require.NoError(t, err)
	assert.Nil(t, data)

	var links map[string]string
	data, err = marshalNullable(links)
	require.NoError(t, err)
	assert.Nil(t, data)

	data, err = marshalNullable(&types.Education{Level: "BSc", Field: "CS"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"level":"BSc","field":"CS"}`, string(data))
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationFS.ReadDir("migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	data, err := migrationFS.ReadFile("migrations/" + entries[0].Name())
	require.NoError(t, err)
	for _, table := range []string{"jobs", "user_profiles", "resumes", "applications"} {
		assert.Contains(t, string(data), "CREATE TABLE IF NOT EXISTS "+table)
	}
}
