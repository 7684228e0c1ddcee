package prom

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryResponse_Decode(t *testing.T) {
	body := `{
		"status": "success",
		"data": {
			"resultType": "vector",
			"result": [
				{"metric": {"instance": "10.0.0.1:9100", "nodename": "web01.internal"}, "value": [1702483200.123, "1"]}
			]
		}
	}`

	var resp QueryResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.True(t, resp.IsSuccess())
	assert.True(t, resp.Data.IsVector())

	rows, err := ParseRows(&resp)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "web01.internal", rows[0].Label("nodename"))
	assert.Equal(t, "1", rows[0].Value)
	assert.InDelta(t, 1702483200.123, rows[0].Timestamp, 1e-6)
}

func TestSampleValue(t *testing.T) {
	t.Run("numeric_value", func(t *testing.T) {
		v := SampleValue{float64(1), float64(2.5)}
		raw, err := v.Raw()
		require.NoError(t, err)
		assert.Equal(t, "2.5", raw)
	})

	t.Run("wrong_length", func(t *testing.T) {
		v := SampleValue{float64(1)}
		_, err := v.Raw()
		assert.Error(t, err)
		_, err = v.Timestamp()
		assert.Error(t, err)
	})

	t.Run("wrong_type", func(t *testing.T) {
		v := SampleValue{true, map[string]interface{}{}}
		_, err := v.Timestamp()
		assert.Error(t, err)
		_, err = v.Raw()
		assert.Error(t, err)
	})
}

func TestParseRows_MalformedSample(t *testing.T) {
	resp := &QueryResponse{
		Status: "success",
		Data: QueryData{
			ResultType: "vector",
			Result: []Sample{
				{Metric: Metric{"instance": "a"}, Value: SampleValue{float64(1)}},
			},
		},
	}

	_, err := ParseRows(resp)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBackendMalformed))
}

func TestParseRows_NilLabels(t *testing.T) {
	resp := &QueryResponse{
		Status: "success",
		Data: QueryData{
			ResultType: "vector",
			Result:     []Sample{{Value: SampleValue{float64(1), "3"}}},
		},
	}

	rows, err := ParseRows(resp)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0].Instance())
}
