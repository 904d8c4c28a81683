package kafka

import (
	"encoding/json"
	"testing"

	"github.com/couchcryptid/recruit-map-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeToMessage(t *testing.T) {
	rec := domain.CanonicalRecord{
		Fields: map[string]string{
			domain.FieldName:   "A. Singh",
			domain.FieldCity:   "Gorakhpur, UP",
			domain.FieldSource: "gorakhpur.csv",
		},
		CleanCity:    "gorakhpur",
		HasCleanCity: true,
		Geo:          &domain.Geo{Lat: 26.7606, Lon: 83.3732},
		GeoSource:    domain.GeoSourceTable,
	}

	msg, err := serializeToMessage("batch-1", rec)
	require.NoError(t, err)

	assert.Equal(t, []byte("batch-1"), msg.Key)
	assert.JSONEq(t, `{
		"fields": {"Name": "A. Singh", "City": "Gorakhpur, UP", "Source": "gorakhpur.csv"},
		"clean_city": "gorakhpur",
		"lat": 26.7606,
		"lon": 83.3732,
		"geo_source": "table"
	}`, string(msg.Value))
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "batch_id", msg.Headers[0].Key)
	assert.Equal(t, []byte("batch-1"), msg.Headers[0].Value)
	assert.Equal(t, "source", msg.Headers[1].Key)
	assert.Equal(t, []byte("gorakhpur.csv"), msg.Headers[1].Value)
}

func TestSerializeToMessage_Unresolved(t *testing.T) {
	rec := domain.CanonicalRecord{
		Fields:    map[string]string{domain.FieldName: "B", domain.FieldCity: ""},
		GeoSource: domain.GeoSourceMissing,
	}

	msg, err := serializeToMessage("batch-2", rec)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &payload))
	assert.Nil(t, payload["clean_city"])
	assert.Nil(t, payload["lat"])
	assert.Nil(t, payload["lon"])
	assert.Equal(t, "missing", payload["geo_source"])
	assert.Equal(t, []byte(""), msg.Headers[1].Value)
}
