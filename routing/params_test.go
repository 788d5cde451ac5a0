package routing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParamsInt(t *testing.T) {
	p := Params{"hello_period": "100"}

	v, err := p.Int("hello_period", 0)
	require.NoError(t, err)
	require.Equal(t, 100, v)

	v, err = p.Int("missing", 42)
	require.NoError(t, err)
	require.Equal(t, 42, v)

	_, err = Params{"bad": "nope"}.Int("bad", 0)
	require.ErrorAs(t, err, &ConfigError{})
}

func TestParamsRangeFloat(t *testing.T) {
	_, err := Params{"lqe_threshold": "1.5"}.RangeFloat("lqe_threshold", 0, 0, 1)
	require.Error(t, err)

	v, err := Params{"lqe_threshold": "0.5"}.RangeFloat("lqe_threshold", 0, 0, 1)
	require.NoError(t, err)
	require.Equal(t, 0.5, v)
}

func TestParamsNodeKind(t *testing.T) {
	k, err := Params{"node_type": "sink"}.NodeKindParam(Sensor)
	require.NoError(t, err)
	require.Equal(t, Sink, k)

	_, err = Params{"node_type": "robot"}.NodeKindParam(Sensor)
	require.Error(t, err)
}
