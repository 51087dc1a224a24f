package adaptr

import (
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestOptions_StringPrefix(t *testing.T) {
	a := NewWithOptions(WithStringPrefix("Person"))
	d, err := AdaptTo[PersonDTO](a, map[string]any{"name": "Jane"})
	require.NoError(t, err)
	assert.Equal(t, "Personmap[name:Jane]", d.String())
}

func TestOptions_JSONString(t *testing.T) {
	a := NewWithOptions(WithJSONString(true))
	d, err := AdaptTo[PersonDTO](a, map[string]any{"name": "Jane", "age_in_years": 3})
	require.NoError(t, err)
	assert.Equal(t, `AdaptR Proxy: {"age_in_years":3,"name":"Jane"}`, d.String())

	// records that cannot be encoded fall back to fmt
	d, err = AdaptTo[PersonDTO](a, map[string]any{"ch": make(chan int)})
	require.NoError(t, err)
	assert.Contains(t, d.String(), "AdaptR Proxy: map[ch:")
}

func TestOptions_CaseInsensitiveKeys(t *testing.T) {
	record := map[string]any{"NAME": "upper", "Active": true}

	d := MustAdapt[PersonDTO](record)
	assert.Equal(t, "", d.GetName(), "case sensitive by default")

	a := NewWithOptions(WithCaseInsensitiveKeys(true))
	d, err := AdaptTo[PersonDTO](a, record)
	require.NoError(t, err)
	assert.Equal(t, "upper", d.GetName())
	assert.True(t, d.IsActive())

	// exact matches win over folded ones; among folded ones the smallest key wins
	record["name"] = "exact"
	assert.Equal(t, "exact", d.GetName())
	delete(record, "name")
	record["Name"] = "title"
	assert.Equal(t, "upper", d.GetName(), `"NAME" sorts before "Name"`)
}

func TestOptions_DisableCoercion(t *testing.T) {
	type D struct {
		GetAge      func() (int64, error)
		GetNickname func() (null.String, error)
		GetName     func() (string, error)
	}
	record := map[string]any{"age": 30, "nickname": "Bob", "name": "n"}

	d := MustAdapt[D](record)
	age, err := d.GetAge()
	require.NoError(t, err)
	assert.Equal(t, int64(30), age)

	a := NewWithOptions(WithDisableCoercion(true))
	d, err = AdaptTo[D](a, record)
	require.NoError(t, err)

	_, err = d.GetAge()
	var mismatch *TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Nil(t, mismatch.Err)

	_, err = d.GetNickname()
	assert.ErrorIs(t, err, ErrTypeMismatch)

	name, err := d.GetName()
	require.NoError(t, err)
	assert.Equal(t, "n", name)
}

func TestOptions_LoggerTracesResolution(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	a := NewWithOptions(WithLogger(zap.New(core)))
	a.RegisterOverride("GetName", "display_name")

	d, err := AdaptTo[PersonDTO](a, map[string]any{"display_name": "Dee", "age_in_years": 7})
	require.NoError(t, err)
	require.Equal(t, 1, logs.FilterMessage("adapted record").Len())

	assert.Equal(t, "Dee", d.GetName())
	assert.Equal(t, 7, d.GetAge())
	assert.Equal(t, "", d.GetFullName())

	entries := logs.FilterMessage("resolved key").AllUntimed()
	require.Len(t, entries, 3)
	assert.Equal(t, "global", entries[0].ContextMap()["source"])
	assert.Equal(t, "display_name", entries[0].ContextMap()["key"])
	assert.Equal(t, "tag", entries[1].ContextMap()["source"])
	assert.Equal(t, false, entries[2].ContextMap()["found"])
}

func TestOptions_ErrorsAreNotLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	a := NewWithOptions(WithLogger(zap.New(core)))
	var d PersonDTO
	require.Error(t, a.Adapt(nil, &d))
	assert.Equal(t, 0, logs.Len())
}
