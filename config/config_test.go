package config_test

import (
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/YaCodeDev/GoYaHTTP/config"
	"github.com/YaCodeDev/GoYaHTTP/yalogger"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testStruct struct {
	String          string            `default:"Ya_Code"`
	Int             int               `default:"42"`
	Int8            int8              `default:"84"`
	Uint16          uint16            `default:"336"`
	Uint64          uint64            `default:"1344"`
	Float32         float32           `default:"1.618"`
	Float64         float64           `default:"2.718"`
	Bool            bool              `default:"true"`
	Bytes           []byte            `default:"1,2,3"`
	IntSlice        []int             `default:"500,502,503"`
	StringSlice     []string          `default:"Ya_Code,Skalse,Oleksandr"`
	DurationSlice   []time.Duration   `default:"1s,2m"`
	MapStringString map[string]string `default:"Accept:text/html,X-Env:prod"`
	MapIntBool      map[int]bool      `default:"-1:true,2:false"`
	Timeout         time.Duration     `default:"20s"`
	Optional        string            `default:""`
	Existing        string            `default:"never"`
	NestedStruct    nestedStruct
}

type nestedStruct struct {
	LogLevel              yalogger.Level `default:"info"`
	IntNoDefault          int
	IntNoDefaultDotEnv    int
	OverriddenFromEnv     uint `default:"1"`
	MultiplierFromDefault float64 `default:"0.5"`
}

var expected = testStruct{
	String:          "Ya_Code",
	Int:             42,
	Int8:            84,
	Uint16:          336,
	Uint64:          1344,
	Float32:         1.618,
	Float64:         2.718,
	Bool:            true,
	Bytes:           []byte{1, 2, 3},
	IntSlice:        []int{500, 502, 503},
	StringSlice:     []string{"Ya_Code", "Skalse", "Oleksandr"},
	DurationSlice:   []time.Duration{time.Second, 2 * time.Minute},
	MapStringString: map[string]string{"Accept": "text/html", "X-Env": "prod"},
	MapIntBool:      map[int]bool{-1: true, 2: false},
	Timeout:         20 * time.Second,
	Existing:        "kept",
	NestedStruct: nestedStruct{
		LogLevel:              yalogger.InfoLevel,
		IntNoDefault:          100,
		IntNoDefaultDotEnv:    200,
		OverriddenFromEnv:     7,
		MultiplierFromDefault: 0.5,
	},
}

func TestConfigLoader(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("NESTED_STRUCT_INT_NO_DEFAULT", "100")
	t.Setenv("NESTED_STRUCT_OVERRIDDEN_FROM_ENV", "7")

	err := os.WriteFile(
		config.DotEnvFile,
		[]byte("# generated\nNESTED_STRUCT_INT_NO_DEFAULT_DOT_ENV=200\nNESTED_STRUCT_INT_NO_DEFAULT=1\n"),
		0o600,
	)
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() { _ = os.Unsetenv("NESTED_STRUCT_INT_NO_DEFAULT_DOT_ENV") })

	configInstance := testStruct{Existing: "kept"}

	if err := config.LoadConfigStructFromEnvHandlingError(&configInstance, nil); err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(configInstance, expected) {
		t.Errorf(
			"Expected: %+v, got: %+v, diff: %s",
			expected,
			configInstance,
			cmp.Diff(expected, configInstance),
		)
	}
}

func TestConfigLoader_RequiredValueMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	var instance struct {
		Endpoint string
	}

	err := config.LoadConfigStructFromEnvHandlingError(&instance, yalogger.NewNop())
	require.NotNil(t, err)
	assert.ErrorIs(t, err, config.ErrValueIsRequired)
	assert.Contains(t, err.Error(), "ENDPOINT")
}

func TestConfigLoader_WithPrefix(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_BACKOFF_INITIAL_INTERVAL", "250ms")

	var instance struct {
		Backoff struct {
			InitialInterval time.Duration `default:"500ms"`
			Multiplier      float64       `default:"2"`
		}
	}

	err := config.LoadConfigStructFromEnvWithPrefix(&instance, "APP", nil)
	require.Nil(t, err)

	assert.Equal(t, 250*time.Millisecond, instance.Backoff.InitialInterval)
	assert.InDelta(t, 2.0, instance.Backoff.Multiplier, 1e-9)
}

func TestConfigLoader_InvalidValue(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TIMEOUT", "later")

	var instance struct {
		Timeout time.Duration `default:"1s"`
	}

	err := config.LoadConfigStructFromEnvHandlingError(&instance, nil)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "TIMEOUT")
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("GET_ENV_INT", "12")
	t.Setenv("GET_ENV_ARRAY", "1;2")
	t.Setenv("GET_ENV_MAP", "a:1,b:2")
	t.Setenv("GET_ENV_BROKEN", "x")

	sep := ";"

	assert.Equal(t, 12, config.GetEnv("GET_ENV_INT", 0, false, nil))
	assert.Equal(t, 5, config.GetEnv("GET_ENV_BROKEN", 5, false, nil))
	assert.Equal(t, 3*time.Second, config.GetEnv("GET_ENV_MISSING", 3*time.Second, false, nil))
	assert.Equal(t, []int{1, 2}, config.GetEnvArray[int]("GET_ENV_ARRAY", nil, &sep, false, nil))
	assert.Equal(
		t,
		map[string]int{"a": 1, "b": 2},
		config.GetEnvMap[string, int]("GET_ENV_MAP", nil, false, nil, nil, nil),
	)
}
