package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommonLogger(t *testing.T) {
	buf := new(bytes.Buffer)

	l, err := CommonLogger(NewConfig(`tests`).WithWriter(buf))
	require.NoError(t, err)

	l.Info("hello", KeyUserID, "123")

	got := make(map[string]any)
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Equal(t, "tests", got["app"])
	require.Equal(t, "hello", got["msg"])
	require.Equal(t, "123", got[KeyUserID])
}

func TestCommonLogger_Invalid(t *testing.T) {
	_, err := CommonLogger(nil)
	require.Error(t, err)

	_, err = CommonLogger(NewConfig(``))
	require.Error(t, err)
}
