package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Success(map[string]string{"result": "success"}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
	assert.Nil(t, resp.Error)
}

func TestOutputFormatter_JSONErrorWithDetails(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	exitErr := WrapExitError(ExitFailure, "rejected", errors.New("invalid order"))
	exitErr.Details = []string{"cakeType"}
	require.NoError(t, formatter.Error(exitErr))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ExitFailure, resp.Error.Code)
	assert.Equal(t, "rejected: invalid order", resp.Error.Message)
	assert.NotNil(t, resp.Error.Details)
}

func TestOutputFormatter_PlainErrorBecomesFailure(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Error(errors.New("boom")))
	assert.Equal(t, "Error: command failed: boom\n", buf.String())
}

type textual struct{}

func (textual) WriteText(w io.Writer) error {
	_, err := io.WriteString(w, "custom text\n")
	return err
}

func TestOutputFormatter_TextUsesWriteText(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Success(textual{}))
	assert.Equal(t, "custom text\n", buf.String())

	buf.Reset()
	require.NoError(t, formatter.Success("plain"))
	assert.Equal(t, "plain\n", buf.String())
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad flag")))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))

	wrapped := WrapExitError(ExitCommandError, "config", errors.New("missing"))
	assert.Equal(t, ExitCommandError, GetExitCode(wrapped))
	assert.Equal(t, "config: missing", wrapped.Error())
	assert.EqualError(t, errors.Unwrap(wrapped), "missing")
}

func TestReported(t *testing.T) {
	err := NewExitError(ExitFailure, "x")
	assert.False(t, Reported(err))

	marked := markReported(err)
	assert.True(t, Reported(marked))
	assert.Equal(t, ExitFailure, GetExitCode(marked))

	plain := markReported(errors.New("plain"))
	assert.True(t, Reported(plain))
	assert.Equal(t, ExitFailure, GetExitCode(plain))
}

func TestTable_AlignsColumns(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, table(buf, []string{"ID", "NAME"}, [][]string{{"1", "Asha"}, {"22", "Meera"}}))
	assert.Equal(t, "ID  NAME\n1   Asha\n22  Meera\n", buf.String())
}
