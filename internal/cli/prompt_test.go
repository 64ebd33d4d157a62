package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	in := strings.NewReader(dir + "\nops@example.com\nsecret\ndirector@example.com\n")
	var out bytes.Buffer

	a, err := NewPrompter(in, &out).Collect()
	require.NoError(t, err)

	assert.Equal(t, Answers{
		Directory: dir,
		Sender:    "ops@example.com",
		Password:  "secret",
		Receiver:  "director@example.com",
	}, a)
	assert.Equal(t, PromptDirectory+"\n"+PromptSender+"\n"+PromptPassword+"\n"+PromptReceiver+"\n", out.String())
}

func TestAsk_RepromptsUntilValid(t *testing.T) {
	in := strings.NewReader("\n   \nnot-an-address\nops@example.com\n")
	var out bytes.Buffer

	got, err := NewPrompter(in, &out).Ask(PromptSender, "required,email")
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", got)

	assert.Equal(t, 4, strings.Count(out.String(), PromptSender))
	assert.Equal(t, 2, strings.Count(out.String(), "A value is required."))
	assert.Contains(t, out.String(), "The value is not a valid email address.")
}

func TestAsk_DirectoryMustExist(t *testing.T) {
	dir := t.TempDir()
	in := strings.NewReader(dir + "/missing\n" + dir + "\n")
	var out bytes.Buffer

	got, err := NewPrompter(in, &out).Ask(PromptDirectory, "required,dir")
	require.NoError(t, err)
	assert.Equal(t, dir, got)
	assert.Contains(t, out.String(), "The path is not an existing directory.")
}

func TestAsk_TrimsAnswerAndCRLF(t *testing.T) {
	in := strings.NewReader("  ops@example.com \r\n")

	got, err := NewPrompter(in, &bytes.Buffer{}).Ask(PromptSender, "required,email")
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", got)
}

func TestAsk_LastLineWithoutNewline(t *testing.T) {
	got, err := NewPrompter(strings.NewReader("ops@example.com"), &bytes.Buffer{}).Ask(PromptSender, "required,email")
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", got)
}

func TestAsk_EOF(t *testing.T) {
	_, err := NewPrompter(strings.NewReader("\n"), &bytes.Buffer{}).Ask(PromptSender, "required,email")
	require.ErrorIs(t, err, ErrNoInput)
}

func TestAskSecret_KeepsSpaces(t *testing.T) {
	in := strings.NewReader("\n pa ss \n")

	got, err := NewPrompter(in, &bytes.Buffer{}).AskSecret(PromptPassword)
	require.NoError(t, err)
	assert.Equal(t, " pa ss ", got)
}
