package ui

import (
	"encoding/json"
	"testing"

	"github.com/go-errors/errors"
	"github.com/stretchr/testify/require"

	irmamobile "github.com/privacybydesign/irmamobile"
	"github.com/privacybydesign/irmamobile/i18n"
)

type pressCommand struct {
	Target string `json:"target"`
	Times  int    `json:"times"`
}

func (pressCommand) CommandName() string { return "press" }

type typeCommand struct {
	Value string `json:"value"`
}

func (typeCommand) CommandName() string { return "type" }

func testTree() *Node {
	return Container("root",
		Content(
			Card(
				CardItem(Text("hello").WithTestID("greeting")),
				nil,
				Form(Input(InputTypePin, "PIN", func(v string) Command { return typeCommand{Value: v} })),
			),
		),
		Footer(Button("go", pressCommand{Target: "next"}).WithTestID("goButton")),
	)
}

func TestNilChildrenAreDropped(t *testing.T) {
	card := testTree().Children[0].Children[0]
	require.Len(t, card.Children, 2)
}

func TestQueries(t *testing.T) {
	tree := testTree()
	require.Equal(t, "hello", tree.Find("greeting").Text)
	require.Nil(t, tree.Find("nothing"))
	require.Len(t, tree.FindKind(KindInput), 1)
	require.Equal(t, []string{"hello", "go"}, tree.Texts())

	interactive := tree.Interactive()
	require.Len(t, interactive, 2)
	require.Equal(t, KindInput, interactive[0].Kind)
	require.Equal(t, pressCommand{Target: "next"}, interactive[1].Command)
}

func TestMarshalIncludesCommands(t *testing.T) {
	bts, err := json.Marshal(testTree())
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(bts, &out))
	require.Equal(t, "container", out["kind"])
	require.Equal(t, "root", out["testID"])

	footer := out["children"].([]interface{})[1].(map[string]interface{})
	button := footer["children"].([]interface{})[0].(map[string]interface{})
	command := button["command"].(map[string]interface{})
	require.Equal(t, "press", command["name"])
	require.Equal(t, "next", command["args"].(map[string]interface{})["target"])

	require.Contains(t, string(bts), `"onChange":"type"`)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	Register[pressCommand](r)
	Register[typeCommand](r)
	require.Equal(t, []string{"press", "type"}, r.Names())

	cmd, err := r.Decode("press", map[string]interface{}{"target": "back", "times": float64(2)})
	require.NoError(t, err)
	require.Equal(t, pressCommand{Target: "back", Times: 2}, cmd)

	cmd, err = r.Decode("press", map[string]interface{}{"times": "3"})
	require.NoError(t, err)
	require.Equal(t, pressCommand{Times: 3}, cmd)

	_, err = r.Decode("press", map[string]interface{}{"bogus": true})
	require.Error(t, err)

	_, err = r.Decode("fly", nil)
	require.True(t, errors.Is(err, ErrUnknownCommand))
}

func TestValidate(t *testing.T) {
	for value, valid := range map[string]bool{
		"":       false,
		"1234":   false,
		"12345":  true,
		"123456": true,
		"12a45":  false,
	} {
		ok, _ := Validate(InputTypePin, value)
		require.Equal(t, valid, ok, value)
	}

	ok, key := Validate(InputTypeEmail, "not an address")
	require.False(t, ok)
	require.Equal(t, ".invalid", key)

	value, key := ValidateRepeated(InputTypePin, "12345", "12346")
	require.Empty(t, value)
	require.Equal(t, ".repeatMismatch", key)
	value, _ = ValidateRepeated(InputTypePin, "12345", "12345")
	require.Equal(t, "12345", value)
}

func TestErrorCard(t *testing.T) {
	catalog, err := i18n.Load("en")
	require.NoError(t, err)

	card := ErrorCard(&irmamobile.SessionError{
		ErrorType:   irmamobile.ErrorTransport,
		Info:        "server unreachable",
		RemoteError: &irmamobile.RemoteError{Status: 502, ErrorName: "BAD_GATEWAY"},
	}, catalog.Translator("en"))

	require.Equal(t, KindErrorCard, card.Kind)
	texts := card.Texts()
	require.Contains(t, texts, "transport")
	require.Contains(t, texts, "server unreachable")
	require.Contains(t, texts, "502")
	require.Contains(t, texts, "BAD_GATEWAY")

	require.Empty(t, ErrorCard(nil, catalog.Translator("en")).Children)
}
