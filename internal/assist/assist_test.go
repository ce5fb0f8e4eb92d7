package assist

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/insightsheet-cli/internal/ai"
	"github.com/KaramelBytes/insightsheet-cli/internal/table"
	"github.com/KaramelBytes/insightsheet-cli/internal/transform"
)

type fakeRuntime struct {
	reply string
	err   error
	got   []ai.GenerateRequest
}

func (f *fakeRuntime) Generate(_ context.Context, req ai.GenerateRequest) (*ai.GenerateResponse, error) {
	f.got = append(f.got, req)
	if f.err != nil {
		return nil, f.err
	}
	return &ai.GenerateResponse{Choices: []ai.Choice{{Message: ai.Message{Role: "assistant", Content: f.reply}}}}, nil
}

type streamingRuntime struct {
	fakeRuntime
	chunks []string
}

func (s *streamingRuntime) GenerateStream(_ context.Context, req ai.GenerateRequest, onDelta func(string)) error {
	s.got = append(s.got, req)
	for _, c := range s.chunks {
		onDelta(c)
	}
	return nil
}

func orders() table.Table {
	return table.New([]string{"Price", "Qty", "Region"}, []table.Row{
		{table.Number(2.5), table.Number(4), table.String("north")},
		{table.Number(10), table.Number(3), table.String("south")},
	})
}

func TestSuggestColumnFromFencedReply(t *testing.T) {
	rt := &fakeRuntime{reply: "Sure! Here it is:\n```json\n" +
		`{"col_a":"Price","col_b":"Qty","op":"multiply","new_column_name":"Total","explanation":"price {times} qty"}` +
		"\n```\nLet me know."}
	s, err := SuggestColumn(context.Background(), rt, Request{Table: orders(), Prompt: "total revenue per row", Model: "m", MaxTokens: 200})
	require.NoError(t, err)
	assert.Equal(t, transform.Suggestion{ColumnA: "Price", ColumnB: "Qty", Op: "multiply", NewColumnName: "Total", Explanation: "price {times} qty"}, s)

	require.Len(t, rt.got, 1)
	req := rt.got[0]
	assert.Equal(t, "m", req.Model)
	assert.Equal(t, 200, req.MaxTokens)
	require.Len(t, req.Messages, 2)
	user := req.Messages[1].Content
	assert.Contains(t, user, "total revenue per row")
	assert.Contains(t, user, "- Region")
	assert.Contains(t, user, "Price=2.5; Qty=4; Region=north")

	out, err := s.Apply(orders())
	require.NoError(t, err)
	total, ok := out.Rows[0][3].Float()
	require.True(t, ok)
	assert.Equal(t, 10.0, total)
}

func TestSuggestColumnRejectsInvalid(t *testing.T) {
	rt := &fakeRuntime{reply: `{"col_a":"Price","col_b":"Qty","op":"add","new_column_name":"Region"}`}
	_, err := SuggestColumn(context.Background(), rt, Request{Table: orders(), Prompt: "x"})
	var nce *transform.NameCollisionError
	require.ErrorAs(t, err, &nce)

	rt.reply = `{"col_a":"Cost","col_b":"Qty","op":"add","new_column_name":"Sum"}`
	_, err = SuggestColumn(context.Background(), rt, Request{Table: orders(), Prompt: "x"})
	var cnf *table.ColumnNotFoundError
	require.ErrorAs(t, err, &cnf)
	assert.Equal(t, "Cost", cnf.Column)

	rt.reply = "I cannot help with that."
	_, err = SuggestColumn(context.Background(), rt, Request{Table: orders(), Prompt: "x"})
	var se *SuggestionError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "I cannot help with that.", se.Reply)

	rt.err = errors.New("offline")
	_, err = SuggestColumn(context.Background(), rt, Request{Table: orders(), Prompt: "x"})
	assert.ErrorContains(t, err, "offline")

	_, err = SuggestColumn(context.Background(), rt, Request{Table: orders(), Prompt: "  "})
	assert.Error(t, err)
}

func TestParseSuggestion(t *testing.T) {
	s, err := ParseSuggestion(`{"col_a":"A","col_b":"B","op":"concat","new_column_name":"AB","separator":" - "}`)
	require.NoError(t, err)
	assert.Equal(t, " - ", s.Separator)

	_, err = ParseSuggestion(`{"col_a":"A","op":""}`)
	var se *SuggestionError
	require.ErrorAs(t, err, &se)
	assert.ErrorContains(t, err, "op, new_column_name")

	_, err = ParseSuggestion(`{"col_a": "A", "op": `)
	assert.ErrorAs(t, err, &se)
}

func TestExtractObject(t *testing.T) {
	obj, ok := extractObject(`noise {"a":"}{","b":{"c":1}} trailing }`)
	require.True(t, ok)
	assert.Equal(t, `{"a":"}{","b":{"c":1}}`, obj)
	_, ok = extractObject("none")
	assert.False(t, ok)
}

func TestAskUsesProfile(t *testing.T) {
	rt := &fakeRuntime{reply: "  Average price is 6.25.  "}
	answer, err := Ask(context.Background(), rt, Request{Name: "orders.csv", Table: orders(), Prompt: "What is the average price?", Model: "llama3:latest", MaxTokens: 100})
	require.NoError(t, err)
	assert.Equal(t, "Average price is 6.25.", answer)

	user := rt.got[0].Messages[1].Content
	assert.True(t, strings.HasPrefix(user, "[DATASET PROFILE]\n[DATASET SUMMARY]"))
	assert.Contains(t, user, "File: orders.csv")
	assert.Contains(t, user, "[QUESTION]\nWhat is the average price?")
}

func TestAskStreams(t *testing.T) {
	rt := &streamingRuntime{chunks: []string{"It ", "depends."}}
	var seen []string
	answer, err := Ask(context.Background(), rt, Request{Table: orders(), Prompt: "why?", OnDelta: func(d string) { seen = append(seen, d) }})
	require.NoError(t, err)
	assert.Equal(t, "It depends.", answer)
	assert.Equal(t, []string{"It ", "depends."}, seen)
}

func TestAskPromptTruncatesProfile(t *testing.T) {
	long := strings.Repeat("x", 4000)
	prompt, tokens := AskPrompt(long, "q?", 200)
	assert.Contains(t, prompt, "(profile truncated)")
	assert.LessOrEqual(t, tokens, 210)

	prompt, _ = AskPrompt("short", "q?", 0)
	assert.NotContains(t, prompt, "truncated")
}
